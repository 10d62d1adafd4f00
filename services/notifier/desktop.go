package notifier

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"sjsage522/slotwatcher/pkg/errors"
)

// DesktopNotifier shows a local desktop notification: osascript on macOS,
// notify-send elsewhere.
type DesktopNotifier struct {
	goos    string
	timeout time.Duration
	run     func(ctx context.Context, name string, args ...string) error
}

// NewDesktopNotifier creates a notifier for the current OS
func NewDesktopNotifier() *DesktopNotifier {
	return &DesktopNotifier{
		goos:    runtime.GOOS,
		timeout: 5 * time.Second,
		run: func(ctx context.Context, name string, args ...string) error {
			return exec.CommandContext(ctx, name, args...).Run()
		},
	}
}

// Notify runs the platform notification command
func (d *DesktopNotifier) Notify(ctx context.Context, title, body string) error {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	name, args := d.command(title, body)
	if err := d.run(ctx, name, args...); err != nil {
		return errors.NewNotify("desktop", fmt.Sprintf("%s failed", name), err)
	}
	return nil
}

func (d *DesktopNotifier) command(title, body string) (string, []string) {
	if d.goos == "darwin" {
		script := fmt.Sprintf("display notification %s with title %s", appleScriptString(body), appleScriptString(title))
		return "osascript", []string{"-e", script}
	}
	return "notify-send", []string{"--app-name=slotwatcher", title, body}
}

func appleScriptString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}
