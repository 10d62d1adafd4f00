package notifier

import (
	"context"
	"errors"
)

// Notifier delivers a short alert. Callers treat delivery as best effort.
type Notifier interface {
	Notify(ctx context.Context, title, body string) error
}

// Multi fans a notification out to every notifier and joins their errors
type Multi []Notifier

// Notify calls every notifier even when an earlier one fails
func (m Multi) Notify(ctx context.Context, title, body string) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, title, body); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Nop drops every notification
type Nop struct{}

// Notify does nothing
func (Nop) Notify(context.Context, string, string) error { return nil }
