package helpers

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// TimestampLayout is the layout used for every run log timestamp
const TimestampLayout = "2006-01-02 15:04:05"

// LoggerInterface defines the interface for run log implementations
type LoggerInterface interface {
	LogError(endpoint string, err error)
	LogInfo(format string, args ...interface{})
}

// Logger writes the plain-text run log the viewer serves. Info lines go to
// out, error lines to errOut, one line per call.
type Logger struct {
	mu     sync.Mutex
	out    io.Writer
	errOut io.Writer
	now    func() time.Time
}

// NewLogger creates a new run logger
func NewLogger(out, errOut io.Writer) *Logger {
	return &Logger{
		out:    out,
		errOut: errOut,
		now:    time.Now,
	}
}

// OpenRunLog returns a logger writing to stdout/stderr and, when path is
// not empty, appending both streams to the file at path.
func OpenRunLog(path string) (*Logger, io.Closer, error) {
	if path == "" {
		return NewLogger(os.Stdout, os.Stderr), io.NopCloser(nil), nil
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open run log %s: %w", path, err)
	}

	return NewLogger(io.MultiWriter(os.Stdout, f), io.MultiWriter(os.Stderr, f)), f, nil
}

// Timestamp formats the current time for a run log line
func (l *Logger) Timestamp() string {
	return l.now().Format(TimestampLayout)
}

// LogError logs an endpoint error with a timestamp
func (l *Logger) LogError(endpoint string, err error) {
	l.write(l.errOut, fmt.Sprintf("[%s] %s: error: %v", l.Timestamp(), endpoint, err))
}

// LogInfo logs a run log line as is
func (l *Logger) LogInfo(format string, args ...interface{}) {
	l.write(l.out, fmt.Sprintf(format, args...))
}

func (l *Logger) write(w io.Writer, line string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	io.WriteString(w, line+"\n")
}
