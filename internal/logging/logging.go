package logging

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"SumKeeper/internal/config"
)

const timeLayout = "2006-01-02 15:04:05"

// Logger writes timestamped lines gated by the configured level.
type Logger struct {
	level config.Level
	out   io.Writer
	err   io.Writer
	now   func() time.Time
	mu    sync.Mutex
}

// NewLogger creates a logger writing to stdout and stderr.
func NewLogger(level config.Level) *Logger {
	return NewLoggerTo(level, os.Stdout, os.Stderr)
}

func NewLoggerTo(level config.Level, out, errOut io.Writer) *Logger {
	return &Logger{level: level, out: out, err: errOut, now: time.Now}
}

func (l *Logger) InfoEnabled() bool  { return l.level.InfoEnabled() }
func (l *Logger) DebugEnabled() bool { return l.level.DebugEnabled() }

// Info logs an info message
func (l *Logger) Info(format string, args ...interface{}) {
	if l.InfoEnabled() {
		l.write(l.out, "", format, args...)
	}
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...interface{}) {
	if l.DebugEnabled() {
		l.write(l.out, "DEBUG: ", format, args...)
	}
}

// Error logs an error message regardless of level.
func (l *Logger) Error(format string, args ...interface{}) {
	l.write(l.err, "ERROR: ", format, args...)
}

func (l *Logger) write(w io.Writer, prefix, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = fmt.Fprintf(w, "[%s] %s%s\n", l.now().Format(timeLayout), prefix, msg)
}
