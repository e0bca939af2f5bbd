// Package logging holds the process-wide operator logger. Messages go to
// stderr so that detection results on stdout stay machine-readable.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

// Logger is the global logger instance. It discards everything until Init.
var Logger = log.New(io.Discard)

// Init points the global logger at w with the given level
// (debug, info, warn, error).
func Init(w io.Writer, level string) error {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	if w == nil {
		w = os.Stderr
	}
	Logger = log.NewWithOptions(w, log.Options{
		ReportTimestamp: lvl == log.DebugLevel,
		TimeFormat:      time.TimeOnly,
		Level:           lvl,
		Prefix:          "trilang",
	})
	return nil
}

// Info logs an info message
func Info(msg string, keyvals ...any) {
	Logger.Info(msg, keyvals...)
}

// Debug logs a debug message
func Debug(msg string, keyvals ...any) {
	Logger.Debug(msg, keyvals...)
}

// Warn logs a warning message
func Warn(msg string, keyvals ...any) {
	Logger.Warn(msg, keyvals...)
}

// Error logs an error message
func Error(msg string, keyvals ...any) {
	Logger.Error(msg, keyvals...)
}

// WithPrefix returns a child logger with a prefix
func WithPrefix(prefix string) *log.Logger {
	return Logger.WithPrefix(prefix)
}
