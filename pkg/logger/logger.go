package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"flowpulse-docparse/internal/domain"
)

// AppLogger implements the domain.Logger interface on top of slog.
type AppLogger struct {
	logger *slog.Logger
}

// NewLogger creates a new logger writing to stdout.
// format is "json" or "text"; anything else falls back to json.
func NewLogger(levelStr, format string) domain.Logger {
	return New(os.Stdout, levelStr, format)
}

// New creates a logger writing to w.
func New(w io.Writer, levelStr, format string) *AppLogger {
	opts := &slog.HandlerOptions{Level: parseLogLevel(levelStr)}

	var h slog.Handler
	if strings.EqualFold(format, "text") {
		h = slog.NewTextHandler(w, opts)
	} else {
		h = slog.NewJSONHandler(w, opts)
	}
	return &AppLogger{logger: slog.New(h)}
}

// Info logs an info message
func (l *AppLogger) Info(msg string, fields ...interface{}) {
	l.logger.Info(msg, fields...)
}

// Error logs an error message
func (l *AppLogger) Error(msg string, err error, fields ...interface{}) {
	if err != nil {
		fields = append([]interface{}{"error", err.Error()}, fields...)
	}
	l.logger.Error(msg, fields...)
}

// Debug logs a debug message
func (l *AppLogger) Debug(msg string, fields ...interface{}) {
	l.logger.Debug(msg, fields...)
}

// Warn logs a warning message
func (l *AppLogger) Warn(msg string, fields ...interface{}) {
	l.logger.Warn(msg, fields...)
}

// parseLogLevel converts string log level to slog.Level
func parseLogLevel(levelStr string) slog.Level {
	switch strings.ToLower(levelStr) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
