// ============================================================================
// ArcaneQuest (arcq) - Language Front-End
// ============================================================================
//
// Package:     logging
// Description: Factory functions for structured loggers with fan-out outputs
// Author:      Mike Stoffels
// Created:     2026-10-15
// License:     MIT
// ============================================================================

package logging

import (
	"context"
	"io"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
)

// LoggerConfig holds configuration for creating loggers
type LoggerConfig struct {
	// Service name
	ServiceName string

	// Log level (debug, info, warn, error)
	Level string

	// Output format "json" or "text" (default: text)
	Format string

	// Primary output (default: os.Stderr)
	Output io.Writer

	// Additional outputs, each receiving every record
	AdditionalOutputs []io.Writer
}

// DefaultLoggerConfig returns a default configuration
func DefaultLoggerConfig(serviceName string) LoggerConfig {
	return LoggerConfig{
		ServiceName: serviceName,
		Level:       "info",
		Format:      "text",
	}
}

// Logger is a key/value structured logger. A nil *Logger discards
// everything, so components can accept an optional logger.
type Logger struct {
	sl    *slog.Logger
	level *slog.LevelVar
	name  string
}

// NewLogger creates a logger writing to the primary output and every
// additional output
func NewLogger(cfg LoggerConfig) *Logger {
	level := new(slog.LevelVar)
	level.Set(ParseLevel(cfg.Level).slogLevel())

	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	handlers := []slog.Handler{newHandler(output, cfg.Format, level)}
	for _, w := range cfg.AdditionalOutputs {
		handlers = append(handlers, newHandler(w, cfg.Format, level))
	}

	sl := slog.New(slogmulti.Fanout(handlers...))
	if cfg.ServiceName != "" {
		sl = sl.With("service", cfg.ServiceName)
	}

	return &Logger{sl: sl, level: level, name: cfg.ServiceName}
}

func newHandler(w io.Writer, format string, level slog.Leveler) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if format == "json" {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// New creates a logger with the default configuration
func New(name string) *Logger {
	return NewLogger(DefaultLoggerConfig(name))
}

// Nop returns a logger that drops every record
func Nop() *Logger {
	return NewLogger(LoggerConfig{Output: io.Discard, Level: "error"})
}

// Name returns the service name the logger was created with
func (l *Logger) Name() string {
	if l == nil {
		return ""
	}
	return l.name
}

// SetLevel changes the minimum level for this logger and all loggers
// derived from it
func (l *Logger) SetLevel(level Level) {
	if l == nil {
		return
	}
	l.level.Set(level.slogLevel())
}

// WithLevel returns the logger after setting its level
func (l *Logger) WithLevel(level Level) *Logger {
	l.SetLevel(level)
	return l
}

// With returns a logger that adds the key/value pairs to every record
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	if l == nil {
		return nil
	}
	return &Logger{sl: l.sl.With(keysAndValues...), level: l.level, name: l.name}
}

// WithField returns a logger with a single additional field
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return l.With(key, value)
}

// Enabled reports whether records at level would be written
func (l *Logger) Enabled(level Level) bool {
	if l == nil {
		return false
	}
	return l.sl.Enabled(context.Background(), level.slogLevel())
}

// Debug logs at debug level
func (l *Logger) Debug(msg string, keysAndValues ...interface{}) {
	if l != nil {
		l.sl.Debug(msg, keysAndValues...)
	}
}

// Info logs at info level
func (l *Logger) Info(msg string, keysAndValues ...interface{}) {
	if l != nil {
		l.sl.Info(msg, keysAndValues...)
	}
}

// Warn logs at warn level
func (l *Logger) Warn(msg string, keysAndValues ...interface{}) {
	if l != nil {
		l.sl.Warn(msg, keysAndValues...)
	}
}

// Error logs at error level
func (l *Logger) Error(msg string, keysAndValues ...interface{}) {
	if l != nil {
		l.sl.Error(msg, keysAndValues...)
	}
}

// Slog exposes the underlying slog.Logger
func (l *Logger) Slog() *slog.Logger {
	if l == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return l.sl
}
