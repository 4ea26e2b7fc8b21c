// Package log provides a structured logging interface for QuGo training and
// reconstruction operations.
//
// This package defines a minimal, slog-compatible logging interface backed by
// zerolog, with standard attribute keys for quantum state reconstruction
// workloads (system sizes, training hyperparameters, metric values).
//
// Example usage:
//
//	logger := log.GetLoggerWithName("nnstates.trainer").With(
//	    log.ModelNameKey, "PositiveWavefunction",
//	)
//	logger.Info("Training started",
//	    log.OperationKey, "fit",
//	    log.EpochsKey, 100,
//	    log.VisibleUnitsKey, 10,
//	)
package log

import (
	"context"
)

// Logger defines a structured logging interface compatible with Go's log/slog.
//
// The interface is implementation-agnostic; the default backend is zerolog.
// It supports contextual loggers through With, which returns a logger with
// pre-populated fields.
type Logger interface {
	// Debug logs a debug-level message with optional structured fields,
	// given as alternating key-value pairs.
	Debug(msg string, fields ...any)

	// Info logs an info-level message with optional structured fields.
	Info(msg string, fields ...any)

	// Warn logs a warning-level message with optional structured fields.
	Warn(msg string, fields ...any)

	// Error logs an error-level message with optional structured fields.
	// If the first field is an error value, it is attached as the error
	// attribute together with any available stack trace.
	Error(msg string, fields ...any)

	// With returns a new Logger with the given fields pre-populated.
	With(fields ...any) Logger

	// Enabled reports whether the logger emits log records at the given level.
	Enabled(ctx context.Context, level Level) bool
}

// Level represents a logging level, compatible with slog.Level.
type Level int

// Standard logging levels, values are compatible with slog.Level.
const (
	LevelDebug Level = -4 // Detailed diagnostic information
	LevelInfo  Level = 0  // General operational information
	LevelWarn  Level = 4  // Warning conditions
	LevelError Level = 8  // Error conditions
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// LoggerProvider defines an interface for creating and configuring loggers.
// It allows dependency injection and testing with different implementations.
type LoggerProvider interface {
	// GetLogger returns the default logger instance.
	GetLogger() Logger

	// GetLoggerWithName returns a logger with a specific component identifier.
	GetLoggerWithName(name string) Logger

	// SetLevel sets the minimum log level for loggers created by this provider.
	SetLevel(level Level)
}
