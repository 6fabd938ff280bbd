package logging

import (
	"io"
	"sync"
	"time"
)

// Level represents a diagnostic severity. Levels are ordered so that the
// worst severity seen during a run can be tracked with a simple max.
type Level int

const (
	// DebugLevel records missing optional inputs that fell back to a safe default
	DebugLevel Level = iota
	// InfoLevel records non-fatal housekeeping
	InfoLevel
	// WarnLevel records out-of-range values that were clamped or ignored
	WarnLevel
	// ErrorLevel records invalid entries that were skipped
	ErrorLevel
	// FatalLevel records geometry that blocks derating of a whole surface
	FatalLevel
)

// String returns the string representation of a log level
func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	case FatalLevel:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel converts a string to a Level
func ParseLevel(s string) Level {
	switch s {
	case "DEBUG", "debug":
		return DebugLevel
	case "INFO", "info":
		return InfoLevel
	case "WARN", "warn", "WARNING", "warning":
		return WarnLevel
	case "ERROR", "error":
		return ErrorLevel
	case "FATAL", "fatal":
		return FatalLevel
	default:
		return InfoLevel
	}
}

// Field represents a key-value pair for structured logging
type Field struct {
	Key   string
	Value any
}

// Logger is the interface for structured logging
type Logger interface {
	// Debug records a fallback to a default value
	Debug(msg string, fields ...Field)
	// Info records progress of a pipeline stage
	Info(msg string, fields ...Field)
	// Warn records an input that was clamped or ignored
	Warn(msg string, fields ...Field)
	// Error records an entry that was skipped
	Error(msg string, fields ...Field)
	// Fatal records an unrecoverable condition for one entity. It never exits.
	Fatal(msg string, fields ...Field)
	// With creates a child logger with the given fields pre-set
	With(fields ...Field) Logger
	// SetLevel sets the minimum level written out
	SetLevel(level Level)
	// GetLevel returns the minimum level written out
	GetLevel() Level
}

// JSONLogger implements Logger with JSON output
type JSONLogger struct {
	writer io.Writer
	level  Level
	fields []Field
	mu     *sync.Mutex
}

// LogEntry represents a single log entry in JSON format
type LogEntry struct {
	Time    string         `json:"time"`
	Level   string         `json:"level"`
	Message string         `json:"msg"`
	Fields  map[string]any `json:"fields,omitempty"`
}

// NopLogger is a logger that does nothing (useful for testing)
type NopLogger struct{}

func (NopLogger) Debug(msg string, fields ...Field) {}
func (NopLogger) Info(msg string, fields ...Field)  {}
func (NopLogger) Warn(msg string, fields ...Field)  {}
func (NopLogger) Error(msg string, fields ...Field) {}
func (NopLogger) Fatal(msg string, fields ...Field) {}
func (n NopLogger) With(fields ...Field) Logger     { return n }
func (NopLogger) SetLevel(level Level)              {}
func (NopLogger) GetLevel() Level                   { return InfoLevel }

// NewNopLogger creates a logger that discards all output
func NewNopLogger() Logger {
	return NopLogger{}
}

// TimedOperation helps measure stage duration
type TimedOperation struct {
	logger Logger
	msg    string
	start  time.Time
	fields []Field
}
