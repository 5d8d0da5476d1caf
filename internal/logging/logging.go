package logging

import (
	"fmt"
	"log/slog"
	"os"
)

// Fields carries structured key/value pairs attached to a log entry.
type Fields map[string]interface{}

// LoggerV2 is a component-scoped structured logger.
type LoggerV2 struct {
	logger    *slog.Logger
	component string
}

var root = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
	Level: slog.LevelDebug,
}))

// NewLoggerV2 creates a logger tagged with the given component name.
func NewLoggerV2(component string) *LoggerV2 {
	return &LoggerV2{
		logger:    root.With("component", component),
		component: component,
	}
}

func (l *LoggerV2) Debug(msg string, fields ...Fields) {
	l.logger.Debug(msg, flatten(fields)...)
}

func (l *LoggerV2) Info(msg string, fields ...Fields) {
	l.logger.Info(msg, flatten(fields)...)
}

func (l *LoggerV2) Warn(msg string, fields ...Fields) {
	l.logger.Warn(msg, flatten(fields)...)
}

func (l *LoggerV2) Error(msg string, fields ...Fields) {
	l.logger.Error(msg, flatten(fields)...)
}

// Fatal logs at error level and exits the process.
func (l *LoggerV2) Fatal(msg string, fields ...Fields) {
	l.logger.Error(msg, flatten(fields)...)
	os.Exit(1)
}

func flatten(fields []Fields) []any {
	var args []any
	for _, f := range fields {
		for k, v := range f {
			args = append(args, slog.Any(k, v))
		}
	}
	return args
}

// Infof logs a printf-style message without a component.
// Prefer LoggerV2 with structured fields for new code.
func Infof(format string, args ...interface{}) {
	root.Info(fmt.Sprintf(format, args...))
}

// Info logs a message with fields without a component.
func Info(msg string, fields ...Fields) {
	root.Info(msg, flatten(fields)...)
}
