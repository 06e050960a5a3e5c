package logger

import (
	"context"
	"io"
	"os"
	"sort"
	"time"

	"github.com/charmbracelet/log"

	"s3bridge/observability/types"
)

// ConsoleLogger implements the Logger interface with human-readable lines
// for terminals.
type ConsoleLogger struct {
	logger *log.Logger
}

// NewConsole creates a ConsoleLogger writing to output (os.Stderr if nil).
func NewConsole(serviceName, logLevel string, output io.Writer, additionalFields types.Fields) *ConsoleLogger {
	if output == nil {
		output = os.Stderr
	}

	l := log.NewWithOptions(output, log.Options{
		Level:           charmLevel(ParseLevel(logLevel)),
		Prefix:          serviceName,
		TimeFormat:      time.RFC3339,
		ReportTimestamp: true,
		TimeFunction:    log.NowUTC,
	})

	if len(additionalFields) > 0 {
		l = l.With(keyvals(additionalFields)...)
	}

	return &ConsoleLogger{logger: l}
}

// Info logs an informational message.
func (c *ConsoleLogger) Info(ctx context.Context, msg string, fields types.Fields) {
	c.logger.Info(msg, c.keyvals(ctx, nil, fields)...)
}

// Error logs an error message.
func (c *ConsoleLogger) Error(ctx context.Context, msg string, err error, fields types.Fields) {
	c.logger.Error(msg, c.keyvals(ctx, err, fields)...)
}

// Warn logs a warning message.
func (c *ConsoleLogger) Warn(ctx context.Context, msg string, fields types.Fields) {
	c.logger.Warn(msg, c.keyvals(ctx, nil, fields)...)
}

// Debug logs a debug message.
func (c *ConsoleLogger) Debug(ctx context.Context, msg string, fields types.Fields) {
	c.logger.Debug(msg, c.keyvals(ctx, nil, fields)...)
}

// WithFields returns a ConsoleLogger that adds fields to every line.
func (c *ConsoleLogger) WithFields(fields types.Fields) types.Logger {
	return &ConsoleLogger{logger: c.logger.With(keyvals(fields)...)}
}

func (c *ConsoleLogger) keyvals(ctx context.Context, err error, fields types.Fields) []interface{} {
	kv := keyvals(types.ContextFields(ctx))
	if err != nil {
		kv = append(kv, "error", err.Error())
	}
	return append(kv, keyvals(fields)...)
}

// keyvals flattens fields in key order so lines are stable
func keyvals(fields types.Fields) []interface{} {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	kv := make([]interface{}, 0, len(keys)*2)
	for _, k := range keys {
		kv = append(kv, k, fields[k])
	}
	return kv
}

func charmLevel(l LogLevel) log.Level {
	switch l {
	case DebugLevel:
		return log.DebugLevel
	case WarnLevel:
		return log.WarnLevel
	case ErrorLevel:
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}
