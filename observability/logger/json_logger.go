package logger

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"s3bridge/observability/types"
)

// JSONLogger implements the Logger interface with one JSON object per line.
// Each entry carries timestamp, level, service, env, hostname and message,
// plus any correlation ids found in the context.
type JSONLogger struct {
	// mu serializes writes so concurrent entries never interleave
	mu               *sync.Mutex
	output           io.Writer
	serviceName      string
	environment      string
	hostname         string
	minLevel         LogLevel
	persistentFields types.Fields
}

// NewJSON creates a JSONLogger. If output is nil, it defaults to os.Stderr.
//
// Example:
//
//	logger := NewJSON(
//		"s3bridge.storage",
//		"production",
//		"info",
//		os.Stderr,
//		types.Fields{"version": "1.0.0"},
//	)
func NewJSON(serviceName, environment, logLevel string, output io.Writer, additionalFields types.Fields) *JSONLogger {
	hostname, _ := os.Hostname()
	if hostname == "" {
		hostname = "unknown"
	}

	if output == nil {
		output = os.Stderr
	}

	return &JSONLogger{
		mu:               &sync.Mutex{},
		output:           output,
		serviceName:      serviceName,
		environment:      environment,
		hostname:         hostname,
		minLevel:         ParseLevel(logLevel),
		persistentFields: additionalFields,
	}
}

// Info logs an informational message at INFO level.
func (l *JSONLogger) Info(ctx context.Context, msg string, fields types.Fields) {
	if l.minLevel > InfoLevel {
		return
	}
	l.log(ctx, InfoLevel, msg, nil, fields)
}

// Error logs an error message at ERROR level.
// The error is included with both its message and its dynamic type.
func (l *JSONLogger) Error(ctx context.Context, msg string, err error, fields types.Fields) {
	if l.minLevel > ErrorLevel {
		return
	}
	l.log(ctx, ErrorLevel, msg, err, fields)
}

// Warn logs a warning message at WARN level.
func (l *JSONLogger) Warn(ctx context.Context, msg string, fields types.Fields) {
	if l.minLevel > WarnLevel {
		return
	}
	l.log(ctx, WarnLevel, msg, nil, fields)
}

// Debug logs a debug message at DEBUG level.
func (l *JSONLogger) Debug(ctx context.Context, msg string, fields types.Fields) {
	if l.minLevel > DebugLevel {
		return
	}
	l.log(ctx, DebugLevel, msg, nil, fields)
}

// WithFields returns a new JSONLogger sharing this logger's output with
// additional persistent fields.
func (l *JSONLogger) WithFields(fields types.Fields) types.Logger {
	return &JSONLogger{
		mu:               l.mu,
		output:           l.output,
		serviceName:      l.serviceName,
		environment:      l.environment,
		hostname:         l.hostname,
		minLevel:         l.minLevel,
		persistentFields: mergeFields(l.persistentFields, fields),
	}
}

func (l *JSONLogger) log(ctx context.Context, level LogLevel, msg string, err error, fields types.Fields) {
	entry := make(types.Fields)

	// Standard fields
	entry["timestamp"] = time.Now().UTC().Format(time.RFC3339Nano)
	entry["level"] = level.String()
	entry["service"] = l.serviceName
	entry["env"] = l.environment
	entry["hostname"] = l.hostname
	entry["message"] = msg

	for k, v := range types.ContextFields(ctx) {
		entry[k] = v
	}

	if err != nil {
		entry["error"] = err.Error()
		entry["error_type"] = fmt.Sprintf("%T", err)
	}

	for k, v := range l.persistentFields {
		entry[k] = v
	}
	for k, v := range fields {
		entry[k] = v
	}

	jsonBytes, mErr := json.Marshal(entry)
	if mErr != nil {
		// Keep the entry visible even if a field will not encode
		jsonBytes, _ = json.Marshal(types.Fields{
			"timestamp":    entry["timestamp"],
			"level":        entry["level"],
			"service":      l.serviceName,
			"message":      msg,
			"encode_error": mErr.Error(),
		})
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = l.output.Write(append(jsonBytes, '\n'))
}

func mergeFields(base, extra types.Fields) types.Fields {
	merged := make(types.Fields, len(base)+len(extra))
	for k, v := range base {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}
	return merged
}
