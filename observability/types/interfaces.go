// Package types defines the observability contracts shared by the bridge:
// the structured Logger, the Metrics collector and the Provider that hands
// both out per component.
package types

import (
	"context"
	"io"

	"github.com/prometheus/client_golang/prometheus"
)

// Logger defines the contract for structured logging.
// All methods are context-aware so invocation ids end up on every entry.
type Logger interface {
	// Info logs an informational message.
	Info(ctx context.Context, msg string, fields Fields)

	// Error logs an error message with the associated error.
	// err may be nil when the failure is already described by fields.
	Error(ctx context.Context, msg string, err error, fields Fields)

	// Warn logs a warning message.
	Warn(ctx context.Context, msg string, fields Fields)

	// Debug logs a debug message.
	// These messages are typically filtered out in production.
	Debug(ctx context.Context, msg string, fields Fields)

	// WithFields returns a new Logger that adds fields to every entry.
	WithFields(fields Fields) Logger
}

// Metrics defines the contract for metrics collection.
// Implementations must be safe for concurrent use; operations run on
// their own goroutines.
type Metrics interface {
	// RecordSuccess increments the success counter for an operation.
	RecordSuccess(operation string)

	// RecordError increments the error counter for an operation.
	//
	// Parameters:
	//   - operation: The storage operation that failed (e.g., "get_object")
	//   - errorType: The failure category ("not_found", "client", "setup")
	RecordError(operation string, errorType string)

	// RecordDuration records the duration of an operation in seconds.
	RecordDuration(operation string, duration float64)

	// RecordObjectSize records the size of an object body in bytes.
	RecordObjectSize(operation string, bytes int64)

	// StartOperation increments the in-progress gauge for an operation.
	// Must be paired with EndOperation.
	StartOperation(operation string)

	// EndOperation decrements the in-progress gauge for an operation.
	EndOperation(operation string)
}

// Fields represents structured logging fields as key-value pairs.
// Values must be JSON-serializable.
type Fields map[string]interface{}

// Log output formats
const (
	FormatJSON = "json"
	FormatText = "text"
)

// Config holds observability configuration for the provider.
type Config struct {
	// ServiceName identifies the service in logs and prefixes metric names.
	ServiceName string

	// Environment specifies the deployment environment.
	Environment string

	// LogLevel sets the minimum log level to output.
	// Valid values: "debug", "info", "warn", "error".
	LogLevel string

	// LogFormat selects "json" entries or human-readable "text" lines.
	// Empty means json.
	LogFormat string

	// LogOutput specifies where logs should be written.
	// If nil, defaults to os.Stderr.
	LogOutput io.Writer

	// Registerer receives every metric collector. If nil, the default
	// Prometheus registry is used.
	Registerer prometheus.Registerer

	// AdditionalFields are fields included in every log entry.
	AdditionalFields Fields
}

// Provider manages the lifecycle of observability components.
// Multiple calls with the same component name return the same instance.
type Provider interface {
	// Logger returns a Logger instance for the specified component.
	Logger(component string) Logger

	// Metrics returns a Metrics instance for the specified component.
	Metrics(component string) Metrics

	// Close releases the log output if the provider owns it.
	Close() error
}
