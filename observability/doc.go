/*
Package observability provides structured logging and metrics collection
for the storage bridge.

	Provider (manages instances per component)
	    ├── Logger (JSON entries, or console text via charmbracelet/log)
	    └── Metrics (Prometheus collectors)

Each component gets its own logger and metrics instance. Metrics are
registered once per component against the configured Registerer, so two
providers sharing the default registry must not ask for the same component.

# Usage

	provider := observability.NewProvider(&observability.Config{
	    ServiceName: "s3bridge",
	    Environment: "production",
	    LogLevel:    "info",
	    LogFormat:   "json",
	})
	defer provider.Close()

	logger := provider.Logger("storage")
	metrics := provider.Metrics("storage")

	ctx = types.ContextWithRequestID(ctx, uuid.NewString())
	logger.Info(ctx, "head object", observability.Fields{
	    "bucket": "reports",
	    "key":    "2024/q1.pdf",
	})

# Context Integration

The loggers extract these context values if present:
  - trace_id: caller-supplied trace identifier
  - request_id: per-invocation identifier set by the storage invoker

# Metrics

  - {service}_{component}_processed_total: Counter with labels [status, operation]
  - {service}_{component}_errors_total: Counter with labels [error_type, operation]
  - {service}_{component}_duration_seconds: Histogram with label [operation]
  - {service}_{component}_object_size_bytes: Histogram with label [operation]
  - {service}_{component}_in_progress: Gauge with label [operation]

Expose them with promhttp, for example through the --metrics-addr flag of
the s3bridge command.

# Testing

Use the mocks package for unit tests:

	mockLogger := new(mocks.MockLogger)
	mockLogger.On("Debug", mock.Anything, mock.Anything, mock.Anything).Return()
*/
package observability
