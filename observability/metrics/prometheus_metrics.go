// Package metrics provides Prometheus-compatible metrics collection for the
// storage operations.
package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusMetrics implements the Metrics interface using the Prometheus
// client library. Metric names are "<namespace>_<component>_<name>".
type PrometheusMetrics struct {
	component string

	// processedTotal counts completed operations by status and operation
	processedTotal *prometheus.CounterVec
	// errorsTotal counts failures by category and operation
	errorsTotal *prometheus.CounterVec
	// durationSeconds tracks operation latency with default buckets
	durationSeconds *prometheus.HistogramVec
	// objectSizeBytes tracks object bodies moved by get and put
	objectSizeBytes *prometheus.HistogramVec
	// inProgress tracks operations currently running
	inProgress *prometheus.GaugeVec
}

// New creates a PrometheusMetrics instance and registers its collectors
// with reg, or with the default registry when reg is nil.
//
// Pre-configured metrics:
//   - {ns}_{component}_processed_total: Counter with labels [status, operation]
//   - {ns}_{component}_errors_total: Counter with labels [error_type, operation]
//   - {ns}_{component}_duration_seconds: Histogram with label [operation]
//   - {ns}_{component}_object_size_bytes: Histogram with label [operation]
//   - {ns}_{component}_in_progress: Gauge with label [operation]
//
// Panics if registration fails (e.g., duplicate metric names).
func New(namespace, component string, reg prometheus.Registerer) *PrometheusMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	ns := sanitize(namespace)
	sub := sanitize(component)

	m := &PrometheusMetrics{component: component}

	m.processedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: ns,
			Subsystem: sub,
			Name:      "processed_total",
			Help:      "Total storage operations completed, by status.",
		},
		[]string{"status", "operation"},
	)

	m.errorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: ns,
			Subsystem: sub,
			Name:      "errors_total",
			Help:      "Total failed storage operations, by failure category.",
		},
		[]string{"error_type", "operation"},
	)

	m.durationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: ns,
			Subsystem: sub,
			Name:      "duration_seconds",
			Help:      "Storage operation duration.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// Buckets: 1KB, 10KB, 100KB, 1MB, 10MB, 100MB, 1GB
	m.objectSizeBytes = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: ns,
			Subsystem: sub,
			Name:      "object_size_bytes",
			Help:      "Object body sizes read or written.",
			Buckets:   prometheus.ExponentialBuckets(1024, 10, 7),
		},
		[]string{"operation"},
	)

	m.inProgress = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: ns,
			Subsystem: sub,
			Name:      "in_progress",
			Help:      "Storage operations in progress.",
		},
		[]string{"operation"},
	)

	reg.MustRegister(
		m.processedTotal,
		m.errorsTotal,
		m.durationSeconds,
		m.objectSizeBytes,
		m.inProgress,
	)

	return m
}

// RecordSuccess increments the processed counter with status="success".
func (m *PrometheusMetrics) RecordSuccess(operation string) {
	m.processedTotal.WithLabelValues("success", operation).Inc()
}

// RecordError increments both the processed counter (with status="error")
// and the per-category error counter.
//
// Example:
//
//	metrics.RecordError("get_properties", "not_found")
func (m *PrometheusMetrics) RecordError(operation string, errorType string) {
	m.processedTotal.WithLabelValues("error", operation).Inc()
	m.errorsTotal.WithLabelValues(errorType, operation).Inc()
}

// RecordDuration records the duration of an operation in seconds.
func (m *PrometheusMetrics) RecordDuration(operation string, duration float64) {
	m.durationSeconds.WithLabelValues(operation).Observe(duration)
}

// RecordObjectSize records the size of an object body in bytes.
func (m *PrometheusMetrics) RecordObjectSize(operation string, bytes int64) {
	m.objectSizeBytes.WithLabelValues(operation).Observe(float64(bytes))
}

// StartOperation increments the in-progress gauge for an operation.
//
//	metrics.StartOperation("put_object")
//	defer metrics.EndOperation("put_object")
func (m *PrometheusMetrics) StartOperation(operation string) {
	m.inProgress.WithLabelValues(operation).Inc()
}

// EndOperation decrements the in-progress gauge for an operation.
func (m *PrometheusMetrics) EndOperation(operation string) {
	m.inProgress.WithLabelValues(operation).Dec()
}

// sanitize maps a service or component name onto the Prometheus name alphabet
func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
}
