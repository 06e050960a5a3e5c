package types

import "context"

type contextKey string

const (
	requestIDKey contextKey = "request_id"
	traceIDKey   contextKey = "trace_id"
)

// ContextWithRequestID returns a copy of ctx carrying the invocation id
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext returns the invocation id, if any
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(requestIDKey).(string)
	return id, ok && id != ""
}

// ContextWithTraceID returns a copy of ctx carrying a caller-supplied trace id
func ContextWithTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, traceIDKey, id)
}

// TraceIDFromContext returns the trace id, if any
func TraceIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(traceIDKey).(string)
	return id, ok && id != ""
}

// ContextFields extracts the correlation ids carried by ctx
func ContextFields(ctx context.Context) Fields {
	fields := Fields{}
	if id, ok := TraceIDFromContext(ctx); ok {
		fields["trace_id"] = id
	}
	if id, ok := RequestIDFromContext(ctx); ok {
		fields["request_id"] = id
	}
	return fields
}
