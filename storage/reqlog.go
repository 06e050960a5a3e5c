package storage

import (
	"context"
	"time"

	"s3bridge/observability"
	"s3bridge/storage/types"
)

// requestLog writes the per-call trace, request and response records enabled
// by StoreConfig.Debug. It never fails the call it describes.
type requestLog struct {
	logger  observability.Logger
	enabled bool
	op      string
	ref     types.ObjectRef
	region  string
}

func newRequestLog(logger observability.Logger, enabled bool, op string, ref types.ObjectRef, region string) requestLog {
	return requestLog{logger: logger, enabled: enabled, op: op, ref: ref, region: region}
}

func (r requestLog) fields() observability.Fields {
	return observability.Fields{
		"operation": r.op,
		"region":    r.region,
		"bucket":    r.ref.Bucket,
		"key":       r.ref.Key,
	}
}

// started traces the beginning of the call at debug level
func (r requestLog) started(ctx context.Context) {
	if !r.enabled {
		return
	}
	defer swallow()

	r.logger.Debug(ctx, "storage operation started", r.fields())
}

// finished traces the end of the call; an empty category is a success
func (r requestLog) finished(ctx context.Context, duration time.Duration, category string) {
	if !r.enabled {
		return
	}
	defer swallow()

	fields := r.fields()
	fields["duration_ms"] = duration.Milliseconds()
	if category != "" {
		fields["error_type"] = category
		r.logger.Debug(ctx, "storage operation failed", fields)
		return
	}
	r.logger.Debug(ctx, "storage operation completed", fields)
}

// request logs the outgoing call; bodyLength < 0 means the call has no body
func (r requestLog) request(ctx context.Context, bodyLength int) {
	if !r.enabled {
		return
	}
	defer swallow()

	fields := r.fields()
	if bodyLength >= 0 {
		fields["body_length"] = bodyLength
	}
	r.logger.Info(ctx, "storage request", fields)
}

// response logs the classified failure, or the success payload with any
// object body left out.
func (r requestLog) response(ctx context.Context, payload any, failure *types.ErrorInfo) {
	if !r.enabled {
		return
	}
	defer swallow()

	fields := r.fields()
	if failure != nil {
		fields["failure"] = failure
		r.logger.Error(ctx, "storage error", failure.Cause, fields)
		return
	}
	if got, ok := payload.(types.GetResult); ok {
		payload = got.Redacted()
	}
	fields["response"] = payload
	r.logger.Info(ctx, "storage response", fields)
}

func swallow() {
	_ = recover()
}

// quietly runs an observability call whose failure must not reach the
// operation result
func quietly(fn func()) {
	defer swallow()
	fn()
}
