// Package storage exposes the four object store operations as tasks.
//
// Every operation acquires a fresh S3 handle for the call, resolves exactly
// once and never lets a fault escape: SDK failures, handle construction
// errors and panics all arrive as an ErrorInfo on the task.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"

	"s3bridge/observability"
	obstypes "s3bridge/observability/types"
	s3adapter "s3bridge/storage/adapters/s3"
	"s3bridge/storage/types"
	"s3bridge/task"
)

// Operation names used in logs and metric labels
const (
	OpCheckExists   = "check_exists"
	OpGetProperties = "get_properties"
	OpGetObject     = "get_object"
	OpPutObject     = "put_object"
)

// Invoker runs storage operations. It holds no per-call state and is safe
// for concurrent use.
type Invoker struct {
	factory s3adapter.Factory
	logger  observability.Logger
	metrics observability.Metrics
}

// NewInvoker creates an Invoker. A nil factory uses s3adapter.NewClient.
func NewInvoker(factory s3adapter.Factory, logger observability.Logger, metrics observability.Metrics) *Invoker {
	if logger == nil {
		panic("storage: NewInvoker requires a logger")
	}
	if metrics == nil {
		panic("storage: NewInvoker requires metrics")
	}
	if factory == nil {
		factory = s3adapter.NewClient
	}
	return &Invoker{factory: factory, logger: logger, metrics: metrics}
}

// CheckExists probes for the object. A missing object resolves to a
// successful result with Exists false.
func (inv *Invoker) CheckExists(ctx context.Context, cfg types.StoreConfig, ref types.ObjectRef) *task.Task[types.ExistsResult] {
	return invoke(inv, ctx, OpCheckExists, cfg, ref, -1,
		func(ctx context.Context, api s3adapter.API) types.Outcome[types.ExistsResult] {
			_, err := api.HeadObject(ctx, &s3.HeadObjectInput{
				Bucket: aws.String(ref.Bucket),
				Key:    aws.String(ref.Key),
			})
			switch {
			case err == nil:
				return types.Succeed(types.ExistsResult{ObjectRef: ref, Region: cfg.Region, Exists: true})
			case s3adapter.IsNotFound(err):
				return types.Succeed(types.ExistsResult{ObjectRef: ref, Region: cfg.Region, Exists: false})
			default:
				return types.Fail[types.ExistsResult](s3adapter.NewErrorInfo(ref, cfg.Region, err))
			}
		})
}

// GetProperties fetches object metadata. A missing object is a failure.
func (inv *Invoker) GetProperties(ctx context.Context, cfg types.StoreConfig, ref types.ObjectRef) *task.Task[types.PropertiesResult] {
	return invoke(inv, ctx, OpGetProperties, cfg, ref, -1,
		func(ctx context.Context, api s3adapter.API) types.Outcome[types.PropertiesResult] {
			out, err := api.HeadObject(ctx, &s3.HeadObjectInput{
				Bucket: aws.String(ref.Bucket),
				Key:    aws.String(ref.Key),
			})
			if err != nil {
				return types.Fail[types.PropertiesResult](s3adapter.NewErrorInfo(ref, cfg.Region, err))
			}
			return types.Succeed(s3adapter.Properties(ref, cfg.Region, out))
		})
}

// GetObject fetches the object with its metadata. The body is read fully
// before the task resolves.
func (inv *Invoker) GetObject(ctx context.Context, cfg types.StoreConfig, ref types.ObjectRef) *task.Task[types.GetResult] {
	return invoke(inv, ctx, OpGetObject, cfg, ref, -1,
		func(ctx context.Context, api s3adapter.API) types.Outcome[types.GetResult] {
			out, err := api.GetObject(ctx, &s3.GetObjectInput{
				Bucket: aws.String(ref.Bucket),
				Key:    aws.String(ref.Key),
			})
			if err != nil {
				return types.Fail[types.GetResult](s3adapter.NewErrorInfo(ref, cfg.Region, err))
			}

			body, err := readBody(out)
			if err != nil {
				return types.Fail[types.GetResult](s3adapter.NewErrorInfo(ref, cfg.Region, err))
			}
			quietly(func() { inv.metrics.RecordObjectSize(OpGetObject, int64(len(body))) })

			return types.Succeed(s3adapter.Object(ref, cfg.Region, out, body))
		})
}

// PutObject uploads body. The content type is inferred from the key's
// extension and left unset when unknown; cfg.ServerSideEncryption requests
// AES256 encryption at rest.
func (inv *Invoker) PutObject(ctx context.Context, cfg types.StoreConfig, ref types.ObjectRef, body []byte) *task.Task[types.PutResult] {
	return invoke(inv, ctx, OpPutObject, cfg, ref, len(body),
		func(ctx context.Context, api s3adapter.API) types.Outcome[types.PutResult] {
			input := &s3.PutObjectInput{
				Bucket:        aws.String(ref.Bucket),
				Key:           aws.String(ref.Key),
				Body:          bytes.NewReader(body),
				ContentLength: aws.Int64(int64(len(body))),
			}

			contentType := types.None[string]()
			if ct, ok := s3adapter.ContentTypeFor(ref.Key); ok {
				input.ContentType = aws.String(ct)
				contentType = types.Some(ct)
			}
			if cfg.ServerSideEncryption {
				input.ServerSideEncryption = s3types.ServerSideEncryptionAes256
			}

			out, err := api.PutObject(ctx, input)
			if err != nil {
				return types.Fail[types.PutResult](s3adapter.NewErrorInfo(ref, cfg.Region, err))
			}
			quietly(func() { inv.metrics.RecordObjectSize(OpPutObject, int64(len(body))) })

			return types.Succeed(s3adapter.Put(ref, cfg.Region, out, contentType))
		})
}

// invoke runs one operation on its own goroutine. The operation is detached
// from ctx cancellation; ctx only contributes its values.
func invoke[T any](
	inv *Invoker,
	ctx context.Context,
	op string,
	cfg types.StoreConfig,
	ref types.ObjectRef,
	bodyLength int,
	call func(context.Context, s3adapter.API) types.Outcome[T],
) *task.Task[T] {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithoutCancel(ctx)
	ctx = obstypes.ContextWithRequestID(ctx, uuid.NewString())

	fault := func(err error) *types.ErrorInfo {
		return s3adapter.NewSetupFault(ref, cfg.Region, err)
	}

	return task.Go(func() types.Outcome[T] {
		start := time.Now()
		reqLog := newRequestLog(inv.logger, cfg.Debug, op, ref, cfg.Region)

		quietly(func() { inv.metrics.StartOperation(op) })
		defer quietly(func() { inv.metrics.EndOperation(op) })

		reqLog.started(ctx)
		reqLog.request(ctx, bodyLength)

		out, setup := guarded(inv, ctx, cfg, ref, call)

		value, failure := out.Unwrap()
		reqLog.response(ctx, value, failure)

		duration := time.Since(start)
		category := ""
		if failure != nil {
			category = errorCategory(failure, setup)
		}
		quietly(func() { inv.recordOutcome(op, duration, category) })
		reqLog.finished(ctx, duration, category)

		return out
	}, fault)
}

// recordOutcome counts a finished call; an empty category is a success
func (inv *Invoker) recordOutcome(op string, duration time.Duration, category string) {
	inv.metrics.RecordDuration(op, duration.Seconds())
	if category != "" {
		inv.metrics.RecordError(op, category)
		return
	}
	inv.metrics.RecordSuccess(op)
}

// guarded builds the handle and runs call, converting construction errors
// and panics into setup failures.
func guarded[T any](inv *Invoker, ctx context.Context, cfg types.StoreConfig, ref types.ObjectRef, call func(context.Context, s3adapter.API) types.Outcome[T]) (out types.Outcome[T], setup bool) {
	defer func() {
		if r := recover(); r != nil {
			out = types.Fail[T](s3adapter.NewSetupFault(ref, cfg.Region, fmt.Errorf("panic: %v", r)))
			setup = true
		}
	}()

	api, err := inv.factory(cfg)
	if err != nil {
		return types.Fail[T](s3adapter.NewSetupFault(ref, cfg.Region, err)), true
	}
	if api == nil {
		return types.Fail[T](s3adapter.NewSetupFault(ref, cfg.Region, fmt.Errorf("store client factory returned no client"))), true
	}

	return call(ctx, api), false
}

func readBody(out *s3.GetObjectOutput) ([]byte, error) {
	if out == nil || out.Body == nil {
		return []byte{}, nil
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read object body: %w", err)
	}
	return body, nil
}

// errorCategory labels a failure for metrics
func errorCategory(info *types.ErrorInfo, setup bool) string {
	switch {
	case setup:
		return "setup"
	case s3adapter.IsNotFound(info.Cause):
		return "not_found"
	case info.StatusCode.IsSome():
		return "service"
	default:
		return "transport"
	}
}
