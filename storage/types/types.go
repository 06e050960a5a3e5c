// Package types holds the values exchanged across the storage bridge:
// the per-call store configuration, object references, the typed results of
// each operation and the normalized failure record.
package types

import (
	"fmt"
	"strings"
	"time"
)

// StoreConfig is supplied by the caller on every invocation. It is never
// retained past the call it was passed to.
type StoreConfig struct {
	AccessKeyID          string `json:"accessKeyId"`
	SecretAccessKey      string `json:"secretAccessKey"`
	Region               string `json:"region"`
	ServerSideEncryption bool   `json:"serverSideEncryption"`
	Debug                bool   `json:"debug"`

	// Endpoint overrides the service endpoint for S3-compatible stores.
	Endpoint     string `json:"endpoint,omitempty"`
	UsePathStyle bool   `json:"usePathStyle,omitempty"`

	// Transport tuning, filled from service configuration. MaxAttempts
	// counts the first attempt; zero keeps the SDK default.
	Timeout     time.Duration `json:"-"`
	MaxAttempts int           `json:"-"`
}

// ObjectRef identifies a stored object. Neither field is validated here;
// the store rejects names it does not accept.
type ObjectRef struct {
	Bucket string `json:"bucket"`
	Key    string `json:"key"`
}

func (r ObjectRef) String() string {
	return r.Bucket + "/" + r.Key
}

// ExistsResult answers an existence probe. A missing object is a successful
// result with Exists false.
type ExistsResult struct {
	ObjectRef
	Region string `json:"region"`
	Exists bool   `json:"exists"`
}

// PropertiesResult is the object metadata returned by a metadata probe.
type PropertiesResult struct {
	ObjectRef
	Region               string      `json:"region"`
	ContentType          string      `json:"contentType"`
	ContentLength        int64       `json:"contentLength"`
	ContentEncoding      Opt[string] `json:"contentEncoding"`
	LastModified         Opt[string] `json:"lastModified"`
	DeleteMarker         Opt[bool]   `json:"deleteMarker"`
	VersionID            Opt[string] `json:"versionId"`
	ServerSideEncryption Opt[string] `json:"serverSideEncryption"`
	StorageClass         string      `json:"storageClass"`
	ETag                 Opt[string] `json:"eTag"`
}

// GetResult is an object's metadata together with its content. Body is
// excluded from JSON; use Redacted for a printable view.
type GetResult struct {
	PropertiesResult
	Body []byte `json:"-"`
}

// RedactedGetResult is a GetResult with the body replaced by its length.
type RedactedGetResult struct {
	PropertiesResult
	BodyLength int `json:"bodyLength"`
}

// Redacted drops the body.
func (r GetResult) Redacted() RedactedGetResult {
	return RedactedGetResult{PropertiesResult: r.PropertiesResult, BodyLength: len(r.Body)}
}

// PutResult describes a completed upload. ContentType is the type that was
// sent with the request, if one could be inferred from the key.
type PutResult struct {
	ObjectRef
	Region               string      `json:"region"`
	VersionID            Opt[string] `json:"versionId"`
	ServerSideEncryption Opt[string] `json:"serverSideEncryption"`
	ContentType          Opt[string] `json:"contentType"`
	ETag                 Opt[string] `json:"eTag"`
}

// ErrorInfo is the normalized failure record. The identifying fields come
// from the call; every other field is present only when the object store
// reported it.
type ErrorInfo struct {
	ObjectRef
	Region     string      `json:"region"`
	Message    Opt[string] `json:"message"`
	Code       Opt[string] `json:"code"`
	Retryable  Opt[bool]   `json:"retryable"`
	StatusCode Opt[int]    `json:"statusCode"`
	Time       Opt[string] `json:"time"`
	RequestID  Opt[string] `json:"requestId"`

	// Cause is the raw failure, kept for errors.Is/As.
	Cause error `json:"-"`
}

// Error implements error.
func (e *ErrorInfo) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "s3 %s", e.ObjectRef)
	if code, ok := e.Code.Get(); ok {
		fmt.Fprintf(&b, ": %s", code)
	}
	if status, ok := e.StatusCode.Get(); ok {
		fmt.Fprintf(&b, " (status %d)", status)
	}
	if msg, ok := e.Message.Get(); ok {
		fmt.Fprintf(&b, ": %s", msg)
	}
	return b.String()
}

// Unwrap returns the raw failure.
func (e *ErrorInfo) Unwrap() error {
	return e.Cause
}
