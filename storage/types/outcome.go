package types

import "encoding/json"

// Outcome is the single completion of an operation: a value of type T or an
// ErrorInfo, never both. Fields are unexported so the two branches can only
// be built through Succeed and Fail.
type Outcome[T any] struct {
	value T
	err   *ErrorInfo
}

// Succeed wraps a success value.
func Succeed[T any](v T) Outcome[T] {
	return Outcome[T]{value: v}
}

// Fail wraps a failure. A nil info still yields a failure, carrying a
// generic message, so the failure branch is never lost.
func Fail[T any](info *ErrorInfo) Outcome[T] {
	if info == nil {
		info = &ErrorInfo{Message: Some("unknown failure")}
	}
	return Outcome[T]{err: info}
}

// IsSuccess reports which branch the outcome holds.
func (o Outcome[T]) IsSuccess() bool {
	return o.err == nil
}

// Unwrap returns both branches; exactly one is meaningful. On failure the
// value is T's zero value.
func (o Outcome[T]) Unwrap() (T, *ErrorInfo) {
	return o.value, o.err
}

// Err returns the failure, or nil on success.
func (o Outcome[T]) Err() *ErrorInfo {
	return o.err
}

// Match calls exactly one of onSuccess or onFailure.
func Match[T, R any](o Outcome[T], onSuccess func(T) R, onFailure func(*ErrorInfo) R) R {
	if o.err != nil {
		return onFailure(o.err)
	}
	return onSuccess(o.value)
}

// Map transforms the success branch and passes failures through.
func Map[T, R any](o Outcome[T], fn func(T) R) Outcome[R] {
	if o.err != nil {
		return Fail[R](o.err)
	}
	return Succeed(fn(o.value))
}

type outcomeJSON[T any] struct {
	OK    bool       `json:"ok"`
	Value *T         `json:"value,omitempty"`
	Error *ErrorInfo `json:"error,omitempty"`
}

// MarshalJSON encodes the outcome as {"ok":true,"value":...} or
// {"ok":false,"error":...}.
func (o Outcome[T]) MarshalJSON() ([]byte, error) {
	if o.err != nil {
		return json.Marshal(outcomeJSON[T]{OK: false, Error: o.err})
	}
	v := o.value
	return json.Marshal(outcomeJSON[T]{OK: true, Value: &v})
}
