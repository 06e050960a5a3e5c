// Package task provides the single-delivery completion handle returned by
// every storage operation.
//
// A Task runs its work on its own goroutine and resolves exactly once, to
// either a value or an ErrorInfo. A panic inside the work is recovered and
// delivered as a failure, so a Task always resolves.
package task

import (
	"context"
	"fmt"

	"s3bridge/storage/types"
)

// Task is a pending Outcome
type Task[T any] struct {
	done    chan struct{}
	outcome types.Outcome[T]
}

// FaultFunc converts a recovered panic into a failure record
type FaultFunc func(err error) *types.ErrorInfo

// Go starts fn on a new goroutine. If fn panics, fault builds the failure
// that is delivered in its place; a nil fault delivers a bare message.
func Go[T any](fn func() types.Outcome[T], fault FaultFunc) *Task[T] {
	t := &Task[T]{done: make(chan struct{})}

	go func() {
		defer close(t.done)
		defer func() {
			if r := recover(); r != nil {
				err := panicError(r)
				var info *types.ErrorInfo
				if fault != nil {
					info = fault(err)
				}
				if info == nil {
					info = &types.ErrorInfo{Message: types.Some(err.Error()), Cause: err}
				}
				t.outcome = types.Fail[T](info)
			}
		}()

		t.outcome = fn()
	}()

	return t
}

// Resolved returns a Task that has already completed with o
func Resolved[T any](o types.Outcome[T]) *Task[T] {
	t := &Task[T]{done: make(chan struct{}), outcome: o}
	close(t.done)
	return t
}

// Done is closed once the outcome is available
func (t *Task[T]) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task resolves
func (t *Task[T]) Wait() types.Outcome[T] {
	<-t.done
	return t.outcome
}

// Await blocks until the task resolves or ctx is done. Abandoning the wait
// does not stop the underlying operation.
func (t *Task[T]) Await(ctx context.Context) (types.Outcome[T], error) {
	select {
	case <-t.done:
		return t.outcome, nil
	case <-ctx.Done():
		var zero types.Outcome[T]
		return zero, ctx.Err()
	}
}

// Result returns the outcome without blocking. ok is false while pending.
func (t *Task[T]) Result() (outcome types.Outcome[T], ok bool) {
	select {
	case <-t.done:
		return t.outcome, true
	default:
		return outcome, false
	}
}

func panicError(r any) error {
	if err, ok := r.(error); ok {
		return fmt.Errorf("panic: %w", err)
	}
	return fmt.Errorf("panic: %v", r)
}
