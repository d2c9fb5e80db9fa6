package concurrent

import (
	"context"
	"sync"
)

// Future. result of a job submitted to a WorkerPool
type Future[T any] struct {
	done   chan struct{}
	once   sync.Once
	cancel context.CancelFunc

	value T
	err   error
}

func newFuture[T any](cancel context.CancelFunc) *Future[T] {
	return &Future[T]{done: make(chan struct{}), cancel: cancel}
}

func (f *Future[T]) complete(v T, err error) {
	f.once.Do(func() {
		f.value = v
		f.err = err
		f.cancel()
		close(f.done)
	})
}

func (f *Future[T]) completeErr(err error) {
	var zero T
	f.complete(zero, err)
}

// Wait. blocks until the job finished or ctx is done. ctx only bounds the wait, not the job
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Cancel. interrupts the job through its context, the future completes with context.Canceled right away
func (f *Future[T]) Cancel() {
	f.cancel()
	f.completeErr(context.Canceled)
}

func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// IsDone. non blocking check
func (f *Future[T]) IsDone() bool {
	select {
	case <-f.done:
		return true
	default:
		return false
	}
}
