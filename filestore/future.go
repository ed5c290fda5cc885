package filestore

import (
	"fmt"
)

// Future is the pending result of an asynchronous operation.
type Future[T any] struct {
	done  chan struct{}
	value T
	err   error
}

func newFuture[T any]() *Future[T] {
	return &Future[T]{
		done: make(chan struct{}),
	}
}

func resolved[T any](value T, err error) *Future[T] {
	f := newFuture[T]()
	f.resolve(value, err)
	return f
}

func (f *Future[T]) resolve(value T, err error) {
	f.value = value
	f.err = err
	close(f.done)
}

// Done is closed once the result is available.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the operation completes.
func (f *Future[T]) Wait() (T, error) {
	<-f.done
	return f.value, f.err
}

// run executes task inline in sync mode, otherwise on the engine pool.
func run[T any](e *Engine, task func() (T, error)) *Future[T] {

	if e.err != nil {
		var zero T
		return resolved(zero, e.err)
	}

	f := newFuture[T]()
	job := func() {
		defer func() {
			if r := recover(); r != nil {
				var zero T
				f.resolve(zero, fmt.Errorf("panic: %v", r))
			}
		}()
		f.resolve(task())
	}

	if e.pool == nil {
		job()
		return f
	}

	err := e.pool.Submit(job)
	if err != nil {
		var zero T
		f.resolve(zero, fmt.Errorf("submit: %w", err))
	}

	return f
}
