// Package worker runs tasks concurrently with a bounded number of workers.
//
// Tasks receive the pool's context. Once the context is done, tasks that have not started yet
// are dropped and the context error is reported by Wait.
package worker

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/gruntwork-io/casper/internal/errors"
)

// Task represents a unit of work that can be executed.
type Task func(ctx context.Context) error

// Pool manages concurrent task execution with a configurable number of workers.
type Pool struct {
	ctx         context.Context
	semaphore   chan struct{}
	allErrors   *errors.MultiError
	wg          sync.WaitGroup
	allErrorsMu sync.Mutex
	canceled    atomic.Bool
	isStopping  atomic.Bool
}

// NewWorkerPool creates a new worker pool with the specified maximum number of concurrent workers.
func NewWorkerPool(ctx context.Context, maxWorkers int) *Pool {
	if maxWorkers <= 0 {
		maxWorkers = 1
	}

	return &Pool{
		ctx:       ctx,
		semaphore: make(chan struct{}, maxWorkers),
		allErrors: &errors.MultiError{},
	}
}

func (wp *Pool) appendError(err error) {
	if err == nil {
		return
	}

	wp.allErrorsMu.Lock()
	wp.allErrors = wp.allErrors.Append(err)
	wp.allErrorsMu.Unlock()
}

// Submit schedules task to run when a worker is free. It does not block.
// Tasks submitted after Stop are ignored.
func (wp *Pool) Submit(task Task) {
	if wp.isStopping.Load() {
		return
	}

	wp.wg.Add(1)

	go func() {
		defer wp.wg.Done()

		select {
		case wp.semaphore <- struct{}{}:
		case <-wp.ctx.Done():
			wp.cancel()
			return
		}

		defer func() { <-wp.semaphore }()

		if wp.ctx.Err() != nil {
			wp.cancel()
			return
		}

		wp.appendError(task(wp.ctx))
	}()
}

// cancel records the context error once, however many tasks were dropped.
func (wp *Pool) cancel() {
	if wp.canceled.CompareAndSwap(false, true) {
		wp.appendError(wp.ctx.Err())
	}
}

// Wait blocks until all submitted tasks are completed and returns their errors.
func (wp *Pool) Wait() error {
	wp.wg.Wait()

	wp.allErrorsMu.Lock()
	defer wp.allErrorsMu.Unlock()

	return wp.allErrors.ErrorOrNil()
}

// Stop prevents new submissions. Tasks already submitted still run.
func (wp *Pool) Stop() {
	wp.isStopping.Store(true)
}

// GracefulStop prevents new submissions and waits for the submitted tasks to complete.
func (wp *Pool) GracefulStop() error {
	wp.Stop()

	return wp.Wait()
}
