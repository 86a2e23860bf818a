package worker_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gruntwork-io/casper/internal/errors"
	"github.com/gruntwork-io/casper/internal/worker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllTasksCompleteWithoutErrors(t *testing.T) {
	t.Parallel()

	wp := worker.NewWorkerPool(t.Context(), 5)
	defer wp.Stop()

	var counter int32

	for range 10 {
		wp.Submit(func(context.Context) error {
			atomic.AddInt32(&counter, 1)
			return nil
		})
	}

	require.NoError(t, wp.Wait())
	assert.Equal(t, int32(10), atomic.LoadInt32(&counter))
}

func TestSomeTasksReturnErrors(t *testing.T) {
	t.Parallel()

	wp := worker.NewWorkerPool(t.Context(), 3)
	defer wp.Stop()

	var successCount int32

	for i := range 10 {
		wp.Submit(func(context.Context) error {
			if i%2 == 0 {
				return errors.New("mock error")
			}

			atomic.AddInt32(&successCount, 1)

			return nil
		})
	}

	err := wp.Wait()
	require.Error(t, err)

	var multiErr *errors.MultiError
	require.True(t, errors.As(err, &multiErr))
	assert.Equal(t, 5, multiErr.Len())
	assert.Equal(t, int32(5), atomic.LoadInt32(&successCount))
}

func TestConcurrencyIsBounded(t *testing.T) {
	t.Parallel()

	const maxWorkers = 2

	wp := worker.NewWorkerPool(t.Context(), maxWorkers)

	var running, peak int32

	for range 8 {
		wp.Submit(func(context.Context) error {
			current := atomic.AddInt32(&running, 1)

			for {
				old := atomic.LoadInt32(&peak)
				if current <= old || atomic.CompareAndSwapInt32(&peak, old, current) {
					break
				}
			}

			time.Sleep(10 * time.Millisecond)
			atomic.AddInt32(&running, -1)

			return nil
		})
	}

	require.NoError(t, wp.GracefulStop())
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(maxWorkers))
}

func TestCanceledContextDropsPendingTasks(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	wp := worker.NewWorkerPool(ctx, 1)

	var counter int32

	for range 3 {
		wp.Submit(func(context.Context) error {
			atomic.AddInt32(&counter, 1)
			return nil
		})
	}

	err := wp.Wait()
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, atomic.LoadInt32(&counter))

	var multiErr *errors.MultiError
	require.True(t, errors.As(err, &multiErr))
	assert.Equal(t, 1, multiErr.Len())
}

func TestSubmitAfterStopIsIgnored(t *testing.T) {
	t.Parallel()

	wp := worker.NewWorkerPool(t.Context(), 1)
	wp.Stop()

	var counter int32

	wp.Submit(func(context.Context) error {
		atomic.AddInt32(&counter, 1)
		return nil
	})

	require.NoError(t, wp.Wait())
	assert.Zero(t, atomic.LoadInt32(&counter))
}
