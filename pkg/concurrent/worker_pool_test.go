package concurrent

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitAndWait(t *testing.T) {
	wp := NewWorkerPool(2, 1)
	wp.Start()
	defer wp.Close()

	futures := make([]*Future[int], 0, 10)
	for i := 0; i < 10; i++ {
		i := i
		futures = append(futures, Submit(context.Background(), wp, func(ctx context.Context) (int, error) {
			return i * i, nil
		}))
	}

	// results are read in submission order regardless of completion order
	for i, f := range futures {
		v, err := f.Wait(context.Background())
		require.NoError(t, err)
		assert.Equal(t, i*i, v)
	}
}

func TestJobError(t *testing.T) {
	wp := NewWorkerPool(1, 1)
	wp.Start()
	defer wp.Close()

	boom := errors.New("boom")
	f := Submit(context.Background(), wp, func(ctx context.Context) (string, error) {
		return "", boom
	})
	_, err := f.Wait(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestCancelInterruptsJob(t *testing.T) {
	wp := NewWorkerPool(1, 1)
	wp.Start()
	defer wp.Close()

	started := make(chan struct{})
	var sawCancel atomic.Bool
	f := Submit(context.Background(), wp, func(ctx context.Context) (int, error) {
		close(started)
		<-ctx.Done()
		sawCancel.Store(true)
		return 0, ctx.Err()
	})
	<-started
	f.Cancel()

	_, err := f.Wait(context.Background())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Eventually(t, sawCancel.Load, time.Second, 5*time.Millisecond)
}

func TestCancelQueuedJobNeverRuns(t *testing.T) {
	wp := NewWorkerPool(1, 4)
	wp.Start()
	defer wp.Close()

	release := make(chan struct{})
	blocker := Submit(context.Background(), wp, func(ctx context.Context) (int, error) {
		<-release
		return 1, nil
	})

	var ran atomic.Bool
	queued := Submit(context.Background(), wp, func(ctx context.Context) (int, error) {
		ran.Store(true)
		return 2, nil
	})
	queued.Cancel()
	assert.True(t, queued.IsDone())
	close(release)

	v, err := blocker.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	// give the worker the chance to pick the cancelled job
	follow := Submit(context.Background(), wp, func(ctx context.Context) (int, error) { return 3, nil })
	_, err = follow.Wait(context.Background())
	require.NoError(t, err)
	assert.False(t, ran.Load())
}

func TestSubmitDoesNotBlockWhenQueueIsFull(t *testing.T) {
	wp := NewWorkerPool(1, 1)
	wp.Start()
	defer wp.Close()

	release := make(chan struct{})
	futures := make([]*Future[int], 0, 5)
	done := make(chan struct{})
	go func() {
		for i := 0; i < 5; i++ {
			futures = append(futures, Submit(context.Background(), wp, func(ctx context.Context) (int, error) {
				<-release
				return 0, nil
			}))
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("submit blocked on a full queue")
	}
	close(release)
	for _, f := range futures {
		_, err := f.Wait(context.Background())
		assert.NoError(t, err)
	}
}

func TestWaitRespectsContext(t *testing.T) {
	wp := NewWorkerPool(1, 1)
	wp.Start()
	defer wp.Close()

	release := make(chan struct{})
	defer close(release)
	f := Submit(context.Background(), wp, func(ctx context.Context) (int, error) {
		<-release
		return 0, nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	_, err := f.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, f.IsDone())
}

func TestSubmitAfterClose(t *testing.T) {
	wp := NewWorkerPool(0, 0)
	assert.Greater(t, wp.NumWorkers(), 0)
	wp.Start()
	wp.Close()
	wp.Close()

	f := Submit(context.Background(), wp, func(ctx context.Context) (int, error) { return 1, nil })
	_, err := f.Wait(context.Background())
	assert.ErrorIs(t, err, util.ErrPoolClosed)
}
