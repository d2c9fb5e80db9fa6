package concurrent

import (
	"context"
	"runtime"
	"sync"

	"github.com/lintang-b-s/navigatorx-turnbyturn/pkg/util"
)

type job struct {
	run   func()
	abort func(err error)
}

// WorkerPool. fixed number of workers executing submitted jobs. constructed and closed by its owner.
type WorkerPool struct {
	numWorkers int
	jobQueue   chan job
	quit       chan struct{}
	wg         sync.WaitGroup

	mu      sync.RWMutex
	started bool
	closed  bool
}

// NewWorkerPool. numWorkers <= 0 => 2 * GOMAXPROCS, jobQueueSize <= 0 => 4 * numWorkers
func NewWorkerPool(numWorkers, jobQueueSize int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = 2 * runtime.GOMAXPROCS(0)
	}
	if jobQueueSize <= 0 {
		jobQueueSize = 4 * numWorkers
	}
	return &WorkerPool{
		numWorkers: numWorkers,
		jobQueue:   make(chan job, jobQueueSize),
		quit:       make(chan struct{}),
	}
}

func (wp *WorkerPool) NumWorkers() int {
	return wp.numWorkers
}

func (wp *WorkerPool) worker() {
	defer wp.wg.Done()
	for {
		select {
		case j := <-wp.jobQueue:
			j.run()
		case <-wp.quit:
			return
		}
	}
}

// Start. idempotent
func (wp *WorkerPool) Start() {
	wp.mu.Lock()
	defer wp.mu.Unlock()
	if wp.started || wp.closed {
		return
	}
	wp.started = true
	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker()
	}
}

// Close. stops the workers after their current job, queued jobs complete with ErrPoolClosed
func (wp *WorkerPool) Close() {
	wp.mu.Lock()
	if wp.closed {
		wp.mu.Unlock()
		return
	}
	wp.closed = true
	wp.mu.Unlock()

	close(wp.quit)
	wp.wg.Wait()

	for {
		select {
		case j := <-wp.jobQueue:
			j.abort(util.ErrPoolClosed)
		default:
			return
		}
	}
}

func (wp *WorkerPool) enqueue(j job) {
	wp.mu.RLock()
	defer wp.mu.RUnlock()
	if wp.closed {
		j.abort(util.ErrPoolClosed)
		return
	}
	select {
	case wp.jobQueue <- j:
	default:
		// queue full, never block the submitter
		go wp.enqueueBlocking(j)
	}
}

func (wp *WorkerPool) enqueueBlocking(j job) {
	wp.mu.RLock()
	defer wp.mu.RUnlock()
	if wp.closed {
		j.abort(util.ErrPoolClosed)
		return
	}
	wp.jobQueue <- j
}

// Submit. runs fn on the pool with a context derived from ctx, cancelled by Future.Cancel
func Submit[T any](ctx context.Context, wp *WorkerPool, fn func(ctx context.Context) (T, error)) *Future[T] {
	jobCtx, cancel := context.WithCancel(ctx)
	f := newFuture[T](cancel)

	wp.enqueue(job{
		run: func() {
			if err := jobCtx.Err(); err != nil {
				f.completeErr(err)
				return
			}
			v, err := fn(jobCtx)
			f.complete(v, err)
		},
		abort: f.completeErr,
	})
	return f
}
