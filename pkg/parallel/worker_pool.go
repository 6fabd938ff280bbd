// Package parallel fans independent per-item work out over a fixed set of
// goroutines.
package parallel

import (
	"fmt"
	"sync"

	"github.com/dd0wney/tbd/pkg/logging"
)

// ErrTooManyWorkers is returned when the worker count exceeds the maximum allowed.
var ErrTooManyWorkers = fmt.Errorf("worker count exceeds maximum")

// MaxWorkers bounds the pool size.
const MaxWorkers = 1024

// WorkerPool manages a pool of worker goroutines
type WorkerPool struct {
	workers   int
	taskQueue chan func()
	wg        sync.WaitGroup
	once      sync.Once
	mu        sync.RWMutex // Protects taskQueue from concurrent close during send
	closed    bool         // Protected by mu
	log       logging.Logger
}

// NewWorkerPool creates a pool of workers. Panics inside tasks are recovered
// and logged at ERROR.
func NewWorkerPool(workers int, log logging.Logger) (*WorkerPool, error) {
	if workers <= 0 {
		workers = 1
	}
	if workers > MaxWorkers {
		return nil, fmt.Errorf("%w: %d exceeds %d", ErrTooManyWorkers, workers, MaxWorkers)
	}
	if log == nil {
		log = logging.NopLogger{}
	}

	pool := &WorkerPool{
		workers:   workers,
		taskQueue: make(chan func(), workers*2),
		log:       log.With(logging.Component("parallel")),
	}
	pool.start()
	return pool, nil
}

func (wp *WorkerPool) start() {
	for i := 0; i < wp.workers; i++ {
		wp.wg.Add(1)
		go wp.worker()
	}
}

func (wp *WorkerPool) worker() {
	defer wp.wg.Done()
	for task := range wp.taskQueue {
		wp.run(task)
	}
}

func (wp *WorkerPool) run(task func()) {
	defer func() {
		if r := recover(); r != nil {
			wp.log.Error("task panic recovered", logging.Any("panic", r))
		}
	}()
	task()
}

// Submit adds a task to the worker pool
// Returns false if the pool is closed, true if task was submitted
func (wp *WorkerPool) Submit(task func()) bool {
	wp.mu.RLock()
	defer wp.mu.RUnlock()
	if wp.closed {
		return false
	}
	wp.taskQueue <- task
	return true
}

// Close stops accepting tasks and waits for the queued ones to finish.
func (wp *WorkerPool) Close() {
	wp.once.Do(func() {
		wp.mu.Lock()
		wp.closed = true
		close(wp.taskQueue)
		wp.mu.Unlock()
	})
	wp.wg.Wait()
}

// Wait waits for all submitted tasks to complete
func (wp *WorkerPool) Wait() {
	wp.Close()
}

// ForEach calls fn(i) for every i in [0, n). With one worker the calls run
// inline, in order. fn must only write state owned by index i.
func ForEach(workers, n int, log logging.Logger, fn func(i int)) error {
	if workers <= 1 || n <= 1 {
		pool := &WorkerPool{log: loggerOrNop(log)}
		for i := 0; i < n; i++ {
			pool.run(func() { fn(i) })
		}
		return nil
	}
	if workers > n {
		workers = n
	}
	pool, err := NewWorkerPool(workers, log)
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		pool.Submit(func() { fn(i) })
	}
	pool.Close()
	return nil
}

func loggerOrNop(log logging.Logger) logging.Logger {
	if log == nil {
		return logging.NopLogger{}
	}
	return log
}
