package tmdb

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Task represents a unit of work to be processed by the worker pool
type Task func(ctx context.Context) error

// WorkerPool runs submitted tasks on a fixed number of goroutines.
type WorkerPool struct {
	workerCount int
	taskQueue   chan Task
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
	closeOnce   sync.Once
	failed      atomic.Int64
	log         *zap.Logger
}

// NewWorkerPool creates a pool bound to ctx. Cancelling ctx stops workers
// after their current task.
func NewWorkerPool(ctx context.Context, workerCount int, log *zap.Logger) *WorkerPool {
	if workerCount < 1 {
		workerCount = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	poolCtx, cancel := context.WithCancel(ctx)
	return &WorkerPool{
		workerCount: workerCount,
		taskQueue:   make(chan Task, workerCount*2),
		ctx:         poolCtx,
		cancel:      cancel,
		log:         log,
	}
}

// Start launches worker goroutines
func (wp *WorkerPool) Start() {
	for i := 0; i < wp.workerCount; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
	wp.log.Debug("worker pool started", zap.Int("workers", wp.workerCount))
}

// Submit queues a task. It returns false once the pool is shutting down.
func (wp *WorkerPool) Submit(task Task) bool {
	select {
	case wp.taskQueue <- task:
		return true
	case <-wp.ctx.Done():
		return false
	}
}

// Wait closes the queue, blocks until every queued task has run and returns
// how many of them failed.
func (wp *WorkerPool) Wait() int {
	wp.closeOnce.Do(func() { close(wp.taskQueue) })
	wp.wg.Wait()
	wp.cancel()
	return int(wp.failed.Load())
}

// Shutdown cancels all workers and waits for completion
func (wp *WorkerPool) Shutdown() int {
	wp.cancel()
	return wp.Wait()
}

func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for task := range wp.taskQueue {
		if wp.ctx.Err() != nil {
			// drain without running so Wait can return
			wp.failed.Add(1)
			continue
		}

		if err := task(wp.ctx); err != nil {
			wp.failed.Add(1)
			wp.log.Warn("task failed", zap.Int("worker", id), zap.Error(err))
		}
	}
}
