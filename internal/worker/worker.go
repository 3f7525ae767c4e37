package worker

import (
	"context"
	"log/slog"
	"sync"
)

// Job is a unit of work handed to the processor, e.g. a watchlist id.
type Job any

type ProcessFunc func(ctx context.Context, job Job) error

type WorkerPool struct {
	numWorkers int
	jobs       chan Job
	processor  ProcessFunc
	logger     *slog.Logger
	wg         sync.WaitGroup
}

func NewWorkerPool(numWorkers int, bufferSize int, processor ProcessFunc, logger *slog.Logger) *WorkerPool {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkerPool{
		numWorkers: numWorkers,
		jobs:       make(chan Job, bufferSize),
		processor:  processor,
		logger:     logger,
	}
}

func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 1; i <= wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(ctx, i)
	}
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	defer wp.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-wp.jobs:
			if !ok {
				return
			}
			if err := wp.processor(ctx, job); err != nil {
				wp.logger.Warn("job failed", "worker", id, "job", job, "error", err)
			}
		}
	}
}

// Submit queues a job, giving up if ctx ends while the buffer is full.
func (wp *WorkerPool) Submit(ctx context.Context, job Job) error {
	select {
	case wp.jobs <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stop must be called after the last Submit.
func (wp *WorkerPool) Stop() {
	close(wp.jobs)
	wp.wg.Wait()
}
