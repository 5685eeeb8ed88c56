package report

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Handler processes a single job.
type Handler func(ctx context.Context, job Job) error

// Stats counts the outcomes of processed jobs.
type Stats struct {
	Processed int
	Failed    int
}

// WorkerPool runs a fixed number of workers that drain a JobQueueReader.
type WorkerPool struct {
	queue       JobQueueReader
	handler     Handler
	workerCount int
	logger      *slog.Logger

	wg     sync.WaitGroup
	cancel context.CancelFunc

	// errorHandler, when set, is called for every failed job.
	errorHandler func(job Job, err error)

	processed atomic.Int64
	failed    atomic.Int64
}

// NewWorkerPool creates a pool. A non-positive workerCount becomes 1.
func NewWorkerPool(queue JobQueueReader, handler Handler, workerCount int, logger *slog.Logger) *WorkerPool {
	if workerCount <= 0 {
		logger.Warn("invalid worker count specified, using default",
			"specified_count", workerCount,
			"default_count", 1)
		workerCount = 1
	}
	return &WorkerPool{
		queue:       queue,
		handler:     handler,
		workerCount: workerCount,
		logger:      logger,
	}
}

// SetErrorHandler must be called before Start.
func (p *WorkerPool) SetErrorHandler(handler func(job Job, err error)) {
	p.errorHandler = handler
}

// Start launches the workers. They exit when the queue is closed and
// drained, or when ctx is cancelled.
func (p *WorkerPool) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)

	p.logger.Info("starting report workers", "worker_count", p.workerCount)
	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}
}

// Wait blocks until every worker has exited.
func (p *WorkerPool) Wait() {
	p.wg.Wait()
}

// Stop cancels in-flight work and waits for the workers.
func (p *WorkerPool) Stop() {
	if p.cancel != nil {
		p.cancel()
	}
	p.wg.Wait()
}

// Stats returns the counts so far.
func (p *WorkerPool) Stats() Stats {
	return Stats{
		Processed: int(p.processed.Load()),
		Failed:    int(p.failed.Load()),
	}
}

func (p *WorkerPool) worker(ctx context.Context, id int) {
	defer p.wg.Done()

	for {
		select {
		case <-ctx.Done():
			p.logger.Debug("stopping report worker", "worker_id", id)
			return

		case job, ok := <-p.queue.Jobs():
			if !ok {
				p.logger.Debug("job queue drained, stopping worker", "worker_id", id)
				return
			}
			p.process(ctx, job, id)
		}
	}
}

func (p *WorkerPool) process(ctx context.Context, job Job, workerID int) {
	log := p.logger.With(
		"user_id", job.UserID,
		"frequency", job.Frequency,
		"worker_id", workerID)

	p.processed.Add(1)
	if err := p.handler(ctx, job); err != nil {
		p.failed.Add(1)
		log.Error("report job failed", "error", err)
		if p.errorHandler != nil {
			p.errorHandler(job, err)
		}
		return
	}
	log.Debug("report job completed")
}
