package report

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Errors returned by JobQueue.
var (
	ErrQueueClosed = errors.New("job queue is closed")
	ErrQueueFull   = errors.New("job queue is full")
)

// JobQueueReader is the consuming side of a queue.
type JobQueueReader interface {
	Jobs() <-chan Job
}

// JobQueue is a bounded, non-blocking queue of jobs.
type JobQueue struct {
	mu     sync.Mutex
	jobs   chan Job
	closed bool
	logger *slog.Logger
}

// NewJobQueue creates a queue holding at most size jobs.
func NewJobQueue(size int, logger *slog.Logger) *JobQueue {
	return &JobQueue{
		jobs:   make(chan Job, size),
		logger: logger,
	}
}

// Enqueue adds job without blocking.
func (q *JobQueue) Enqueue(job Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrQueueClosed
	}

	select {
	case q.jobs <- job:
		q.logger.Debug("report job enqueued",
			"user_id", job.UserID,
			"frequency", job.Frequency,
			"queue_len", len(q.jobs))
		return nil
	default:
		return fmt.Errorf("%w: capacity %d reached", ErrQueueFull, cap(q.jobs))
	}
}

// Close stops further submissions. Jobs already queued are still delivered
// to readers. Close is idempotent.
func (q *JobQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.closed {
		q.closed = true
		close(q.jobs)
	}
}

// Jobs implements JobQueueReader.
func (q *JobQueue) Jobs() <-chan Job {
	return q.jobs
}
