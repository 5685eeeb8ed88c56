package report

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/store"
	"golang.org/x/sync/errgroup"
)

// Result summarizes a dispatch run.
type Result struct {
	Sent   int
	Failed int
}

// Dispatcher sends the reports due for a set of frequencies.
type Dispatcher struct {
	subscriptions store.SubscriptionStore
	builder       *Builder
	mailer        Mailer
	workers       int
	logger        *slog.Logger
}

// NewDispatcher creates a Dispatcher that delivers with up to workers
// concurrent sends.
func NewDispatcher(
	subscriptions store.SubscriptionStore,
	builder *Builder,
	mailer Mailer,
	workers int,
	logger *slog.Logger,
) *Dispatcher {
	return &Dispatcher{
		subscriptions: subscriptions,
		builder:       builder,
		mailer:        mailer,
		workers:       workers,
		logger:        logger.With("component", "report_dispatcher"),
	}
}

// Run sends one report per subscribed user and frequency. An error is
// returned only when the subscriptions cannot be loaded; delivery failures
// are counted in the Result.
func (d *Dispatcher) Run(ctx context.Context, frequencies ...domain.Frequency) (Result, error) {
	jobs, err := d.loadJobs(ctx, frequencies)
	if err != nil {
		return Result{}, err
	}
	if len(jobs) == 0 {
		d.logger.Info("no subscriptions due", "frequencies", frequencies)
		return Result{}, nil
	}

	queue := NewJobQueue(len(jobs), d.logger)
	for _, job := range jobs {
		if err := queue.Enqueue(job); err != nil {
			return Result{}, err
		}
	}
	queue.Close()

	pool := NewWorkerPool(queue, d.deliver, d.workers, d.logger)
	pool.Start(ctx)
	pool.Wait()

	stats := pool.Stats()
	result := Result{Sent: stats.Processed - stats.Failed, Failed: stats.Failed}
	d.logger.Info("report dispatch finished", "sent", result.Sent, "failed", result.Failed)
	return result, nil
}

func (d *Dispatcher) deliver(ctx context.Context, job Job) error {
	summary, err := d.builder.Build(ctx, job)
	if err != nil {
		return err
	}
	return d.mailer.Send(ctx, summary)
}

// loadJobs fetches each frequency concurrently. Duplicate subscriptions of
// the same user and frequency collapse into one job.
func (d *Dispatcher) loadJobs(ctx context.Context, frequencies []domain.Frequency) ([]Job, error) {
	var (
		mu   sync.Mutex
		seen = make(map[Job]struct{})
		jobs []Job
	)

	g, ctx := errgroup.WithContext(ctx)
	for _, frequency := range frequencies {
		g.Go(func() error {
			subs, err := d.subscriptions.ListByFrequency(ctx, frequency)
			if err != nil {
				return fmt.Errorf("failed to list %s subscriptions: %w", frequency, err)
			}

			mu.Lock()
			defer mu.Unlock()
			for _, sub := range subs {
				job := Job{UserID: sub.UserID, Frequency: sub.Frequency}
				if _, dup := seen[job]; dup {
					continue
				}
				seen[job] = struct{}{}
				jobs = append(jobs, job)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return jobs, nil
}
