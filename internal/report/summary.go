package report

import (
	"context"
	"fmt"
	"time"

	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/service"
	"github.com/phrazzld/tasktrack-api/internal/store"
)

// Summary is the content of one report.
type Summary struct {
	UserID    int64
	Username  string
	Email     string
	Frequency domain.Frequency

	Pending   int
	Completed int
	// Overdue counts tasks past their due date that are not completed. They
	// are also included in Pending.
	Overdue int
	// Deleted counts tombstones that can still be restored.
	Deleted int

	GeneratedAt time.Time
}

// TaskLister lists a user's tasks.
type TaskLister interface {
	ListTasks(ctx context.Context, userID int64, q service.ListQuery) ([]domain.Task, error)
}

// Builder assembles summaries from the user, task and tombstone data.
type Builder struct {
	users      store.UserStore
	tasks      TaskLister
	tombstones store.TombstoneStore
	clock      func() time.Time
}

// NewBuilder creates a Builder.
func NewBuilder(users store.UserStore, tasks TaskLister, tombstones store.TombstoneStore) *Builder {
	return &Builder{
		users:      users,
		tasks:      tasks,
		tombstones: tombstones,
		clock:      func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the clock used for GeneratedAt.
func (b *Builder) WithClock(clock func() time.Time) *Builder {
	b.clock = clock
	return b
}

// Build returns the summary for job.
func (b *Builder) Build(ctx context.Context, job Job) (*Summary, error) {
	user, err := b.users.GetByID(ctx, job.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user %d: %w", job.UserID, err)
	}

	summary := &Summary{
		UserID:      user.ID,
		Username:    user.Username,
		Email:       user.Email,
		Frequency:   job.Frequency,
		GeneratedAt: b.clock(),
	}

	counts := []struct {
		status string
		dst    *int
	}{
		{string(domain.StatusFilterPending), &summary.Pending},
		{string(domain.StatusFilterCompleted), &summary.Completed},
		{string(domain.StatusFilterOverdue), &summary.Overdue},
	}
	for _, c := range counts {
		tasks, err := b.tasks.ListTasks(ctx, user.ID, service.ListQuery{Status: c.status})
		if err != nil {
			return nil, fmt.Errorf("failed to list %s tasks: %w", c.status, err)
		}
		*c.dst = len(tasks)
	}

	summary.Deleted, err = b.tombstones.CountByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count deleted tasks: %w", err)
	}

	return summary, nil
}
