package store

import (
	"context"
	"time"

	"github.com/phrazzld/tasktrack-api/internal/domain"
)

// TaskFilter selects tasks for a listing. All string comparisons against
// due_date are lexical on the stored text.
type TaskFilter struct {
	UserID int64
	// Status restricts to a stored status when set.
	Status *domain.TaskStatus
	// OverdueBefore, when set, keeps only tasks with due_date < OverdueBefore
	// whose status is not completed.
	OverdueBefore *string
	// DueFrom and DueTo bound due_date inclusively.
	DueFrom *string
	DueTo   *string
}

// TaskStore persists active tasks.
type TaskStore interface {
	// Create inserts the task and sets its ID.
	// Returns ErrInvalidEntity if the owning user does not exist.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID returns the task regardless of owner.
	// Returns ErrTaskNotFound if no task has that id.
	GetByID(ctx context.Context, id int64) (*domain.Task, error)

	// List returns the tasks matching filter ordered by id.
	List(ctx context.Context, filter TaskFilter) ([]domain.Task, error)

	// Update applies a normalized patch with coalesce semantics.
	// Returns ErrTaskNotFound if the row is gone.
	Update(ctx context.Context, id int64, patch domain.TaskPatch) error

	// Delete removes the task and returns the row as it was at removal.
	// Returns ErrTaskNotFound if no row was removed, which is also what a
	// concurrent second delete observes.
	Delete(ctx context.Context, id int64) (*domain.Task, error)

	// DeleteByDueRange removes the user's tasks whose due_date lies within
	// [r.Start, r.End] and returns them.
	DeleteByDueRange(ctx context.Context, userID int64, r domain.DateRange) ([]domain.Task, error)
}

// TombstoneStore persists snapshots of deleted tasks.
type TombstoneStore interface {
	// Create inserts the tombstones and sets their IDs.
	Create(ctx context.Context, tombstones ...*domain.DeletedTask) error

	// Latest returns the user's tombstone with the greatest deletion time,
	// breaking ties by the highest id. Implementations lock the row when the
	// backend supports it.
	// Returns ErrTombstoneNotFound if the user has none.
	Latest(ctx context.Context, userID int64) (*domain.DeletedTask, error)

	// Delete removes a tombstone.
	// Returns ErrTombstoneNotFound if no row was removed.
	Delete(ctx context.Context, id int64) error

	// CountByUser returns how many tombstones the user has.
	CountByUser(ctx context.Context, userID int64) (int, error)

	// CountByDeletionTime returns how many of the user's tombstones carry
	// exactly the given deletion time.
	CountByDeletionTime(ctx context.Context, userID int64, deletedAt time.Time) (int, error)
}

// UserStore persists user accounts.
type UserStore interface {
	// Create inserts the user and sets its ID.
	// Returns ErrUserExists if the username or email is taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id int64) (*domain.User, error)

	// GetByUsername returns ErrUserNotFound if the user does not exist.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// Exists reports whether a user with that id exists.
	Exists(ctx context.Context, id int64) (bool, error)
}

// SubscriptionStore persists report subscriptions.
type SubscriptionStore interface {
	// Create inserts the subscription and sets its ID.
	// Returns ErrInvalidEntity if the user does not exist.
	Create(ctx context.Context, sub *domain.Subscription) error

	// DeleteByUser removes every subscription of the user and returns how
	// many were removed.
	DeleteByUser(ctx context.Context, userID int64) (int64, error)

	// ListByFrequency returns all subscriptions with the given frequency
	// ordered by id.
	ListByFrequency(ctx context.Context, frequency domain.Frequency) ([]domain.Subscription, error)
}

// Store groups the entity stores of one backend and runs units of work
// against them.
type Store interface {
	Users() UserStore
	Tasks() TaskStore
	Tombstones() TombstoneStore
	Subscriptions() SubscriptionStore

	// RunInTx calls fn with a Store bound to a single transaction. The
	// transaction commits if fn returns nil and rolls back otherwise,
	// including when fn panics. Calling RunInTx on a transactional Store
	// runs fn in the same transaction.
	RunInTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}
