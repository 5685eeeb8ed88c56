package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/events"
	"github.com/phrazzld/tasktrack-api/internal/platform/logger"
	"github.com/phrazzld/tasktrack-api/internal/store"
)

// ListQuery carries the raw listing parameters. Empty strings mean absent.
type ListQuery struct {
	Status   string
	DateFrom string
	DateTo   string
}

// TaskService runs the task lifecycle for an acting user.
type TaskService interface {
	// CreateTask validates the input and stores a new task owned by userID.
	CreateTask(ctx context.Context, userID int64, in domain.NewTaskInput) (*domain.Task, error)

	// ListTasks returns the user's tasks matching q ordered by id.
	ListTasks(ctx context.Context, userID int64, q ListQuery) ([]domain.Task, error)

	// GetTask returns a task owned by userID.
	GetTask(ctx context.Context, userID, taskID int64) (*domain.Task, error)

	// UpdateTask applies a partial update to a task owned by userID.
	UpdateTask(ctx context.Context, userID, taskID int64, patch domain.TaskPatch) error

	// DeleteTask removes a task and records a tombstone for it.
	DeleteTask(ctx context.Context, userID, taskID int64) error

	// BatchDeleteTasks removes every task of userID due within [start, end]
	// and returns how many were removed.
	BatchDeleteTasks(ctx context.Context, userID int64, start, end string) (int, error)

	// RestoreLastDeleted re-creates the user's most recently deleted task and
	// returns its new id.
	RestoreLastDeleted(ctx context.Context, userID int64) (int64, error)
}

// TaskServiceOption configures a TaskService.
type TaskServiceOption func(*taskServiceImpl)

// WithClock replaces time.Now as the source of deletion times and of the
// instant overdue listings compare against.
func WithClock(clock func() time.Time) TaskServiceOption {
	return func(s *taskServiceImpl) {
		if clock != nil {
			s.clock = clock
		}
	}
}

type taskServiceImpl struct {
	store        store.Store
	eventEmitter events.EventEmitter
	clock        func() time.Time
	logger       *slog.Logger
}

// NewTaskService creates a TaskService backed by s.
func NewTaskService(
	s store.Store,
	eventEmitter events.EventEmitter,
	log *slog.Logger,
	opts ...TaskServiceOption,
) (TaskService, error) {
	if s == nil {
		return nil, NewTaskServiceError("create_service", "store cannot be nil", nil)
	}
	if eventEmitter == nil {
		return nil, NewTaskServiceError("create_service", "eventEmitter cannot be nil", nil)
	}
	if log == nil {
		log = slog.Default()
	}

	svc := &taskServiceImpl{
		store:        s,
		eventEmitter: eventEmitter,
		clock:        time.Now,
		logger:       log.With("component", "task_service"),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// passThrough reports whether err already carries a meaning the API layer
// maps directly, so it is returned without service context.
func passThrough(err error) bool {
	return errors.Is(err, domain.ErrValidation) ||
		errors.Is(err, ErrNotOwned) ||
		errors.Is(err, ErrUnknownUser) ||
		store.IsNotFoundError(err)
}

func taskError(operation, message string, err error) error {
	if passThrough(err) {
		return err
	}
	return NewTaskServiceError(operation, message, err)
}

// CreateTask implements TaskService.
func (s *taskServiceImpl) CreateTask(
	ctx context.Context,
	userID int64,
	in domain.NewTaskInput,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := domain.NewTask(userID, in)
	if err != nil {
		log.Debug("rejected task input", "user_id", userID, "error", err)
		return nil, err
	}

	if err := s.store.Tasks().Create(ctx, task); err != nil {
		if errors.Is(err, store.ErrInvalidEntity) {
			return nil, ErrUnknownUser
		}
		log.Error("failed to create task", "user_id", userID, "error", err)
		return nil, taskError("create_task", "failed to save task", err)
	}

	log.Info("task created", "user_id", userID, "task_id", task.ID)
	s.emit(ctx, events.NewTaskEvent(events.TypeTaskCreated, userID, task.ID))
	return task, nil
}

// ListTasks implements TaskService.
func (s *taskServiceImpl) ListTasks(ctx context.Context, userID int64, q ListQuery) ([]domain.Task, error) {
	statusFilter, err := domain.ParseStatusFilter(q.Status)
	if err != nil {
		return nil, err
	}

	filter := store.TaskFilter{UserID: userID}
	switch statusFilter {
	case domain.StatusFilterPending, domain.StatusFilterCompleted:
		status := domain.TaskStatus(statusFilter)
		filter.Status = &status
	case domain.StatusFilterOverdue:
		now := domain.FormatTimestamp(s.clock())
		filter.OverdueBefore = &now
	}
	if q.DateFrom != "" {
		from := q.DateFrom
		filter.DueFrom = &from
	}
	if q.DateTo != "" {
		to := q.DateTo
		filter.DueTo = &to
	}

	tasks, err := s.store.Tasks().List(ctx, filter)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list tasks",
			"user_id", userID,
			"error", err)
		return nil, taskError("list_tasks", "failed to query tasks", err)
	}
	return tasks, nil
}

// ownedTask loads a task and checks it belongs to userID. A missing task is
// reported before a foreign one.
func ownedTask(ctx context.Context, tasks store.TaskStore, userID, taskID int64) (*domain.Task, error) {
	task, err := tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.UserID != userID {
		return nil, ErrNotOwned
	}
	return task, nil
}

// GetTask implements TaskService.
func (s *taskServiceImpl) GetTask(ctx context.Context, userID, taskID int64) (*domain.Task, error) {
	task, err := ownedTask(ctx, s.store.Tasks(), userID, taskID)
	if err != nil {
		return nil, taskError("get_task", "failed to load task", err)
	}
	return task, nil
}

// UpdateTask implements TaskService.
func (s *taskServiceImpl) UpdateTask(
	ctx context.Context,
	userID, taskID int64,
	patch domain.TaskPatch,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := s.store.RunInTx(ctx, func(ctx context.Context, tx store.Store) error {
		if _, err := ownedTask(ctx, tx.Tasks(), userID, taskID); err != nil {
			return err
		}
		normalized, err := patch.Normalize()
		if err != nil {
			return err
		}
		return tx.Tasks().Update(ctx, taskID, normalized)
	})
	if err != nil {
		if !passThrough(err) {
			log.Error("failed to update task", "user_id", userID, "task_id", taskID, "error", err)
		}
		return taskError("update_task", "failed to update task", err)
	}

	log.Info("task updated", "user_id", userID, "task_id", taskID)
	s.emit(ctx, events.NewTaskEvent(events.TypeTaskUpdated, userID, taskID))
	return nil
}

// DeleteTask implements TaskService.
func (s *taskServiceImpl) DeleteTask(ctx context.Context, userID, taskID int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := s.store.RunInTx(ctx, func(ctx context.Context, tx store.Store) error {
		if _, err := ownedTask(ctx, tx.Tasks(), userID, taskID); err != nil {
			return err
		}
		// The returned row is authoritative: a concurrent delete that won the
		// race leaves nothing to remove here.
		removed, err := tx.Tasks().Delete(ctx, taskID)
		if err != nil {
			return err
		}
		return tx.Tombstones().Create(ctx, domain.NewDeletedTask(*removed, s.clock()))
	})
	if err != nil {
		if !passThrough(err) {
			log.Error("failed to delete task", "user_id", userID, "task_id", taskID, "error", err)
		}
		return taskError("delete_task", "failed to delete task", err)
	}

	log.Info("task deleted", "user_id", userID, "task_id", taskID)
	s.emit(ctx, events.NewTaskEvent(events.TypeTaskDeleted, userID, taskID))
	return nil
}

// BatchDeleteTasks implements TaskService.
func (s *taskServiceImpl) BatchDeleteTasks(
	ctx context.Context,
	userID int64,
	start, end string,
) (int, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	dateRange, err := domain.NewDateRange(start, end)
	if err != nil {
		return 0, err
	}

	var count int
	err = s.store.RunInTx(ctx, func(ctx context.Context, tx store.Store) error {
		removed, err := tx.Tasks().DeleteByDueRange(ctx, userID, dateRange)
		if err != nil {
			return err
		}
		count = len(removed)
		if count == 0 {
			return nil
		}

		deletedAt := s.clock()
		tombstones := make([]*domain.DeletedTask, 0, count)
		for _, task := range removed {
			tombstones = append(tombstones, domain.NewDeletedTask(task, deletedAt))
		}
		return tx.Tombstones().Create(ctx, tombstones...)
	})
	if err != nil {
		log.Error("failed to batch delete tasks",
			"user_id", userID,
			"start_date", start,
			"end_date", end,
			"error", err)
		return 0, taskError("batch_delete_tasks", "failed to delete tasks", err)
	}

	log.Info("tasks batch deleted", "user_id", userID, "count", count)
	event := events.NewTaskEvent(events.TypeTaskBatchDeleted, userID, 0)
	event.Count = count
	s.emit(ctx, event)
	return count, nil
}

// RestoreLastDeleted implements TaskService.
func (s *taskServiceImpl) RestoreLastDeleted(ctx context.Context, userID int64) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var newID int64
	err := s.store.RunInTx(ctx, func(ctx context.Context, tx store.Store) error {
		tombstone, err := tx.Tombstones().Latest(ctx, userID)
		if err != nil {
			return err
		}
		restored := tombstone.Restore()
		if err := tx.Tasks().Create(ctx, &restored); err != nil {
			return err
		}
		if err := tx.Tombstones().Delete(ctx, tombstone.ID); err != nil {
			return err
		}
		newID = restored.ID
		return nil
	})
	if err != nil {
		if !store.IsNotFoundError(err) {
			log.Error("failed to restore task", "user_id", userID, "error", err)
		}
		return 0, taskError("restore_task", "failed to restore task", err)
	}

	log.Info("task restored", "user_id", userID, "task_id", newID)
	s.emit(ctx, events.NewTaskEvent(events.TypeTaskRestored, userID, newID))
	return newID, nil
}

// emit publishes a committed change. Failures never undo the change.
func (s *taskServiceImpl) emit(ctx context.Context, event *events.TaskEvent) {
	if err := s.eventEmitter.EmitEvent(ctx, event); err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Warn("failed to emit task event",
			"event_type", event.Type,
			"event_id", event.ID,
			"error", err)
	}
}
