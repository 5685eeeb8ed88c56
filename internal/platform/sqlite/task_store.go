package sqlite

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/platform/logger"
	"github.com/phrazzld/tasktrack-api/internal/store"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type taskStore struct{ s *Store }

func (ts taskStore) Create(ctx context.Context, task *domain.Task) error {
	m := newTaskModel(task)
	if err := ts.s.conn(ctx).Create(m).Error; err != nil {
		logger.FromContextOrDefault(ctx, ts.s.logger).Warn("failed to create task",
			slog.String("error", err.Error()),
			slog.Int64("user_id", task.UserID))
		return fmt.Errorf("failed to create task: %w", mapError(err, store.ErrTaskNotFound))
	}
	task.ID = m.ID
	return nil
}

func (ts taskStore) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	var m taskModel
	if err := ts.s.conn(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, mapError(err, store.ErrTaskNotFound)
	}
	t := m.toDomain()
	return &t, nil
}

func applyFilter(q *gorm.DB, f store.TaskFilter) *gorm.DB {
	q = q.Where("user_id = ?", f.UserID)
	if f.Status != nil {
		q = q.Where("status = ?", string(*f.Status))
	}
	if f.OverdueBefore != nil {
		q = q.Where("due_date < ? AND status <> ?", *f.OverdueBefore, string(domain.TaskStatusCompleted))
	}
	if f.DueFrom != nil {
		q = q.Where("due_date >= ?", *f.DueFrom)
	}
	if f.DueTo != nil {
		q = q.Where("due_date <= ?", *f.DueTo)
	}
	return q
}

func (ts taskStore) List(ctx context.Context, filter store.TaskFilter) ([]domain.Task, error) {
	var rows []taskModel
	if err := applyFilter(ts.s.conn(ctx), filter).Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return toTasks(rows), nil
}

func (ts taskStore) Update(ctx context.Context, id int64, patch domain.TaskPatch) error {
	updates := map[string]any{}
	set := func(column string, v *string) {
		if v != nil {
			updates[column] = *v
		}
	}
	set("title", patch.Title)
	set("description", patch.Description)
	set("start_date", patch.StartDate)
	set("due_date", patch.DueDate)
	set("completion_date", patch.CompletionDate)
	set("status", patch.Status)
	if len(updates) == 0 {
		return domain.ErrEmptyPatch
	}

	result := ts.s.conn(ctx).Model(&taskModel{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update task: %w", mapError(result.Error, store.ErrTaskNotFound))
	}
	if result.RowsAffected == 0 {
		return store.ErrTaskNotFound
	}
	return nil
}

func (ts taskStore) Delete(ctx context.Context, id int64) (*domain.Task, error) {
	var rows []taskModel
	result := ts.s.conn(ctx).Clauses(clause.Returning{}).Where("id = ?", id).Delete(&rows)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to delete task: %w", result.Error)
	}
	if result.RowsAffected == 0 || len(rows) == 0 {
		return nil, store.ErrTaskNotFound
	}
	t := rows[0].toDomain()
	return &t, nil
}

func (ts taskStore) DeleteByDueRange(ctx context.Context, userID int64, r domain.DateRange) ([]domain.Task, error) {
	var rows []taskModel
	result := ts.s.conn(ctx).
		Clauses(clause.Returning{}).
		Where("user_id = ? AND due_date >= ? AND due_date <= ?", userID, r.Start, r.End).
		Delete(&rows)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to delete tasks by due range: %w", result.Error)
	}
	tasks := toTasks(rows)
	sortTasks(tasks)
	return tasks, nil
}

func toTasks(rows []taskModel) []domain.Task {
	tasks := make([]domain.Task, 0, len(rows))
	for _, m := range rows {
		tasks = append(tasks, m.toDomain())
	}
	return tasks
}

func sortTasks(tasks []domain.Task) {
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })
}
