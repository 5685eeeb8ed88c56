package memory

import (
	"context"
	"sort"

	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/store"
)

type taskStore struct{ s *Store }

func (ts taskStore) Create(_ context.Context, task *domain.Task) error {
	return ts.s.with(func(st *state) error {
		if err := st.requireUser(task.UserID); err != nil {
			return err
		}
		task.ID = st.nextTaskID
		st.nextTaskID++
		st.tasks[task.ID] = task.Clone()
		return nil
	})
}

func (ts taskStore) GetByID(_ context.Context, id int64) (*domain.Task, error) {
	var out domain.Task
	err := ts.s.with(func(st *state) error {
		t, ok := st.tasks[id]
		if !ok {
			return store.ErrTaskNotFound
		}
		out = t.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func matches(t domain.Task, f store.TaskFilter) bool {
	if t.UserID != f.UserID {
		return false
	}
	if f.Status != nil && t.Status != *f.Status {
		return false
	}
	if f.OverdueBefore != nil && !t.IsOverdue(*f.OverdueBefore) {
		return false
	}
	if f.DueFrom != nil && (t.DueDate == nil || *t.DueDate < *f.DueFrom) {
		return false
	}
	if f.DueTo != nil && (t.DueDate == nil || *t.DueDate > *f.DueTo) {
		return false
	}
	return true
}

func (ts taskStore) List(_ context.Context, filter store.TaskFilter) ([]domain.Task, error) {
	out := []domain.Task{}
	err := ts.s.with(func(st *state) error {
		for _, t := range st.tasks {
			if matches(t, filter) {
				out = append(out, t.Clone())
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, err
}

func (ts taskStore) Update(_ context.Context, id int64, patch domain.TaskPatch) error {
	return ts.s.with(func(st *state) error {
		t, ok := st.tasks[id]
		if !ok {
			return store.ErrTaskNotFound
		}
		st.tasks[id] = patch.Apply(t)
		return nil
	})
}

func (ts taskStore) Delete(_ context.Context, id int64) (*domain.Task, error) {
	var out domain.Task
	err := ts.s.with(func(st *state) error {
		t, ok := st.tasks[id]
		if !ok {
			return store.ErrTaskNotFound
		}
		delete(st.tasks, id)
		out = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (ts taskStore) DeleteByDueRange(_ context.Context, userID int64, r domain.DateRange) ([]domain.Task, error) {
	filter := store.TaskFilter{UserID: userID, DueFrom: &r.Start, DueTo: &r.End}
	out := []domain.Task{}
	err := ts.s.with(func(st *state) error {
		for id, t := range st.tasks {
			if matches(t, filter) {
				out = append(out, t)
				delete(st.tasks, id)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, err
}
