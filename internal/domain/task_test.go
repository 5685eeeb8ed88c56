package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestNewTask(t *testing.T) {
	t.Parallel()

	t.Run("defaults status and description", func(t *testing.T) {
		task, err := NewTask(1, NewTaskInput{Title: "Write report"})
		require.NoError(t, err)
		assert.Equal(t, TaskStatusPending, task.Status)
		require.NotNil(t, task.Description)
		assert.Equal(t, "", *task.Description)
		assert.Nil(t, task.DueDate)
	})

	t.Run("keeps dates verbatim", func(t *testing.T) {
		task, err := NewTask(1, NewTaskInput{
			Title:   "Odd dates",
			DueDate: strPtr("not-a-date"),
			Status:  strPtr("completed"),
		})
		require.NoError(t, err)
		assert.Equal(t, "not-a-date", *task.DueDate)
		assert.Equal(t, TaskStatusCompleted, task.Status)
	})

	t.Run("rejects empty title", func(t *testing.T) {
		_, err := NewTask(1, NewTaskInput{})
		assert.ErrorIs(t, err, ErrValidation)
		assert.Equal(t, "Title is required", ValidationMessage(err))
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		_, err := NewTask(1, NewTaskInput{Title: "x", Status: strPtr("archived")})
		assert.ErrorIs(t, err, ErrInvalidTaskStatus)
	})
}

func TestParseStatusFilter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    StatusFilter
		wantErr bool
	}{
		{"", StatusFilterNone, false},
		{"pending", StatusFilterPending, false},
		{"COMPLETED", StatusFilterCompleted, false},
		{"Overdue", StatusFilterOverdue, false},
		{"done", "", true},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseStatusFilter(tc.in)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestTaskPatch(t *testing.T) {
	t.Parallel()

	t.Run("all absent is rejected", func(t *testing.T) {
		_, err := TaskPatch{}.Normalize()
		assert.ErrorIs(t, err, ErrEmptyPatch)
	})

	t.Run("all empty is rejected", func(t *testing.T) {
		empty := ""
		_, err := TaskPatch{Title: &empty, Status: &empty}.Normalize()
		assert.ErrorIs(t, err, ErrEmptyPatch)
	})

	t.Run("status only leaves other fields untouched", func(t *testing.T) {
		original := Task{
			ID:          7,
			UserID:      1,
			Title:       "Title",
			Description: strPtr("desc"),
			DueDate:     strPtr("2024-01-01T00:00:00"),
			Status:      TaskStatusPending,
		}
		patch, err := TaskPatch{Status: strPtr("completed")}.Normalize()
		require.NoError(t, err)

		updated := patch.Apply(original)
		assert.Equal(t, TaskStatusCompleted, updated.Status)
		updated.Status = original.Status
		assert.Equal(t, original, updated)
	})

	t.Run("empty field cannot clear a column", func(t *testing.T) {
		original := Task{Title: "Title", Description: strPtr("keep me")}
		patch, err := TaskPatch{Title: strPtr("New"), Description: strPtr("")}.Normalize()
		require.NoError(t, err)
		updated := patch.Apply(original)
		assert.Equal(t, "keep me", *updated.Description)
		assert.Equal(t, "New", updated.Title)
	})

	t.Run("invalid status is rejected", func(t *testing.T) {
		_, err := TaskPatch{Status: strPtr("archived")}.Normalize()
		assert.ErrorIs(t, err, ErrInvalidTaskStatus)
	})
}

func TestTaskIsOverdue(t *testing.T) {
	t.Parallel()

	now := FormatTimestamp(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	past := strPtr("2024-01-01T00:00:00")
	future := strPtr("2030-01-01T00:00:00")

	assert.True(t, Task{DueDate: past, Status: TaskStatusPending}.IsOverdue(now))
	assert.False(t, Task{DueDate: past, Status: TaskStatusCompleted}.IsOverdue(now))
	assert.False(t, Task{DueDate: future, Status: TaskStatusPending}.IsOverdue(now))
	assert.False(t, Task{Status: TaskStatusPending}.IsOverdue(now))
}

func TestDeletedTaskRoundTrip(t *testing.T) {
	t.Parallel()

	task := Task{
		ID:             42,
		UserID:         3,
		Title:          "Write report",
		Description:    strPtr("quarterly"),
		StartDate:      strPtr("2024-01-01"),
		DueDate:        strPtr("2024-02-01"),
		CompletionDate: nil,
		Status:         TaskStatusPending,
	}
	deletedAt := time.Date(2025, 1, 1, 0, 0, 0, 123456789, time.UTC)

	tomb := NewDeletedTask(task, deletedAt)
	assert.Equal(t, int64(0), tomb.ID)
	assert.Equal(t, deletedAt.Truncate(time.Microsecond), tomb.DeletionTime)

	restored := tomb.Restore()
	assert.Equal(t, int64(0), restored.ID)
	restored.ID = task.ID
	assert.Equal(t, task, restored)
}

func TestDeletedTaskAfter(t *testing.T) {
	t.Parallel()

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	older := DeletedTask{ID: 9, DeletionTime: base}
	newer := DeletedTask{ID: 1, DeletionTime: base.Add(time.Second)}
	tieHigh := DeletedTask{ID: 10, DeletionTime: base}

	assert.True(t, newer.After(older))
	assert.False(t, older.After(newer))
	assert.True(t, tieHigh.After(older))
}
