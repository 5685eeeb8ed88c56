package domain

import "time"

// DeletedTask is the snapshot written when a task is soft-deleted. It has its
// own identifier space and is consumed by at most one restore.
type DeletedTask struct {
	ID             int64
	UserID         int64
	Title          string
	Description    *string
	StartDate      *string
	DueDate        *string
	CompletionDate *string
	Status         TaskStatus
	DeletionTime   time.Time
}

// NewDeletedTask snapshots t with the given deletion time. Deletion times are
// truncated to microseconds so that every store orders them the same way.
func NewDeletedTask(t Task, deletedAt time.Time) *DeletedTask {
	c := t.Clone()
	return &DeletedTask{
		UserID:         c.UserID,
		Title:          c.Title,
		Description:    c.Description,
		StartDate:      c.StartDate,
		DueDate:        c.DueDate,
		CompletionDate: c.CompletionDate,
		Status:         c.Status,
		DeletionTime:   deletedAt.UTC().Truncate(time.Microsecond),
	}
}

// Restore returns the task to re-insert. The ID is left zero so the store
// assigns a fresh one.
func (d DeletedTask) Restore() Task {
	return Task{
		UserID:         d.UserID,
		Title:          d.Title,
		Description:    cloneString(d.Description),
		StartDate:      cloneString(d.StartDate),
		DueDate:        cloneString(d.DueDate),
		CompletionDate: cloneString(d.CompletionDate),
		Status:         d.Status,
	}
}

// Clone returns a deep copy of d.
func (d DeletedTask) Clone() DeletedTask {
	d.Description = cloneString(d.Description)
	d.StartDate = cloneString(d.StartDate)
	d.DueDate = cloneString(d.DueDate)
	d.CompletionDate = cloneString(d.CompletionDate)
	return d
}

// After reports whether d sorts after other for restore selection: later
// deletion time first, then higher id.
func (d DeletedTask) After(other DeletedTask) bool {
	if !d.DeletionTime.Equal(other.DeletionTime) {
		return d.DeletionTime.After(other.DeletionTime)
	}
	return d.ID > other.ID
}
