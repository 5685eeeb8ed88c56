package domain

import (
	"strings"
)

// TaskStatus is the persisted state of a task.
type TaskStatus string

// Task status values accepted from clients.
const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusCompleted TaskStatus = "completed"
)

// ParseTaskStatus converts a wire value into a TaskStatus.
func ParseTaskStatus(s string) (TaskStatus, error) {
	switch TaskStatus(s) {
	case TaskStatusPending, TaskStatusCompleted:
		return TaskStatus(s), nil
	default:
		return "", ErrInvalidTaskStatus
	}
}

// StatusFilter narrows a task listing. Overdue is derived at query time and
// is never stored.
type StatusFilter string

// Status filter values.
const (
	StatusFilterNone      StatusFilter = ""
	StatusFilterPending   StatusFilter = "pending"
	StatusFilterCompleted StatusFilter = "completed"
	StatusFilterOverdue   StatusFilter = "overdue"
)

// ParseStatusFilter accepts pending, completed or overdue in any letter case.
// An empty string means no filter.
func ParseStatusFilter(s string) (StatusFilter, error) {
	if s == "" {
		return StatusFilterNone, nil
	}
	switch f := StatusFilter(strings.ToLower(s)); f {
	case StatusFilterPending, StatusFilterCompleted, StatusFilterOverdue:
		return f, nil
	default:
		return "", ErrInvalidStatusQuery
	}
}

// Task is an active task owned by a single user.
//
// StartDate, DueDate and CompletionDate hold the ISO-8601 strings exactly as
// the client sent them; they are compared lexically by the store.
type Task struct {
	ID             int64      `json:"id"`
	UserID         int64      `json:"user_id"`
	Title          string     `json:"title"`
	Description    *string    `json:"description"`
	StartDate      *string    `json:"start_date"`
	DueDate        *string    `json:"due_date"`
	CompletionDate *string    `json:"completion_date"`
	Status         TaskStatus `json:"status"`
}

// NewTaskInput carries the client-provided fields for a new task.
type NewTaskInput struct {
	Title          string
	Description    *string
	StartDate      *string
	DueDate        *string
	CompletionDate *string
	Status         *string
}

// NewTask builds a validated Task for userID. Status defaults to pending and
// description to the empty string.
func NewTask(userID int64, in NewTaskInput) (*Task, error) {
	if userID <= 0 {
		return nil, ErrInvalidUserID
	}
	if in.Title == "" {
		return nil, ErrEmptyTitle
	}

	status := TaskStatusPending
	if in.Status != nil && *in.Status != "" {
		parsed, err := ParseTaskStatus(*in.Status)
		if err != nil {
			return nil, err
		}
		status = parsed
	}

	description := ""
	if in.Description != nil {
		description = *in.Description
	}

	return &Task{
		UserID:         userID,
		Title:          in.Title,
		Description:    &description,
		StartDate:      in.StartDate,
		DueDate:        in.DueDate,
		CompletionDate: in.CompletionDate,
		Status:         status,
	}, nil
}

// TaskPatch is a partial update. A nil or empty field leaves the stored
// value untouched, so a patch can never clear a column.
type TaskPatch struct {
	Title          *string
	Description    *string
	StartDate      *string
	DueDate        *string
	CompletionDate *string
	Status         *string
}

// Normalize drops empty fields and validates the rest. It fails when nothing
// is left to update.
func (p TaskPatch) Normalize() (TaskPatch, error) {
	out := TaskPatch{
		Title:          nonEmpty(p.Title),
		Description:    nonEmpty(p.Description),
		StartDate:      nonEmpty(p.StartDate),
		DueDate:        nonEmpty(p.DueDate),
		CompletionDate: nonEmpty(p.CompletionDate),
		Status:         nonEmpty(p.Status),
	}
	if out.IsEmpty() {
		return TaskPatch{}, ErrEmptyPatch
	}
	if out.Status != nil {
		if _, err := ParseTaskStatus(*out.Status); err != nil {
			return TaskPatch{}, err
		}
	}
	return out, nil
}

// IsEmpty reports whether the patch carries no fields.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.StartDate == nil &&
		p.DueDate == nil && p.CompletionDate == nil && p.Status == nil
}

// Apply returns a copy of t with the patch's fields coalesced in.
func (p TaskPatch) Apply(t Task) Task {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = cloneString(p.Description)
	}
	if p.StartDate != nil {
		t.StartDate = cloneString(p.StartDate)
	}
	if p.DueDate != nil {
		t.DueDate = cloneString(p.DueDate)
	}
	if p.CompletionDate != nil {
		t.CompletionDate = cloneString(p.CompletionDate)
	}
	if p.Status != nil {
		t.Status = TaskStatus(*p.Status)
	}
	return t
}

// Clone returns a deep copy of t.
func (t Task) Clone() Task {
	t.Description = cloneString(t.Description)
	t.StartDate = cloneString(t.StartDate)
	t.DueDate = cloneString(t.DueDate)
	t.CompletionDate = cloneString(t.CompletionDate)
	return t
}

// IsOverdue reports whether the task's due date sorts before now and the
// task is not completed. now must be formatted with FormatTimestamp.
func (t Task) IsOverdue(now string) bool {
	return t.DueDate != nil && *t.DueDate < now && t.Status != TaskStatusCompleted
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := *s
	return &v
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
