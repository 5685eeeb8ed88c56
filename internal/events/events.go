package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Lifecycle event types.
const (
	TypeTaskCreated      = "task.created"
	TypeTaskUpdated      = "task.updated"
	TypeTaskDeleted      = "task.deleted"
	TypeTaskBatchDeleted = "task.batch_deleted"
	TypeTaskRestored     = "task.restored"
)

// TaskEvent describes a committed change to a user's tasks.
type TaskEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// Type is one of the Type* constants
	Type string `json:"type"`

	UserID int64 `json:"user_id"`

	// TaskID is the affected task. For task.restored it is the new task id;
	// it is zero for task.batch_deleted.
	TaskID int64 `json:"task_id,omitempty"`

	// Count is the number of tasks removed by a batch delete.
	Count int `json:"count,omitempty"`

	OccurredAt time.Time `json:"occurred_at"`
}

// NewTaskEvent creates a TaskEvent stamped with a fresh id and the current time.
func NewTaskEvent(eventType string, userID, taskID int64) *TaskEvent {
	return &TaskEvent{
		ID:         uuid.New(),
		Type:       eventType,
		UserID:     userID,
		TaskID:     taskID,
		OccurredAt: time.Now().UTC(),
	}
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleEvent(ctx context.Context, event *TaskEvent) error
}

// EventEmitter defines an interface for components that can emit events.
// This allows services to publish events without direct knowledge of handlers.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	EmitEvent(ctx context.Context, event *TaskEvent) error
}

// NopEmitter discards every event.
type NopEmitter struct{}

// EmitEvent implements EventEmitter.
func (NopEmitter) EmitEvent(context.Context, *TaskEvent) error { return nil }
