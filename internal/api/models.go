package api

import "github.com/phrazzld/tasktrack-api/internal/domain"

// CreateTaskRequest is the body of POST /tasks. Absent optional fields decode
// as nil.
type CreateTaskRequest struct {
	Title          string  `json:"title"`
	Description    *string `json:"description"`
	StartDate      *string `json:"start_date"`
	DueDate        *string `json:"due_date"`
	CompletionDate *string `json:"completion_date"`
	Status         *string `json:"status"`
}

// UpdateTaskRequest is the body of PUT /tasks/{id}. Absent or empty fields
// leave the stored value unchanged.
type UpdateTaskRequest struct {
	Title          *string `json:"title"`
	Description    *string `json:"description"`
	StartDate      *string `json:"start_date"`
	DueDate        *string `json:"due_date"`
	CompletionDate *string `json:"completion_date"`
	Status         *string `json:"status"`
}

// BatchDeleteRequest is the body of DELETE /tasks/batch_delete.
type BatchDeleteRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// CredentialsRequest is the body of POST /signup and POST /login.
type CredentialsRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

// SubscribeRequest is the body of POST /subscribe.
type SubscribeRequest struct {
	UserID    int64  `json:"user_id"   validate:"required,gt=0"`
	Frequency string `json:"frequency" validate:"required,oneof=daily weekly monthly"`
}

// UnsubscribeRequest is the body of POST /unsubscribe.
type UnsubscribeRequest struct {
	UserID int64 `json:"user_id" validate:"required,gt=0"`
}

// CreateTaskResponse is returned by POST /tasks.
type CreateTaskResponse struct {
	Message string `json:"message"`
	TaskID  int64  `json:"task_id"`
}

// ListTasksResponse is returned by GET /tasks.
type ListTasksResponse struct {
	Tasks []domain.Task `json:"tasks"`
}

// BatchDeleteResponse is returned by DELETE /tasks/batch_delete.
type BatchDeleteResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// RestoreResponse is returned by POST /tasks/restore_last.
type RestoreResponse struct {
	Message   string `json:"message"`
	NewTaskID int64  `json:"new_task_id"`
}

// LoginResponse is returned by POST /login.
type LoginResponse struct {
	Message string `json:"message"`
	UserID  int64  `json:"user_id"`
	// Token is a bearer token accepted in place of X-User-Id.
	Token string `json:"token,omitempty"`
}

func (r CreateTaskRequest) toInput() domain.NewTaskInput {
	return domain.NewTaskInput{
		Title:          r.Title,
		Description:    r.Description,
		StartDate:      r.StartDate,
		DueDate:        r.DueDate,
		CompletionDate: r.CompletionDate,
		Status:         r.Status,
	}
}

func (r UpdateTaskRequest) toPatch() domain.TaskPatch {
	return domain.TaskPatch{
		Title:          r.Title,
		Description:    r.Description,
		StartDate:      r.StartDate,
		DueDate:        r.DueDate,
		CompletionDate: r.CompletionDate,
		Status:         r.Status,
	}
}

func (r CredentialsRequest) credentials() domain.Credentials {
	return domain.Credentials{Username: r.Username, Email: r.Email, Password: r.Password}
}
