package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/phrazzld/tasktrack-api/internal/api/shared"
	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/service"
)

// TaskHandler serves the /tasks endpoints.
type TaskHandler struct {
	tasks service.TaskService
}

// NewTaskHandler creates a TaskHandler.
func NewTaskHandler(tasks service.TaskService) *TaskHandler {
	return &TaskHandler{tasks: tasks}
}

// CreateTask handles POST /tasks.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req CreateTaskRequest
	if !decodeBody(w, r, &req) {
		return
	}

	task, err := h.tasks.CreateTask(r.Context(), userID, req.toInput())
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, CreateTaskResponse{
		Message: "Task created",
		TaskID:  task.ID,
	})
}

// ListTasks handles GET /tasks.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	tasks, err := h.tasks.ListTasks(r.Context(), userID, service.ListQuery{
		Status:   query.Get("status"),
		DateFrom: query.Get("date_from"),
		DateTo:   query.Get("date_to"),
	})
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if tasks == nil {
		tasks = []domain.Task{}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, ListTasksResponse{Tasks: tasks})
}

// GetTask handles GET /tasks/{id}.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := handleUserIDAndTaskID(w, r)
	if !ok {
		return
	}

	task, err := h.tasks.GetTask(r.Context(), userID, taskID)
	if err != nil {
		handleTaskError(w, r, err, "view")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, task)
}

// UpdateTask handles PUT /tasks/{id}.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := handleUserIDAndTaskID(w, r)
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.tasks.UpdateTask(r.Context(), userID, taskID, req.toPatch()); err != nil {
		handleTaskError(w, r, err, "update")
		return
	}

	shared.RespondWithMessage(w, r, http.StatusOK, "Task updated")
}

// DeleteTask handles DELETE /tasks/{id}.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := handleUserIDAndTaskID(w, r)
	if !ok {
		return
	}

	if err := h.tasks.DeleteTask(r.Context(), userID, taskID); err != nil {
		handleTaskError(w, r, err, "delete")
		return
	}

	shared.RespondWithMessage(w, r, http.StatusOK, "Task deleted")
}

// BatchDeleteTasks handles DELETE /tasks/batch_delete.
func (h *TaskHandler) BatchDeleteTasks(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req BatchDeleteRequest
	if !decodeBody(w, r, &req) {
		return
	}

	count, err := h.tasks.BatchDeleteTasks(r.Context(), userID, req.StartDate, req.EndDate)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, BatchDeleteResponse{
		Message: fmt.Sprintf("%d tasks deleted successfully", count),
		Count:   count,
	})
}

// RestoreLastDeleted handles POST /tasks/restore_last.
func (h *TaskHandler) RestoreLastDeleted(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	newID, err := h.tasks.RestoreLastDeleted(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, RestoreResponse{
		Message:   "Task restored",
		NewTaskID: newID,
	})
}

// handleTaskError names the attempted action in ownership failures.
func handleTaskError(w http.ResponseWriter, r *http.Request, err error, action string) {
	if errors.Is(err, service.ErrNotOwned) {
		HandleAPIError(w, r, err, forbiddenMessage(action))
		return
	}
	HandleAPIError(w, r, err, "")
}
