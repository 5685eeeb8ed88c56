package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/tasktrack-api/internal/api/shared"
	"github.com/phrazzld/tasktrack-api/internal/domain"
	"github.com/phrazzld/tasktrack-api/internal/service"
	"github.com/phrazzld/tasktrack-api/internal/service/auth"
	"github.com/phrazzld/tasktrack-api/internal/store"
)

// Client-facing messages shared by several handlers.
const (
	msgInvalidRequest    = "Invalid request format"
	msgInvalidTaskID     = "Invalid task ID"
	msgUnexpected        = "An unexpected error occurred"
	msgTaskNotFound      = "Task not found"
	msgNothingToRestore  = "No deleted tasks found to restore"
	msgUserExists        = "User already exists or email is already in use"
	msgInvalidCreds      = "Invalid credentials"
	msgUnknownUser       = "User does not exist"
	msgInvalidSubscribe  = "Invalid subscription data; user_id and frequency (daily, weekly, monthly) required"
	msgForbiddenTemplate = "Unauthorized: You do not have permission to %s this task"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest

	case errors.Is(err, service.ErrUnknownUser),
		errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken):
		return http.StatusUnauthorized

	case errors.Is(err, service.ErrNotOwned):
		return http.StatusForbidden

	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	case errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return msgUnexpected
	}

	if msg := domain.ValidationMessage(err); msg != "" {
		return msg
	}

	switch {
	case errors.Is(err, service.ErrUnknownUser):
		return msgUnknownUser
	case errors.Is(err, auth.ErrInvalidCredentials):
		return msgInvalidCreds
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrExpiredToken):
		return "Invalid token"
	case errors.Is(err, service.ErrNotOwned):
		return "Unauthorized: You do not have permission to access this task"
	case errors.Is(err, store.ErrTaskNotFound):
		return msgTaskNotFound
	case errors.Is(err, store.ErrTombstoneNotFound):
		return msgNothingToRestore
	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"
	case errors.Is(err, store.ErrUserExists), errors.Is(err, store.ErrDuplicate):
		return msgUserExists
	default:
		return msgUnexpected
	}
}

// HandleAPIError writes the status and safe message for err and logs the
// redacted cause. A non-empty message overrides the mapped one.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, message string) {
	status := MapErrorToStatusCode(err)
	if message == "" {
		message = GetSafeErrorMessage(err)
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}
