// Package domain defines the core business entities and errors.
package domain

import (
	"errors"
	"fmt"
)

// ErrValidation is the root of every input validation failure. Callers match
// it with errors.Is regardless of which field failed.
var ErrValidation = errors.New("validation failed")

// Field-level validation errors.
var (
	ErrEmptyTitle         = NewValidationError("title", "Title is required")
	ErrInvalidTaskStatus  = NewValidationError("status", "status must be one of: pending, completed")
	ErrInvalidStatusQuery = NewValidationError("status", "Invalid status filter")
	ErrEmptyPatch         = NewValidationError("", "No update data provided")
	ErrMissingDateRange   = NewValidationError("start_date", "Both start_date and end_date are required")
	ErrInvalidDateFormat  = NewValidationError(
		"start_date",
		"Invalid date format. Use ISO 8601 format: YYYY-MM-DDTHH:MM:SS",
	)
	ErrInvertedDateRange = NewValidationError("start_date", "start_date must be before end_date")
	ErrInvalidFrequency  = NewValidationError("frequency", "frequency must be one of: daily, weekly, monthly")
	ErrInvalidUserID     = NewValidationError("user_id", "user_id is required")
	ErrMissingCredential = NewValidationError("", "Username, email, and password are required")
)

// ValidationError describes a rejected input. Message is safe to show to
// API clients.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrValidation, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", ErrValidation, e.Field, e.Message)
}

// Unwrap makes every ValidationError match ErrValidation.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// ValidationMessage returns the client-facing message carried by a
// ValidationError anywhere in err's chain, or "" when there is none.
func ValidationMessage(err error) string {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr.Message
	}
	return ""
}
