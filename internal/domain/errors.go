package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidPriority is returned when a priority is outside the
	// low/med/high set.
	ErrInvalidPriority = errors.New("invalid priority")

	// ErrInvalidGoalStatus is returned when a goal status is not valid.
	ErrInvalidGoalStatus = errors.New("invalid goal status")

	// ErrInvalidDeadlineType is returned when a deadline type is not valid.
	ErrInvalidDeadlineType = errors.New("invalid deadline type")

	// ErrInvalidLibraryItemType is returned when a library item type is not valid.
	ErrInvalidLibraryItemType = errors.New("invalid library item type")
)

// ValidationError provides field-level context for a validation failure.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %v", e.Field, e.Message, e.Err)
	}
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a new ValidationError for the given field.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Err:     err,
	}
}
