package api

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/studyloop/planner-api/internal/domain"
	"github.com/studyloop/planner-api/internal/service"
	"github.com/studyloop/planner-api/internal/store"
)

// badRequestErrors are the domain and service errors that indicate the
// caller sent bad data. Handlers validate requests up front, so these are
// mostly a backstop for validation that only the domain layer can do.
var badRequestErrors = []error{
	domain.ErrValidation,
	domain.ErrInvalidID,
	domain.ErrInvalidPriority,
	domain.ErrInvalidGoalStatus,
	domain.ErrInvalidDeadlineType,
	domain.ErrInvalidLibraryItemType,
	domain.ErrGoalTitleEmpty,
	domain.ErrGoalDurationInvalid,
	domain.ErrDeadlineTitleEmpty,
	domain.ErrDeadlineDateZero,
	domain.ErrProjectNameEmpty,
	domain.ErrProjectProgressRange,
	domain.ErrLibraryItemTitleEmpty,
	store.ErrInvalidEntity,
	service.ErrInvalidFilter,
}

// MapErrorToStatusCode maps service and store errors to HTTP status codes.
// Unknown errors map to 500 so nothing internal leaks by accident.
func MapErrorToStatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}

	if store.IsNotFoundError(err) {
		return http.StatusNotFound
	}

	var validationErrs validator.ValidationErrors
	var domainValidation *domain.ValidationError
	if errors.As(err, &validationErrs) || errors.As(err, &domainValidation) {
		return http.StatusBadRequest
	}

	for _, target := range badRequestErrors {
		if errors.Is(err, target) {
			return http.StatusBadRequest
		}
	}

	return http.StatusInternalServerError
}

// GetSafeErrorMessage returns a client-safe message for the error. The full
// error is for logs only; responses carry the sanitized version.
func GetSafeErrorMessage(err error) string {
	switch MapErrorToStatusCode(err) {
	case http.StatusNotFound:
		return "Resource not found"
	case http.StatusBadRequest:
		return "Invalid request"
	default:
		return "Internal server error"
	}
}
