package api

import (
	"errors"
	"net/http"

	"github.com/catstash/catstash-api/internal/service"
	"github.com/catstash/catstash-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, service.ErrAssetNotFound),
		store.IsNotFoundError(err):
		return http.StatusNotFound

	// Bad request errors
	case errors.Is(err, service.ErrInvalidPage),
		errors.Is(err, service.ErrInvalidPageSize),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Conflict errors
	case store.IsDuplicateError(err):
		return http.StatusConflict

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message
// based on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, service.ErrAssetNotFound):
		return "Cat not found"

	case store.IsNotFoundError(err):
		return "Resource not found"

	case errors.Is(err, service.ErrInvalidPage):
		return "Page must be 1 or greater"

	case errors.Is(err, service.ErrInvalidPageSize):
		return "Page size must be between 1 and 100"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	case store.IsDuplicateError(err):
		return "Resource already exists"

	default:
		return "An unexpected error occurred"
	}
}
