package service

import (
	"errors"
	"fmt"
)

// Common sentinel errors returned by the services in this package.
var (
	// ErrAssetNotFound indicates that the requested asset does not exist.
	ErrAssetNotFound = errors.New("asset not found")

	// ErrInvalidPage indicates a page number below 1.
	ErrInvalidPage = errors.New("page must be greater than or equal to 1")

	// ErrInvalidPageSize indicates a page size outside [1, 100].
	ErrInvalidPageSize = errors.New("page size must be between 1 and 100")
)

// ServiceError wraps errors from the service layer with context.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "list_assets", "queue_fetch")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError. Known sentinel errors are
// returned directly without wrapping.
func NewServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrAssetNotFound) ||
		errors.Is(err, ErrInvalidPage) ||
		errors.Is(err, ErrInvalidPageSize) {
		return err
	}

	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
