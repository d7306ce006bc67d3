package service

import (
	"errors"
	"fmt"
)

// Common service errors. The API layer maps these to HTTP status codes.
var (
	// ErrItemNotFound indicates that the requested catalog item does not exist.
	ErrItemNotFound = errors.New("item not found")

	// ErrDuplicateItem indicates that an item with the same ID already exists.
	ErrDuplicateItem = errors.New("item already exists")

	// ErrQuoteNotFound indicates that the requested practice quote does not exist.
	ErrQuoteNotFound = errors.New("quote not found")

	// ErrNoQuotes indicates that the practice catalog (or the requested category) is empty.
	ErrNoQuotes = errors.New("no quotes available")
)

// ServiceError wraps unexpected failures with the operation that hit them.
type ServiceError struct {
	Service   string // "item", "profile" or "practice"
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s service %s failed: %s: %v", e.Service, e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s service %s failed: %s", e.Service, e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
func NewServiceError(service, operation, message string, err error) *ServiceError {
	return &ServiceError{
		Service:   service,
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
