// Package service provides the application-level services: the brochure
// generation facade and brochure management operations.
package service

import (
	"errors"
	"fmt"
)

// Common service errors - sentinel errors callers check with errors.Is().
var (
	// ErrNotOwned indicates a resource is owned by a different user than the
	// one making the request. The API layer maps this to HTTP 403 Forbidden.
	ErrNotOwned = errors.New("resource is owned by another user")

	// ErrQueueFull indicates the generation queue cannot accept more work
	// right now. The API layer maps this to HTTP 503 Service Unavailable.
	ErrQueueFull = errors.New("generation queue is full")
)

// BrochureServiceError wraps brochure service failures with operation
// context.
type BrochureServiceError struct {
	Operation string // The operation that failed (e.g., "start_generation")
	Message   string // Error message
	Err       error  // Original error
}

// Error implements the error interface for BrochureServiceError.
func (e *BrochureServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *BrochureServiceError) Unwrap() error {
	return e.Err
}

// NewBrochureServiceError creates a new BrochureServiceError.
func NewBrochureServiceError(operation, message string, err error) *BrochureServiceError {
	return &BrochureServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
