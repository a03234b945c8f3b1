package errors

import (
	"errors"
	"fmt"
)

var (
	// Request errors
	ErrEmptyCourseList = errors.New("course list is empty")
	ErrMissingUserID   = errors.New("user id is required")
	ErrMissingIntentID = errors.New("payment intent id is required")
	ErrInvalidInput    = errors.New("invalid input")

	// Catalog errors
	ErrCourseNotFound = errors.New("could not find the course")
	ErrUserNotFound   = errors.New("user not found")

	// Store errors
	ErrStoreUnavailable = errors.New("document store unavailable")

	// Checkout errors
	ErrCheckoutNotFound       = errors.New("checkout not found")
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrCheckoutMismatch       = errors.New("checkout does not match request")

	// Gateway errors
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	ErrGatewayNotFound    = errors.New("payment gateway not found")
	ErrGatewayTimeout     = errors.New("gateway request timeout")

	// Lock errors
	ErrLockAcquisitionFailed = errors.New("failed to acquire lock")

	// Identity errors
	ErrUnauthorized = errors.New("unauthorized")
)

// DomainError wraps errors with additional context
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}
