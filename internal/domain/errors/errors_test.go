package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *DomainError
		expected string
	}{
		{
			name: "with wrapped error",
			err: &DomainError{
				Code:    "gateway_failed",
				Message: "could not initiate payment",
				Err:     errors.New("gateway timeout"),
			},
			expected: "could not initiate payment: gateway timeout",
		},
		{
			name: "without wrapped error",
			err: &DomainError{
				Code:    "invalid_state",
				Message: "checkout already enrolled",
				Err:     nil,
			},
			expected: "checkout already enrolled",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestDomainError_Unwrap(t *testing.T) {
	originalErr := errors.New("original error")
	domainErr := NewDomainError("test", "test message", originalErr)

	assert.Equal(t, originalErr, domainErr.Unwrap())
	assert.True(t, errors.Is(domainErr, originalErr))
}

func TestValidationError_Error(t *testing.T) {
	err := NewValidationError("course_ids", "must not be empty")

	assert.Equal(t, "validation failed for field course_ids: must not be empty", err.Error())
}

func TestSentinelErrors_Distinct(t *testing.T) {
	// not-found during pricing must stay distinguishable from a store failure
	assert.False(t, errors.Is(ErrCourseNotFound, ErrStoreUnavailable))
	assert.False(t, errors.Is(ErrGatewayUnavailable, ErrStoreUnavailable))
}
