package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	domainErrors "github.com/cassiomorais/coursepay/internal/domain/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteError_MapsDomainErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"course not found", domainErrors.ErrCourseNotFound, 404, "course_not_found"},
		{"wrapped course not found", fmt.Errorf("pricing: %w", domainErrors.ErrCourseNotFound), 404, "course_not_found"},
		{"checkout not found", domainErrors.ErrCheckoutNotFound, 404, "checkout_not_found"},
		{"empty course list", domainErrors.ErrEmptyCourseList, 400, "empty_course_list"},
		{"missing intent id", domainErrors.ErrMissingIntentID, 400, "missing_intent_id"},
		{"checkout mismatch", domainErrors.ErrCheckoutMismatch, 403, "forbidden"},
		{"lock contention", domainErrors.ErrLockAcquisitionFailed, 409, "verification_in_progress"},
		{"invalid transition", domainErrors.ErrInvalidStateTransition, 409, "invalid_state_transition"},
		{"gateway unavailable", domainErrors.ErrGatewayUnavailable, 503, "gateway_unavailable"},
		{"gateway timeout", domainErrors.ErrGatewayTimeout, 504, "gateway_timeout"},
		{"store unavailable", domainErrors.ErrStoreUnavailable, 503, "store_unavailable"},
		{"unauthorized", domainErrors.ErrUnauthorized, 401, "unauthorized"},
		{"validation error", domainErrors.NewValidationError("courses", "required"), 400, "validation_error"},
		{"unknown error", errors.New("boom"), 500, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantCode, resp.Code)
		})
	}
}

func TestWriteError_HidesInternalDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, errors.New("pgx: connection reset by peer"))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "internal server error", resp.Error)
	assert.NotContains(t, rec.Body.String(), "pgx")
}
