package checkout

import (
	"testing"

	domainErrors "github.com/cassiomorais/coursepay/internal/domain/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCheckout(t *testing.T) *Checkout {
	t.Helper()
	c, err := New("pi_test_123", "U1", []string{"C1", "C2"}, 3500, "usd")
	require.NoError(t, err)
	return c
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name      string
		intentID  string
		userID    string
		courseIDs []string
		amount    int64
		currency  string
		wantErr   error
	}{
		{"missing intent id", "", "U1", []string{"C1"}, 100, "usd", domainErrors.ErrMissingIntentID},
		{"missing user id", "pi_1", "", []string{"C1"}, 100, "usd", domainErrors.ErrMissingUserID},
		{"empty course list", "pi_1", "U1", nil, 100, "usd", domainErrors.ErrEmptyCourseList},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.intentID, tt.userID, tt.courseIDs, tt.amount, tt.currency)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestNew_InvalidAmount(t *testing.T) {
	_, err := New("pi_1", "U1", []string{"C1"}, 0, "usd")

	var validationErr *domainErrors.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "amount", validationErr.Field)
}

func TestCheckout_Lifecycle(t *testing.T) {
	c := newTestCheckout(t)
	assert.Equal(t, StatusPending, c.Status)

	require.NoError(t, c.MarkSucceeded())
	require.NoError(t, c.MarkEnrolled())

	assert.True(t, c.IsEnrolled())
	assert.NotNil(t, c.EnrolledAt)
}

func TestCheckout_FailedCanRetry(t *testing.T) {
	c := newTestCheckout(t)

	require.NoError(t, c.MarkFailed("card declined"))
	require.NotNil(t, c.LastError)
	assert.Equal(t, "card declined", *c.LastError)

	// a later confirmation of the same intent may still succeed
	require.NoError(t, c.MarkSucceeded())
}

func TestCheckout_EnrolledIsTerminal(t *testing.T) {
	c := newTestCheckout(t)
	require.NoError(t, c.MarkSucceeded())
	require.NoError(t, c.MarkEnrolled())

	err := c.MarkSucceeded()
	assert.ErrorIs(t, err, domainErrors.ErrInvalidStateTransition)
}

func TestCheckout_CannotEnrollBeforeSuccess(t *testing.T) {
	c := newTestCheckout(t)

	err := c.MarkEnrolled()
	assert.ErrorIs(t, err, domainErrors.ErrInvalidStateTransition)
}
