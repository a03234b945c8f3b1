package checkout

import (
	"time"

	"github.com/cassiomorais/coursepay/internal/domain/errors"
)

// Status represents the checkout status in the state machine.
type Status string

const (
	StatusPending   Status = "pending"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
	StatusEnrolled  Status = "enrolled"
)

// Checkout records one payment attempt for a cart of courses. It is keyed by
// the gateway-issued intent ID and doubles as the idempotency record for
// verification: once it reaches enrolled, repeated confirmations replay the
// outcome instead of re-running enrollment.
type Checkout struct {
	IntentID    string
	UserID      string
	CourseIDs   []string
	AmountCents int64
	Currency    string
	Status      Status
	LastError   *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	EnrolledAt  *time.Time
}

// New creates a pending checkout for a freshly created payment intent.
func New(intentID, userID string, courseIDs []string, amountCents int64, currency string) (*Checkout, error) {
	if intentID == "" {
		return nil, errors.ErrMissingIntentID
	}
	if userID == "" {
		return nil, errors.ErrMissingUserID
	}
	if len(courseIDs) == 0 {
		return nil, errors.ErrEmptyCourseList
	}
	if amountCents <= 0 {
		return nil, errors.NewValidationError("amount", "must be greater than 0")
	}
	if len(currency) != 3 {
		return nil, errors.NewValidationError("currency", "must be a 3-letter ISO code")
	}

	now := time.Now()
	return &Checkout{
		IntentID:    intentID,
		UserID:      userID,
		CourseIDs:   append([]string(nil), courseIDs...),
		AmountCents: amountCents,
		Currency:    currency,
		Status:      StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// CanTransitionTo checks if the checkout can transition to the given status.
func (c *Checkout) CanTransitionTo(newStatus Status) bool {
	transitions := map[Status][]Status{
		StatusPending:   {StatusSucceeded, StatusFailed},
		StatusSucceeded: {StatusEnrolled},
		StatusFailed:    {StatusSucceeded}, // client may retry payment on the same intent
		StatusEnrolled:  {},                // terminal
	}

	allowed, exists := transitions[c.Status]
	if !exists {
		return false
	}
	for _, s := range allowed {
		if s == newStatus {
			return true
		}
	}
	return false
}

// TransitionTo transitions the checkout to a new status.
func (c *Checkout) TransitionTo(newStatus Status) error {
	if !c.CanTransitionTo(newStatus) {
		return errors.NewDomainError(
			"invalid_transition",
			"cannot transition from "+string(c.Status)+" to "+string(newStatus),
			errors.ErrInvalidStateTransition,
		)
	}

	c.Status = newStatus
	c.UpdatedAt = time.Now()

	if newStatus == StatusEnrolled {
		now := time.Now()
		c.EnrolledAt = &now
	}
	return nil
}

// MarkSucceeded records that the gateway confirmed the intent.
func (c *Checkout) MarkSucceeded() error {
	return c.TransitionTo(StatusSucceeded)
}

// MarkFailed records a non-succeeded gateway status.
func (c *Checkout) MarkFailed(reason string) error {
	if err := c.TransitionTo(StatusFailed); err != nil {
		return err
	}
	c.LastError = &reason
	return nil
}

// MarkEnrolled records that enrollment side effects have been applied.
func (c *Checkout) MarkEnrolled() error {
	return c.TransitionTo(StatusEnrolled)
}

// IsEnrolled reports whether enrollment has already been applied.
func (c *Checkout) IsEnrolled() bool {
	return c.Status == StatusEnrolled
}
