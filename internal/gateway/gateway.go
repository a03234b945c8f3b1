package gateway

import (
	"context"
)

// IntentStatus is the gateway-side lifecycle status of a payment intent.
type IntentStatus string

const (
	IntentPending   IntentStatus = "pending"
	IntentSucceeded IntentStatus = "succeeded"
	IntentFailed    IntentStatus = "failed"
)

// Intent is the gateway's view of an attempted charge.
type Intent struct {
	ID           string
	ClientSecret string
	AmountCents  int64
	Currency     string
	Status       IntentStatus
}

// CreateIntentRequest holds the input for creating a payment intent.
type CreateIntentRequest struct {
	AmountCents int64
	Currency    string
	Metadata    map[string]any
}

// Gateway is the payment provider port. It is injected into the checkout
// service so tests can substitute a fake.
type Gateway interface {
	// Name returns the gateway name.
	Name() string
	// CreateIntent creates a payment intent for the given amount.
	CreateIntent(ctx context.Context, req CreateIntentRequest) (*Intent, error)
	// ConfirmIntent confirms a previously created intent by ID and returns
	// its current status.
	ConfirmIntent(ctx context.Context, intentID string) (*Intent, error)
}
