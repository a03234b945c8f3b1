package checkout

import "context"

// Repository defines the interface for checkout persistence.
type Repository interface {
	// Create inserts a new checkout keyed by intent ID.
	Create(ctx context.Context, c *Checkout) error

	// GetByIntentID retrieves a checkout by the gateway intent ID. Returns
	// errors.ErrCheckoutNotFound if no checkout exists for that intent.
	GetByIntentID(ctx context.Context, intentID string) (*Checkout, error)

	// Update persists status changes for an existing checkout.
	Update(ctx context.Context, c *Checkout) error
}
