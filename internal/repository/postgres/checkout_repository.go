package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/cassiomorais/coursepay/internal/domain/checkout"
	domainErrors "github.com/cassiomorais/coursepay/internal/domain/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CheckoutRepository implements checkout.Repository using PostgreSQL.
type CheckoutRepository struct {
	pool *pgxpool.Pool
}

// NewCheckoutRepository creates a new CheckoutRepository.
func NewCheckoutRepository(pool *pgxpool.Pool) *CheckoutRepository {
	return &CheckoutRepository{pool: pool}
}

func (r *CheckoutRepository) db(ctx context.Context) DBTX {
	return ConnFromCtx(ctx, r.pool)
}

// Create inserts a new checkout keyed by the gateway intent ID.
func (r *CheckoutRepository) Create(ctx context.Context, c *checkout.Checkout) error {
	_, err := r.db(ctx).Exec(ctx,
		`INSERT INTO checkouts
		 (intent_id, user_id, course_ids, amount_cents, currency, status, last_error, created_at, updated_at, enrolled_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		c.IntentID, c.UserID, c.CourseIDs, c.AmountCents, c.Currency,
		string(c.Status), c.LastError, c.CreatedAt, c.UpdatedAt, c.EnrolledAt,
	)
	if err != nil {
		return fmt.Errorf("insert checkout: %w", err)
	}
	return nil
}

// GetByIntentID retrieves a checkout by gateway intent ID.
func (r *CheckoutRepository) GetByIntentID(ctx context.Context, intentID string) (*checkout.Checkout, error) {
	c := &checkout.Checkout{}
	var status string
	err := r.db(ctx).QueryRow(ctx,
		`SELECT intent_id, user_id, course_ids, amount_cents, currency, status, last_error, created_at, updated_at, enrolled_at
		 FROM checkouts WHERE intent_id = $1`, intentID,
	).Scan(&c.IntentID, &c.UserID, &c.CourseIDs, &c.AmountCents, &c.Currency,
		&status, &c.LastError, &c.CreatedAt, &c.UpdatedAt, &c.EnrolledAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrCheckoutNotFound
		}
		return nil, fmt.Errorf("get checkout: %w", err)
	}
	c.Status = checkout.Status(status)
	return c, nil
}

// Update persists status changes for an existing checkout.
func (r *CheckoutRepository) Update(ctx context.Context, c *checkout.Checkout) error {
	tag, err := r.db(ctx).Exec(ctx,
		`UPDATE checkouts
		 SET status = $2, last_error = $3, updated_at = $4, enrolled_at = $5
		 WHERE intent_id = $1`,
		c.IntentID, string(c.Status), c.LastError, c.UpdatedAt, c.EnrolledAt,
	)
	if err != nil {
		return fmt.Errorf("update checkout: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrCheckoutNotFound
	}
	return nil
}
