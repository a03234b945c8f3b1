package progress

import "context"

// Repository defines the interface for progress persistence.
type Repository interface {
	// Upsert stores the record, keyed on (course_id, user_id). Re-running
	// enrollment for the same pair must not create a second record.
	Upsert(ctx context.Context, p *Progress) error

	// GetByCourseAndUser retrieves the record for a (course, user) pair.
	// Returns nil without error when no record exists.
	GetByCourseAndUser(ctx context.Context, courseID, userID string) (*Progress, error)
}
