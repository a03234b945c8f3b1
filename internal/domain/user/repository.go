package user

import "context"

// Repository defines the interface for user persistence.
type Repository interface {
	// GetByID retrieves a user by ID. Returns errors.ErrUserNotFound if no
	// user exists with that ID.
	GetByID(ctx context.Context, id string) (*User, error)

	// AddCourse adds the course to the user's enrolled set with set-union
	// semantics and returns the updated user.
	AddCourse(ctx context.Context, userID, courseID string) (*User, error)
}
