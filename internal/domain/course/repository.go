package course

import "context"

// Repository defines the interface for course persistence.
type Repository interface {
	// GetByID retrieves a course by ID. Returns errors.ErrCourseNotFound
	// if no course exists with that ID.
	GetByID(ctx context.Context, id string) (*Course, error)

	// AddStudent adds the user to the course's enrolled set with set-union
	// semantics and returns the updated course. Adding an already-present
	// member is a no-op.
	AddStudent(ctx context.Context, courseID, userID string) (*Course, error)
}
