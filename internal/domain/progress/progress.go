package progress

import (
	"time"

	"github.com/google/uuid"
)

// Progress tracks a user's position in a course. One record exists per
// (course, user) pair; it is created at enrollment with no completed videos.
type Progress struct {
	ID              uuid.UUID
	CourseID        string
	UserID          string
	CompletedVideos []string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// New creates an empty progress record for a fresh enrollment.
func New(courseID, userID string) *Progress {
	now := time.Now()
	return &Progress{
		ID:              uuid.New(),
		CourseID:        courseID,
		UserID:          userID,
		CompletedVideos: []string{},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}
