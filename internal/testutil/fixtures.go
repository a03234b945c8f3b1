package testutil

import (
	"time"

	"github.com/cassiomorais/coursepay/internal/domain/course"
	"github.com/cassiomorais/coursepay/internal/domain/user"
)

// NewTestCourse builds a catalog course with a fixed creation time.
func NewTestCourse(id, name string, price float64) *course.Course {
	return &course.Course{
		ID:               id,
		Name:             name,
		Description:      "test course",
		Price:            price,
		StudentsEnrolled: []string{},
		CreatedAt:        time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC),
	}
}

// NewTestUser builds a platform user with no enrollments.
func NewTestUser(id, email string) *user.User {
	now := time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)
	return &user.User{
		ID:        id,
		Email:     email,
		FirstName: "Test",
		LastName:  "Student",
		Courses:   []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}
}
