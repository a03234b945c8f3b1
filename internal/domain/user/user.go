package user

import "time"

// User is a platform account owned by the document store.
type User struct {
	ID        string
	Email     string
	FirstName string
	LastName  string
	Courses   []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasCourse reports whether the course is already in the user's enrolled set.
func (u *User) HasCourse(courseID string) bool {
	for _, id := range u.Courses {
		if id == courseID {
			return true
		}
	}
	return false
}
