package course

import (
	"math"
	"time"
)

// Course is a catalog entry owned by the document store. Price is kept in
// major currency units, as the catalog stores it; checkout converts to the
// gateway's minor unit.
type Course struct {
	ID               string
	Name             string
	Description      string
	Price            float64
	StudentsEnrolled []string
	CreatedAt        time.Time
	Archived         bool
}

// PriceCents returns the price converted to the currency's minor unit.
func (c *Course) PriceCents() int64 {
	return int64(math.Round(c.Price * 100))
}

// HasStudent reports whether the user is already in the enrolled set.
func (c *Course) HasStudent(userID string) bool {
	for _, id := range c.StudentsEnrolled {
		if id == userID {
			return true
		}
	}
	return false
}
