package course

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCourse_PriceCents(t *testing.T) {
	tests := []struct {
		name     string
		price    float64
		expected int64
	}{
		{"whole amount", 20.00, 2000},
		{"fractional amount", 15.00, 1500},
		{"cents precision", 9.99, 999},
		{"rounding artifact", 19.999999999, 2000},
		{"free course", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Course{ID: "C1", Price: tt.price}
			assert.Equal(t, tt.expected, c.PriceCents())
		})
	}
}

func TestCourse_HasStudent(t *testing.T) {
	c := &Course{ID: "C1", StudentsEnrolled: []string{"U1", "U2"}}

	assert.True(t, c.HasStudent("U1"))
	assert.False(t, c.HasStudent("U3"))
}
