package mail

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnrollmentSubject(t *testing.T) {
	assert.Equal(t, "Successfully Enrolled into Go Basics", EnrollmentSubject("Go Basics"))
}

func TestEnrollmentBody_NamesCourseAndRecipient(t *testing.T) {
	body := EnrollmentBody("Go Basics", "Ada")

	assert.Contains(t, body, "Go Basics")
	assert.Contains(t, body, "Dear Ada,")
}

func TestEnrollmentBody_EscapesHTML(t *testing.T) {
	body := EnrollmentBody(`<script>alert("x")</script>`, "Ada & Co")

	assert.NotContains(t, body, "<script>")
	assert.Contains(t, body, "&lt;script&gt;")
	assert.Contains(t, body, "Ada &amp; Co")
}
