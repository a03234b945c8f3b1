package mail

import (
	"fmt"
	"html"
)

// EnrollmentSubject returns the subject line for an enrollment confirmation.
func EnrollmentSubject(courseName string) string {
	return fmt.Sprintf("Successfully Enrolled into %s", courseName)
}

// EnrollmentBody renders the enrollment confirmation email naming the course
// and the recipient's first name.
func EnrollmentBody(courseName, firstName string) string {
	courseName = html.EscapeString(courseName)
	firstName = html.EscapeString(firstName)

	return fmt.Sprintf(`<html>
<body style="font-family: Arial, sans-serif; color: #333;">
  <h2>Course Registration Confirmation</h2>
  <p>Dear %s,</p>
  <p>You have successfully registered for the course <strong>%s</strong>.
     Your progress tracker is ready and you can start learning right away.</p>
  <p>Happy learning!</p>
</body>
</html>`, firstName, courseName)
}
