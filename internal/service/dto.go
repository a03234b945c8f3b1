package service

// CreateIntentRequest holds the input for quoting a cart and creating a
// payment intent.
type CreateIntentRequest struct {
	UserID    string
	CourseIDs []string
}

// CreateIntentResponse holds the gateway handle the client needs to complete
// payment out-of-band.
type CreateIntentResponse struct {
	IntentID     string
	ClientSecret string
	AmountCents  int64
	Currency     string
}

// VerifyRequest holds the input for confirming a payment intent.
type VerifyRequest struct {
	UserID    string
	IntentID  string
	CourseIDs []string
}

// CourseResult reports the enrollment outcome for one course in the batch.
type CourseResult struct {
	CourseID   string
	CourseName string
	Enrolled   bool
	Reason     string
}

// VerifyResponse holds the business outcome of a verification attempt.
// Verified=false with a nil error is a payment failure, not a transport one.
type VerifyResponse struct {
	Verified         bool
	Message          string
	AlreadyProcessed bool
	Courses          []CourseResult
}
