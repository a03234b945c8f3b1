package controller

import "github.com/cassiomorais/coursepay/internal/service"

// --- Request DTOs ---
// These DTOs handle HTTP/JSON concerns (string IDs, validation tags).
// Controllers convert these to service layer DTOs before calling business logic.

// CreateIntentRequest holds the input for quoting a cart.
type CreateIntentRequest struct {
	Courses []string `json:"courses" validate:"required,min=1,dive,required"`
}

// VerifyPaymentRequest holds the input for confirming a payment.
type VerifyPaymentRequest struct {
	IntentID string   `json:"intent_id" validate:"required"`
	Courses  []string `json:"courses" validate:"required,min=1,dive,required"`
}

// --- Response DTOs ---

// IntentResponse carries the gateway handle the client completes payment with.
type IntentResponse struct {
	IntentID     string `json:"intent_id"`
	ClientSecret string `json:"client_secret"`
	AmountCents  int64  `json:"amount_cents"`
	Currency     string `json:"currency"`
}

// CourseResultResponse reports one course's enrollment outcome.
type CourseResultResponse struct {
	CourseID   string `json:"course_id"`
	CourseName string `json:"course_name,omitempty"`
	Enrolled   bool   `json:"enrolled"`
	Reason     string `json:"reason,omitempty"`
}

// VerifyPaymentResponse reports the verification outcome.
type VerifyPaymentResponse struct {
	Verified         bool                   `json:"verified"`
	Message          string                 `json:"message"`
	AlreadyProcessed bool                   `json:"already_processed,omitempty"`
	Courses          []CourseResultResponse `json:"courses,omitempty"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// --- Conversion helpers ---

// FromIntent converts a service intent result to an API response.
func FromIntent(r *service.CreateIntentResponse) *IntentResponse {
	return &IntentResponse{
		IntentID:     r.IntentID,
		ClientSecret: r.ClientSecret,
		AmountCents:  r.AmountCents,
		Currency:     r.Currency,
	}
}

// FromVerify converts a service verification result to an API response.
func FromVerify(r *service.VerifyResponse) *VerifyPaymentResponse {
	resp := &VerifyPaymentResponse{
		Verified:         r.Verified,
		Message:          r.Message,
		AlreadyProcessed: r.AlreadyProcessed,
	}
	for _, c := range r.Courses {
		resp.Courses = append(resp.Courses, CourseResultResponse{
			CourseID:   c.CourseID,
			CourseName: c.CourseName,
			Enrolled:   c.Enrolled,
			Reason:     c.Reason,
		})
	}
	return resp
}
