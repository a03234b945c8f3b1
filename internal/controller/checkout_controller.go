package controller

import (
	"net/http"
	"time"

	domainErrors "github.com/cassiomorais/coursepay/internal/domain/errors"
	"github.com/cassiomorais/coursepay/internal/infrastructure/observability"
	"github.com/cassiomorais/coursepay/internal/middleware"
	"github.com/cassiomorais/coursepay/internal/service"
)

// CheckoutController handles checkout-related HTTP requests.
type CheckoutController struct {
	checkoutService *service.CheckoutService
	metrics         *observability.Metrics
}

// NewCheckoutController creates a new CheckoutController.
func NewCheckoutController(checkoutService *service.CheckoutService, metrics *observability.Metrics) *CheckoutController {
	return &CheckoutController{
		checkoutService: checkoutService,
		metrics:         metrics,
	}
}

// CreateIntent handles POST /api/v1/checkout/intents
func (h *CheckoutController) CreateIntent(w http.ResponseWriter, r *http.Request) {
	var req CreateIntentRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, domainErrors.ErrUnauthorized)
		return
	}

	start := time.Now()
	resp, err := h.checkoutService.CreatePaymentIntent(r.Context(), service.CreateIntentRequest{
		UserID:    userID,
		CourseIDs: req.Courses,
	})
	h.metrics.CheckoutDuration.WithLabelValues("create_intent").Observe(time.Since(start).Seconds())
	if err != nil {
		h.metrics.CheckoutsTotal.WithLabelValues("create_intent", "error").Inc()
		writeError(w, err)
		return
	}

	h.metrics.CheckoutsTotal.WithLabelValues("create_intent", "success").Inc()
	h.metrics.CheckoutAmount.WithLabelValues(resp.Currency).Observe(float64(resp.AmountCents))
	writeJSON(w, http.StatusCreated, FromIntent(resp))
}

// Verify handles POST /api/v1/checkout/verify
func (h *CheckoutController) Verify(w http.ResponseWriter, r *http.Request) {
	var req VerifyPaymentRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, domainErrors.ErrUnauthorized)
		return
	}

	start := time.Now()
	resp, err := h.checkoutService.VerifyPayment(r.Context(), service.VerifyRequest{
		UserID:    userID,
		IntentID:  req.IntentID,
		CourseIDs: req.Courses,
	})
	h.metrics.CheckoutDuration.WithLabelValues("verify").Observe(time.Since(start).Seconds())
	if err != nil {
		h.metrics.CheckoutsTotal.WithLabelValues("verify", "error").Inc()
		writeError(w, err)
		return
	}

	// A declined payment is a business outcome, not a transport error.
	outcome := "payment_failed"
	if resp.Verified {
		outcome = "success"
	}
	h.metrics.CheckoutsTotal.WithLabelValues("verify", outcome).Inc()
	writeJSON(w, http.StatusOK, FromVerify(resp))
}
