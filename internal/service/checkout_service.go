package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/cassiomorais/coursepay/internal/domain/checkout"
	"github.com/cassiomorais/coursepay/internal/domain/course"
	domainErrors "github.com/cassiomorais/coursepay/internal/domain/errors"
	"github.com/cassiomorais/coursepay/internal/domain/progress"
	"github.com/cassiomorais/coursepay/internal/domain/user"
	"github.com/cassiomorais/coursepay/internal/gateway"
	"github.com/rs/zerolog/log"
)

// CheckoutService implements the enrollment payment workflow: quote a cart,
// create a payment intent, verify it, and enroll the student on success.
type CheckoutService struct {
	courseRepo   course.Repository
	userRepo     user.Repository
	progressRepo progress.Repository
	checkoutRepo checkout.Repository
	txManager    TransactionManager
	gateways     *gateway.Factory
	emails       EmailPublisher
	locker       Locker
	gatewayName  string
	currency     string
}

// NewCheckoutService creates a new CheckoutService.
func NewCheckoutService(
	courseRepo course.Repository,
	userRepo user.Repository,
	progressRepo progress.Repository,
	checkoutRepo checkout.Repository,
	txManager TransactionManager,
	gateways *gateway.Factory,
	emails EmailPublisher,
	locker Locker,
	gatewayName string,
	currency string,
) *CheckoutService {
	return &CheckoutService{
		courseRepo:   courseRepo,
		userRepo:     userRepo,
		progressRepo: progressRepo,
		checkoutRepo: checkoutRepo,
		txManager:    txManager,
		gateways:     gateways,
		emails:       emails,
		locker:       locker,
		gatewayName:  gatewayName,
		currency:     currency,
	}
}

// CreatePaymentIntent prices the cart and creates a gateway payment intent.
// Pricing is fail-fast: a missing course aborts the whole request before any
// gateway call, with no partial totals.
func (s *CheckoutService) CreatePaymentIntent(ctx context.Context, req CreateIntentRequest) (*CreateIntentResponse, error) {
	if req.UserID == "" {
		return nil, domainErrors.ErrMissingUserID
	}
	if len(req.CourseIDs) == 0 {
		return nil, domainErrors.ErrEmptyCourseList
	}

	var totalCents int64
	for _, courseID := range req.CourseIDs {
		c, err := s.courseRepo.GetByID(ctx, courseID)
		if err != nil {
			return nil, err
		}
		totalCents += c.PriceCents()
	}

	gw, breaker, err := s.gateways.Get(s.gatewayName)
	if err != nil {
		return nil, err
	}

	intent, err := breaker.Execute(func() (*gateway.Intent, error) {
		return gw.CreateIntent(ctx, gateway.CreateIntentRequest{
			AmountCents: totalCents,
			Currency:    s.currency,
			Metadata:    map[string]any{"user_id": req.UserID},
		})
	})
	if err != nil {
		log.Error().Err(err).
			Str("gateway", s.gatewayName).
			Int64("amount_cents", totalCents).
			Msg("failed to create payment intent")
		return nil, fmt.Errorf("%w: %v", domainErrors.ErrGatewayUnavailable, err)
	}

	rec, err := checkout.New(intent.ID, req.UserID, req.CourseIDs, totalCents, s.currency)
	if err != nil {
		return nil, err
	}
	if err := s.checkoutRepo.Create(ctx, rec); err != nil {
		return nil, err
	}

	return &CreateIntentResponse{
		IntentID:     intent.ID,
		ClientSecret: intent.ClientSecret,
		AmountCents:  totalCents,
		Currency:     s.currency,
	}, nil
}

// VerifyPayment confirms the intent with the gateway and, on success, enrolls
// the student in every course of the recorded cart. The checkout record is
// the idempotency guard: a second verification of an enrolled intent replays
// the outcome without re-running side effects.
func (s *CheckoutService) VerifyPayment(ctx context.Context, req VerifyRequest) (*VerifyResponse, error) {
	if req.UserID == "" {
		return nil, domainErrors.ErrMissingUserID
	}
	if req.IntentID == "" {
		return nil, domainErrors.ErrMissingIntentID
	}
	if len(req.CourseIDs) == 0 {
		return nil, domainErrors.ErrEmptyCourseList
	}

	release, acquired, err := s.locker.TryLock(ctx, "checkout:"+req.IntentID)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, domainErrors.ErrLockAcquisitionFailed
	}
	defer release()

	rec, err := s.checkoutRepo.GetByIntentID(ctx, req.IntentID)
	if err != nil {
		return nil, err
	}
	if rec.UserID != req.UserID {
		return nil, domainErrors.ErrCheckoutMismatch
	}

	if rec.IsEnrolled() {
		return &VerifyResponse{
			Verified:         true,
			Message:          "Payment Verified",
			AlreadyProcessed: true,
		}, nil
	}

	gw, breaker, err := s.gateways.Get(s.gatewayName)
	if err != nil {
		return nil, err
	}

	intent, err := breaker.Execute(func() (*gateway.Intent, error) {
		return gw.ConfirmIntent(ctx, req.IntentID)
	})
	if err != nil {
		log.Error().Err(err).
			Str("intent_id", req.IntentID).
			Msg("failed to confirm payment intent")
		return nil, fmt.Errorf("%w: %v", domainErrors.ErrGatewayUnavailable, err)
	}

	if intent.Status != gateway.IntentSucceeded {
		if err := rec.MarkFailed(string(intent.Status)); err != nil {
			log.Warn().Err(err).Str("intent_id", req.IntentID).Msg("could not record failed payment")
		} else if err := s.checkoutRepo.Update(ctx, rec); err != nil {
			log.Warn().Err(err).Str("intent_id", req.IntentID).Msg("could not persist failed payment")
		}
		return &VerifyResponse{Verified: false, Message: "Payment Failed"}, nil
	}

	// A record already persisted as succeeded means an earlier verification
	// crashed between payment confirmation and the enrolled update; skip the
	// transition and resume enrollment.
	if rec.Status != checkout.StatusSucceeded {
		if err := rec.MarkSucceeded(); err != nil {
			return nil, err
		}
		if err := s.checkoutRepo.Update(ctx, rec); err != nil {
			return nil, err
		}
	}

	// The record holds the course list from quote time; enrolling from it
	// keeps the cart from being swapped between quote and verify.
	results := s.enrollStudent(ctx, rec.CourseIDs, req.UserID)

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := rec.MarkEnrolled(); err != nil {
			return err
		}
		return s.checkoutRepo.Update(txCtx, rec)
	})
	if err != nil {
		return nil, err
	}

	return &VerifyResponse{
		Verified: true,
		Message:  "Payment Verified",
		Courses:  results,
	}, nil
}

// enrollStudent applies enrollment side effects per course, sequentially and
// best-effort: a failure is logged and reported in the result list but never
// aborts the remaining courses.
func (s *CheckoutService) enrollStudent(ctx context.Context, courseIDs []string, userID string) []CourseResult {
	results := make([]CourseResult, 0, len(courseIDs))

	for _, courseID := range courseIDs {
		result := CourseResult{CourseID: courseID}

		c, err := s.courseRepo.AddStudent(ctx, courseID, userID)
		if err != nil {
			log.Error().Err(err).
				Str("course_id", courseID).
				Str("user_id", userID).
				Msg("could not enroll student in course")
			result.Reason = enrollFailureReason(err)
			results = append(results, result)
			continue
		}
		result.CourseName = c.Name

		if err := s.progressRepo.Upsert(ctx, progress.New(courseID, userID)); err != nil {
			log.Error().Err(err).
				Str("course_id", courseID).
				Str("user_id", userID).
				Msg("could not initialize course progress")
			result.Reason = enrollFailureReason(err)
			results = append(results, result)
			continue
		}

		if _, err := s.userRepo.AddCourse(ctx, userID, courseID); err != nil {
			log.Error().Err(err).
				Str("course_id", courseID).
				Str("user_id", userID).
				Msg("could not add course to user")
			result.Reason = enrollFailureReason(err)
			results = append(results, result)
			continue
		}

		// Store writes are committed; from here the enrollment counts even
		// if the notification cannot be queued.
		result.Enrolled = true
		if err := s.emails.PublishEnrollmentEmail(ctx, userID, courseID, c.Name); err != nil {
			log.Error().Err(err).
				Str("course_id", courseID).
				Str("user_id", userID).
				Msg("could not queue enrollment email")
		}

		results = append(results, result)
	}

	return results
}

func enrollFailureReason(err error) string {
	switch {
	case errors.Is(err, domainErrors.ErrCourseNotFound):
		return "course_not_found"
	case errors.Is(err, domainErrors.ErrUserNotFound):
		return "user_not_found"
	default:
		return "store_error"
	}
}
