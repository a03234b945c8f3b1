package service

import (
	"context"
	"errors"
	"testing"

	"github.com/cassiomorais/coursepay/internal/domain/checkout"
	"github.com/cassiomorais/coursepay/internal/domain/course"
	domainErrors "github.com/cassiomorais/coursepay/internal/domain/errors"
	"github.com/cassiomorais/coursepay/internal/domain/progress"
	"github.com/cassiomorais/coursepay/internal/gateway"
	"github.com/cassiomorais/coursepay/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type serviceFixture struct {
	svc       *CheckoutService
	courses   *testutil.MockCourseRepository
	users     *testutil.MockUserRepository
	progress  *testutil.MockProgressRepository
	checkouts *testutil.MockCheckoutRepository
	tx        *testutil.MockTxManager
	fakeGw    *testutil.FakeGateway
	emails    *testutil.MockEmailPublisher
	locker    *testutil.NoopLocker
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	f := &serviceFixture{
		courses: testutil.NewMockCourseRepository(
			testutil.NewTestCourse("course-1", "Go Basics", 20.00),
			testutil.NewTestCourse("course-2", "Advanced Go", 15.00),
		),
		users:     testutil.NewMockUserRepository(testutil.NewTestUser("user-1", "ada@example.com")),
		progress:  testutil.NewMockProgressRepository(),
		checkouts: testutil.NewMockCheckoutRepository(),
		tx:        &testutil.MockTxManager{},
		fakeGw:    testutil.NewFakeGateway(),
		emails:    &testutil.MockEmailPublisher{},
		locker:    &testutil.NoopLocker{},
	}
	f.svc = NewCheckoutService(
		f.courses, f.users, f.progress, f.checkouts,
		f.tx, gateway.NewFactory(f.fakeGw), f.emails, f.locker,
		"stripe", "usd",
	)
	return f
}

func TestCreatePaymentIntent_SumsPricesInCents(t *testing.T) {
	f := newServiceFixture(t)

	resp, err := f.svc.CreatePaymentIntent(context.Background(), CreateIntentRequest{
		UserID:    "user-1",
		CourseIDs: []string{"course-1", "course-2"},
	})

	require.NoError(t, err)
	assert.Equal(t, int64(3500), resp.AmountCents)
	assert.Equal(t, "usd", resp.Currency)
	assert.Equal(t, "pi_test_123", resp.IntentID)
	assert.NotEmpty(t, resp.ClientSecret)

	rec, err := f.checkouts.GetByIntentID(context.Background(), "pi_test_123")
	require.NoError(t, err)
	assert.Equal(t, checkout.StatusPending, rec.Status)
	assert.Equal(t, []string{"course-1", "course-2"}, rec.CourseIDs)
	assert.Equal(t, int64(3500), rec.AmountCents)
}

func TestCreatePaymentIntent_ValidatesInput(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreatePaymentIntent(ctx, CreateIntentRequest{CourseIDs: []string{"course-1"}})
	assert.ErrorIs(t, err, domainErrors.ErrMissingUserID)

	_, err = f.svc.CreatePaymentIntent(ctx, CreateIntentRequest{UserID: "user-1"})
	assert.ErrorIs(t, err, domainErrors.ErrEmptyCourseList)
}

func TestCreatePaymentIntent_UnknownCourseAbortsBeforeGateway(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.svc.CreatePaymentIntent(context.Background(), CreateIntentRequest{
		UserID:    "user-1",
		CourseIDs: []string{"course-1", "missing"},
	})

	assert.ErrorIs(t, err, domainErrors.ErrCourseNotFound)
	assert.Empty(t, f.fakeGw.CreatedIntents)
}

func TestCreatePaymentIntent_GatewayErrorIsWrapped(t *testing.T) {
	f := newServiceFixture(t)
	f.fakeGw.CreateErr = errors.New("connection refused")

	_, err := f.svc.CreatePaymentIntent(context.Background(), CreateIntentRequest{
		UserID:    "user-1",
		CourseIDs: []string{"course-1"},
	})

	assert.ErrorIs(t, err, domainErrors.ErrGatewayUnavailable)
}

func TestVerifyPayment_EnrollsInAllCourses(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreatePaymentIntent(ctx, CreateIntentRequest{
		UserID:    "user-1",
		CourseIDs: []string{"course-1", "course-2"},
	})
	require.NoError(t, err)

	resp, err := f.svc.VerifyPayment(ctx, VerifyRequest{
		UserID:    "user-1",
		IntentID:  created.IntentID,
		CourseIDs: []string{"course-1", "course-2"},
	})

	require.NoError(t, err)
	assert.True(t, resp.Verified)
	assert.Equal(t, "Payment Verified", resp.Message)
	assert.False(t, resp.AlreadyProcessed)
	require.Len(t, resp.Courses, 2)
	for _, r := range resp.Courses {
		assert.True(t, r.Enrolled, "course %s", r.CourseID)
		assert.Empty(t, r.Reason)
	}
	assert.Equal(t, "Go Basics", resp.Courses[0].CourseName)

	c1, err := f.courses.GetByID(ctx, "course-1")
	require.NoError(t, err)
	assert.True(t, c1.HasStudent("user-1"))

	u, err := f.users.GetByID(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, u.HasCourse("course-1"))
	assert.True(t, u.HasCourse("course-2"))

	assert.Equal(t, 2, f.progress.Count())
	assert.Len(t, f.emails.Published(), 2)

	rec, err := f.checkouts.GetByIntentID(ctx, created.IntentID)
	require.NoError(t, err)
	assert.Equal(t, checkout.StatusEnrolled, rec.Status)
	assert.Equal(t, 1, f.locker.Released)
}

func TestVerifyPayment_SecondCallReplaysWithoutSideEffects(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreatePaymentIntent(ctx, CreateIntentRequest{
		UserID:    "user-1",
		CourseIDs: []string{"course-1"},
	})
	require.NoError(t, err)

	req := VerifyRequest{UserID: "user-1", IntentID: created.IntentID, CourseIDs: []string{"course-1"}}
	_, err = f.svc.VerifyPayment(ctx, req)
	require.NoError(t, err)

	resp, err := f.svc.VerifyPayment(ctx, req)
	require.NoError(t, err)
	assert.True(t, resp.Verified)
	assert.True(t, resp.AlreadyProcessed)

	assert.Len(t, f.fakeGw.ConfirmedIDs, 1, "gateway confirmed only once")
	assert.Len(t, f.emails.Published(), 1, "email queued only once")
	assert.Equal(t, 1, f.progress.Count())
}

func TestVerifyPayment_FailedPaymentDoesNotEnroll(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	f.fakeGw.ConfirmStatus = gateway.IntentFailed

	created, err := f.svc.CreatePaymentIntent(ctx, CreateIntentRequest{
		UserID:    "user-1",
		CourseIDs: []string{"course-1"},
	})
	require.NoError(t, err)

	resp, err := f.svc.VerifyPayment(ctx, VerifyRequest{
		UserID:    "user-1",
		IntentID:  created.IntentID,
		CourseIDs: []string{"course-1"},
	})

	require.NoError(t, err)
	assert.False(t, resp.Verified)
	assert.Equal(t, "Payment Failed", resp.Message)

	c1, err := f.courses.GetByID(ctx, "course-1")
	require.NoError(t, err)
	assert.False(t, c1.HasStudent("user-1"))
	assert.Empty(t, f.emails.Published())

	rec, err := f.checkouts.GetByIntentID(ctx, created.IntentID)
	require.NoError(t, err)
	assert.Equal(t, checkout.StatusFailed, rec.Status)
}

func TestVerifyPayment_FailedPaymentCanBeRetried(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()
	f.fakeGw.ConfirmStatus = gateway.IntentFailed

	created, err := f.svc.CreatePaymentIntent(ctx, CreateIntentRequest{
		UserID:    "user-1",
		CourseIDs: []string{"course-1"},
	})
	require.NoError(t, err)

	req := VerifyRequest{UserID: "user-1", IntentID: created.IntentID, CourseIDs: []string{"course-1"}}
	resp, err := f.svc.VerifyPayment(ctx, req)
	require.NoError(t, err)
	require.False(t, resp.Verified)

	f.fakeGw.ConfirmStatus = gateway.IntentSucceeded
	resp, err = f.svc.VerifyPayment(ctx, req)
	require.NoError(t, err)
	assert.True(t, resp.Verified)
	require.Len(t, resp.Courses, 1)
	assert.True(t, resp.Courses[0].Enrolled)
}

func TestVerifyPayment_ResumesAfterEnrolledUpdateFailure(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreatePaymentIntent(ctx, CreateIntentRequest{
		UserID:    "user-1",
		CourseIDs: []string{"course-1"},
	})
	require.NoError(t, err)

	req := VerifyRequest{UserID: "user-1", IntentID: created.IntentID, CourseIDs: []string{"course-1"}}

	f.tx.Err = errors.New("connection reset by peer")
	_, err = f.svc.VerifyPayment(ctx, req)
	require.Error(t, err)

	rec, err := f.checkouts.GetByIntentID(ctx, created.IntentID)
	require.NoError(t, err)
	require.Equal(t, checkout.StatusSucceeded, rec.Status, "payment confirmation must survive the crash")

	f.tx.Err = nil
	resp, err := f.svc.VerifyPayment(ctx, req)
	require.NoError(t, err, "a paid checkout must stay verifiable after a partial failure")
	assert.True(t, resp.Verified)
	assert.False(t, resp.AlreadyProcessed)
	require.Len(t, resp.Courses, 1)
	assert.True(t, resp.Courses[0].Enrolled)

	rec, err = f.checkouts.GetByIntentID(ctx, created.IntentID)
	require.NoError(t, err)
	assert.Equal(t, checkout.StatusEnrolled, rec.Status)

	// re-running enrollment upserts, so the pair still has exactly one record
	var progressRepo progress.Repository = f.progress
	p, err := progressRepo.GetByCourseAndUser(ctx, "course-1", "user-1")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "course-1", p.CourseID)
	assert.Equal(t, "user-1", p.UserID)
	assert.Equal(t, 1, f.progress.Count())
}

func TestVerifyPayment_ValidatesInput(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	_, err := f.svc.VerifyPayment(ctx, VerifyRequest{IntentID: "pi_x", CourseIDs: []string{"c"}})
	assert.ErrorIs(t, err, domainErrors.ErrMissingUserID)

	_, err = f.svc.VerifyPayment(ctx, VerifyRequest{UserID: "user-1", CourseIDs: []string{"c"}})
	assert.ErrorIs(t, err, domainErrors.ErrMissingIntentID)

	_, err = f.svc.VerifyPayment(ctx, VerifyRequest{UserID: "user-1", IntentID: "pi_x"})
	assert.ErrorIs(t, err, domainErrors.ErrEmptyCourseList)
}

func TestVerifyPayment_UnknownIntent(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.svc.VerifyPayment(context.Background(), VerifyRequest{
		UserID:    "user-1",
		IntentID:  "pi_unknown",
		CourseIDs: []string{"course-1"},
	})

	assert.ErrorIs(t, err, domainErrors.ErrCheckoutNotFound)
}

func TestVerifyPayment_RejectsDifferentUser(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreatePaymentIntent(ctx, CreateIntentRequest{
		UserID:    "user-1",
		CourseIDs: []string{"course-1"},
	})
	require.NoError(t, err)

	_, err = f.svc.VerifyPayment(ctx, VerifyRequest{
		UserID:    "user-2",
		IntentID:  created.IntentID,
		CourseIDs: []string{"course-1"},
	})

	assert.ErrorIs(t, err, domainErrors.ErrCheckoutMismatch)
	assert.Empty(t, f.fakeGw.ConfirmedIDs)
}

func TestVerifyPayment_LockContention(t *testing.T) {
	f := newServiceFixture(t)
	f.locker.Denied = true

	_, err := f.svc.VerifyPayment(context.Background(), VerifyRequest{
		UserID:    "user-1",
		IntentID:  "pi_test_123",
		CourseIDs: []string{"course-1"},
	})

	assert.ErrorIs(t, err, domainErrors.ErrLockAcquisitionFailed)
}

func TestVerifyPayment_PartialEnrollmentFailureContinues(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreatePaymentIntent(ctx, CreateIntentRequest{
		UserID:    "user-1",
		CourseIDs: []string{"course-1", "course-2"},
	})
	require.NoError(t, err)

	f.courses.AddStudentFunc = func(ctx context.Context, courseID, userID string) (*course.Course, error) {
		if courseID == "course-2" {
			return nil, domainErrors.ErrStoreUnavailable
		}
		return f.courses.GetByID(ctx, courseID)
	}

	resp, err := f.svc.VerifyPayment(ctx, VerifyRequest{
		UserID:    "user-1",
		IntentID:  created.IntentID,
		CourseIDs: []string{"course-1", "course-2"},
	})

	require.NoError(t, err)
	assert.True(t, resp.Verified)
	require.Len(t, resp.Courses, 2)
	assert.True(t, resp.Courses[0].Enrolled)
	assert.False(t, resp.Courses[1].Enrolled)
	assert.Equal(t, "store_error", resp.Courses[1].Reason)

	assert.Len(t, f.emails.Published(), 1, "only the enrolled course is notified")

	rec, err := f.checkouts.GetByIntentID(ctx, created.IntentID)
	require.NoError(t, err)
	assert.Equal(t, checkout.StatusEnrolled, rec.Status)
}

func TestVerifyPayment_UsesRecordedCartNotRequestCart(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	created, err := f.svc.CreatePaymentIntent(ctx, CreateIntentRequest{
		UserID:    "user-1",
		CourseIDs: []string{"course-1"},
	})
	require.NoError(t, err)

	resp, err := f.svc.VerifyPayment(ctx, VerifyRequest{
		UserID:    "user-1",
		IntentID:  created.IntentID,
		CourseIDs: []string{"course-1", "course-2"},
	})

	require.NoError(t, err)
	require.Len(t, resp.Courses, 1)
	assert.Equal(t, "course-1", resp.Courses[0].CourseID)

	c2, err := f.courses.GetByID(ctx, "course-2")
	require.NoError(t, err)
	assert.False(t, c2.HasStudent("user-1"), "unpaid course must not be enrolled")
}
