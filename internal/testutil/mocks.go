// Package testutil provides mocks and fixtures shared by unit tests.
package testutil

import (
	"context"
	"sync"

	"github.com/cassiomorais/coursepay/internal/domain/checkout"
	"github.com/cassiomorais/coursepay/internal/domain/course"
	domainErrors "github.com/cassiomorais/coursepay/internal/domain/errors"
	"github.com/cassiomorais/coursepay/internal/domain/progress"
	"github.com/cassiomorais/coursepay/internal/domain/user"
	"github.com/cassiomorais/coursepay/internal/gateway"
)

// MockCourseRepository is an in-memory course.Repository. Any function field
// left nil falls back to the map-backed default behavior.
type MockCourseRepository struct {
	mu      sync.Mutex
	courses map[string]*course.Course

	GetByIDFunc    func(ctx context.Context, id string) (*course.Course, error)
	AddStudentFunc func(ctx context.Context, courseID, userID string) (*course.Course, error)
}

func NewMockCourseRepository(courses ...*course.Course) *MockCourseRepository {
	m := &MockCourseRepository{courses: make(map[string]*course.Course)}
	for _, c := range courses {
		m.courses[c.ID] = c
	}
	return m
}

func (m *MockCourseRepository) GetByID(ctx context.Context, id string) (*course.Course, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.courses[id]
	if !ok {
		return nil, domainErrors.ErrCourseNotFound
	}
	return c, nil
}

func (m *MockCourseRepository) AddStudent(ctx context.Context, courseID, userID string) (*course.Course, error) {
	if m.AddStudentFunc != nil {
		return m.AddStudentFunc(ctx, courseID, userID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.courses[courseID]
	if !ok {
		return nil, domainErrors.ErrCourseNotFound
	}
	if !c.HasStudent(userID) {
		c.StudentsEnrolled = append(c.StudentsEnrolled, userID)
	}
	return c, nil
}

// MockUserRepository is an in-memory user.Repository.
type MockUserRepository struct {
	mu    sync.Mutex
	users map[string]*user.User

	GetByIDFunc   func(ctx context.Context, id string) (*user.User, error)
	AddCourseFunc func(ctx context.Context, userID, courseID string) (*user.User, error)
}

func NewMockUserRepository(users ...*user.User) *MockUserRepository {
	m := &MockUserRepository{users: make(map[string]*user.User)}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, domainErrors.ErrUserNotFound
	}
	return u, nil
}

func (m *MockUserRepository) AddCourse(ctx context.Context, userID, courseID string) (*user.User, error) {
	if m.AddCourseFunc != nil {
		return m.AddCourseFunc(ctx, userID, courseID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[userID]
	if !ok {
		return nil, domainErrors.ErrUserNotFound
	}
	if !u.HasCourse(courseID) {
		u.Courses = append(u.Courses, courseID)
	}
	return u, nil
}

// MockProgressRepository is an in-memory progress.Repository keyed on
// (course, user).
type MockProgressRepository struct {
	mu      sync.Mutex
	records map[string]*progress.Progress

	UpsertFunc func(ctx context.Context, p *progress.Progress) error
}

func NewMockProgressRepository() *MockProgressRepository {
	return &MockProgressRepository{records: make(map[string]*progress.Progress)}
}

func progressKey(courseID, userID string) string { return courseID + "/" + userID }

func (m *MockProgressRepository) Upsert(ctx context.Context, p *progress.Progress) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, p)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := progressKey(p.CourseID, p.UserID)
	if existing, ok := m.records[key]; ok {
		existing.UpdatedAt = p.UpdatedAt
		return nil
	}
	m.records[key] = p
	return nil
}

func (m *MockProgressRepository) GetByCourseAndUser(ctx context.Context, courseID, userID string) (*progress.Progress, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.records[progressKey(courseID, userID)], nil
}

// Count returns the number of stored progress records.
func (m *MockProgressRepository) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}

// MockCheckoutRepository is an in-memory checkout.Repository.
type MockCheckoutRepository struct {
	mu        sync.Mutex
	checkouts map[string]*checkout.Checkout

	CreateFunc func(ctx context.Context, c *checkout.Checkout) error
	UpdateFunc func(ctx context.Context, c *checkout.Checkout) error
}

func NewMockCheckoutRepository(checkouts ...*checkout.Checkout) *MockCheckoutRepository {
	m := &MockCheckoutRepository{checkouts: make(map[string]*checkout.Checkout)}
	for _, c := range checkouts {
		m.checkouts[c.IntentID] = c
	}
	return m
}

func (m *MockCheckoutRepository) Create(ctx context.Context, c *checkout.Checkout) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, c)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checkouts[c.IntentID] = c
	return nil
}

func (m *MockCheckoutRepository) GetByIntentID(ctx context.Context, intentID string) (*checkout.Checkout, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.checkouts[intentID]
	if !ok {
		return nil, domainErrors.ErrCheckoutNotFound
	}
	return c, nil
}

func (m *MockCheckoutRepository) Update(ctx context.Context, c *checkout.Checkout) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, c)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.checkouts[c.IntentID]; !ok {
		return domainErrors.ErrCheckoutNotFound
	}
	m.checkouts[c.IntentID] = c
	return nil
}

// FakeGateway is a deterministic gateway.Gateway for unit tests. Confirmed
// intents resolve to ConfirmStatus; CreateErr/ConfirmErr force failures.
type FakeGateway struct {
	GatewayName   string
	NextIntentID  string
	ConfirmStatus gateway.IntentStatus
	CreateErr     error
	ConfirmErr    error

	mu             sync.Mutex
	CreatedIntents []gateway.CreateIntentRequest
	ConfirmedIDs   []string
}

func NewFakeGateway() *FakeGateway {
	return &FakeGateway{
		GatewayName:   "stripe",
		NextIntentID:  "pi_test_123",
		ConfirmStatus: gateway.IntentSucceeded,
	}
}

func (g *FakeGateway) Name() string { return g.GatewayName }

func (g *FakeGateway) CreateIntent(ctx context.Context, req gateway.CreateIntentRequest) (*gateway.Intent, error) {
	if g.CreateErr != nil {
		return nil, g.CreateErr
	}
	g.mu.Lock()
	g.CreatedIntents = append(g.CreatedIntents, req)
	g.mu.Unlock()
	return &gateway.Intent{
		ID:           g.NextIntentID,
		ClientSecret: g.NextIntentID + "_secret",
		AmountCents:  req.AmountCents,
		Currency:     req.Currency,
		Status:       gateway.IntentPending,
	}, nil
}

func (g *FakeGateway) ConfirmIntent(ctx context.Context, intentID string) (*gateway.Intent, error) {
	if g.ConfirmErr != nil {
		return nil, g.ConfirmErr
	}
	g.mu.Lock()
	g.ConfirmedIDs = append(g.ConfirmedIDs, intentID)
	g.mu.Unlock()
	return &gateway.Intent{ID: intentID, Status: g.ConfirmStatus}, nil
}

// MockTxManager runs the function directly, without a real transaction.
type MockTxManager struct {
	Err   error
	Calls int
}

func (m *MockTxManager) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.Calls++
	if m.Err != nil {
		return m.Err
	}
	return fn(ctx)
}

// MockEmailPublisher records published enrollment email events.
type MockEmailPublisher struct {
	mu     sync.Mutex
	Err    error
	Events []EmailEvent
}

// EmailEvent is one recorded publish call.
type EmailEvent struct {
	UserID     string
	CourseID   string
	CourseName string
}

func (m *MockEmailPublisher) PublishEnrollmentEmail(ctx context.Context, userID, courseID, courseName string) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, EmailEvent{UserID: userID, CourseID: courseID, CourseName: courseName})
	return nil
}

// Published returns a copy of the recorded events.
func (m *MockEmailPublisher) Published() []EmailEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]EmailEvent, len(m.Events))
	copy(out, m.Events)
	return out
}

// NoopLocker always grants the lock; set Acquired=false to simulate
// contention or Err to simulate a lock-store failure.
type NoopLocker struct {
	Denied   bool
	Err      error
	Released int
}

func (l *NoopLocker) TryLock(ctx context.Context, key string) (func(), bool, error) {
	if l.Err != nil {
		return nil, false, l.Err
	}
	if l.Denied {
		return nil, false, nil
	}
	return func() { l.Released++ }, true, nil
}
