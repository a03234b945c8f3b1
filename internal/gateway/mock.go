package gateway

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	domainErrors "github.com/cassiomorais/coursepay/internal/domain/errors"
	"github.com/google/uuid"
)

// MockGateway simulates a payment provider. Created intents are held in
// memory so that ConfirmIntent sees the amounts the intent was created with.
type MockGateway struct {
	name        string
	declineRate float64 // 0.0 to 1.0
	latency     time.Duration
	timeoutRate float64 // 0.0 to 1.0

	mu      sync.Mutex
	intents map[string]*Intent
}

type MockGatewayOption func(*MockGateway)

func WithDeclineRate(rate float64) MockGatewayOption {
	return func(g *MockGateway) { g.declineRate = rate }
}

func WithLatency(d time.Duration) MockGatewayOption {
	return func(g *MockGateway) { g.latency = d }
}

func WithTimeoutRate(rate float64) MockGatewayOption {
	return func(g *MockGateway) { g.timeoutRate = rate }
}

func NewMockGateway(name string, opts ...MockGatewayOption) *MockGateway {
	g := &MockGateway{
		name:        name,
		declineRate: 0.0,
		latency:     100 * time.Millisecond,
		timeoutRate: 0.0,
		intents:     make(map[string]*Intent),
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

func (g *MockGateway) Name() string { return g.name }

func (g *MockGateway) CreateIntent(ctx context.Context, req CreateIntentRequest) (*Intent, error) {
	if err := g.simulate(ctx); err != nil {
		return nil, err
	}

	id := fmt.Sprintf("pi_%s_%s", g.name, uuid.New().String()[:8])
	intent := &Intent{
		ID:           id,
		ClientSecret: fmt.Sprintf("%s_secret_%s", id, uuid.New().String()[:8]),
		AmountCents:  req.AmountCents,
		Currency:     req.Currency,
		Status:       IntentPending,
	}

	g.mu.Lock()
	g.intents[id] = intent
	g.mu.Unlock()

	return intent, nil
}

func (g *MockGateway) ConfirmIntent(ctx context.Context, intentID string) (*Intent, error) {
	if err := g.simulate(ctx); err != nil {
		return nil, err
	}

	g.mu.Lock()
	intent, ok := g.intents[intentID]
	g.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("intent %s: %w", intentID, domainErrors.ErrGatewayNotFound)
	}

	if rand.Float64() < g.declineRate {
		intent.Status = IntentFailed
	} else {
		intent.Status = IntentSucceeded
	}
	return intent, nil
}

func (g *MockGateway) simulate(ctx context.Context) error {
	select {
	case <-time.After(g.latency):
	case <-ctx.Done():
		return ctx.Err()
	}

	if rand.Float64() < g.timeoutRate {
		return domainErrors.ErrGatewayTimeout
	}
	return nil
}
