package gateway

import (
	"context"
	"testing"
	"time"

	domainErrors "github.com/cassiomorais/coursepay/internal/domain/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockGateway_CreateAndConfirm(t *testing.T) {
	g := NewMockGateway("stripe", WithLatency(0))

	intent, err := g.CreateIntent(context.Background(), CreateIntentRequest{
		AmountCents: 3500,
		Currency:    "usd",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, intent.ID)
	assert.NotEmpty(t, intent.ClientSecret)
	assert.Equal(t, int64(3500), intent.AmountCents)
	assert.Equal(t, IntentPending, intent.Status)

	confirmed, err := g.ConfirmIntent(context.Background(), intent.ID)
	require.NoError(t, err)
	assert.Equal(t, IntentSucceeded, confirmed.Status)
}

func TestMockGateway_ConfirmUnknownIntent(t *testing.T) {
	g := NewMockGateway("stripe", WithLatency(0))

	_, err := g.ConfirmIntent(context.Background(), "pi_missing")
	assert.ErrorIs(t, err, domainErrors.ErrGatewayNotFound)
}

func TestMockGateway_AlwaysDeclines(t *testing.T) {
	g := NewMockGateway("stripe", WithLatency(0), WithDeclineRate(1.0))

	intent, err := g.CreateIntent(context.Background(), CreateIntentRequest{AmountCents: 100, Currency: "usd"})
	require.NoError(t, err)

	confirmed, err := g.ConfirmIntent(context.Background(), intent.ID)
	require.NoError(t, err)
	assert.Equal(t, IntentFailed, confirmed.Status)
}

func TestMockGateway_AlwaysTimesOut(t *testing.T) {
	g := NewMockGateway("stripe", WithLatency(0), WithTimeoutRate(1.0))

	_, err := g.CreateIntent(context.Background(), CreateIntentRequest{AmountCents: 100, Currency: "usd"})
	assert.ErrorIs(t, err, domainErrors.ErrGatewayTimeout)
}

func TestMockGateway_ContextCancelled(t *testing.T) {
	g := NewMockGateway("stripe", WithLatency(5*time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.CreateIntent(ctx, CreateIntentRequest{AmountCents: 100, Currency: "usd"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFactory_GetRegisteredGateway(t *testing.T) {
	f := NewFactory(NewMockGateway("stripe", WithLatency(0)))

	g, breaker, err := f.Get("stripe")
	require.NoError(t, err)
	assert.Equal(t, "stripe", g.Name())
	assert.NotNil(t, breaker)
}

func TestFactory_UnknownGateway(t *testing.T) {
	f := NewFactory(NewMockGateway("stripe", WithLatency(0)))

	_, _, err := f.Get("paypal")
	assert.ErrorIs(t, err, domainErrors.ErrGatewayNotFound)
}
