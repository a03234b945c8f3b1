package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	domainErrors "github.com/cassiomorais/coursepay/internal/domain/errors"
	"github.com/cassiomorais/coursepay/internal/infrastructure/observability"
	"github.com/cassiomorais/coursepay/internal/testutil"
	"github.com/cassiomorais/coursepay/pkg/retry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	err   error
	calls int
	to    string
	body  string
}

func (s *recordingSender) Send(ctx context.Context, to, subject, htmlBody string) error {
	s.calls++
	s.to = to
	s.body = htmlBody
	return s.err
}

type recordingDLQ struct {
	reasons []string
}

func (d *recordingDLQ) PublishToDLQ(ctx context.Context, reason string, values map[string]any) error {
	d.reasons = append(d.reasons, reason)
	return nil
}

func newTestWorker(t *testing.T, sender *recordingSender) (*EmailWorker, *recordingDLQ) {
	t.Helper()

	dlq := &recordingDLQ{}
	users := testutil.NewMockUserRepository(testutil.NewTestUser("user-1", "ada@example.com"))
	metrics := observability.NewMetrics("test", prometheus.NewRegistry())

	w := NewEmailWorker(nil, dlq, users, sender, metrics, zerolog.Nop(), retry.Config{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		MaxDelay:     time.Millisecond,
	})
	return w, dlq
}

func TestProcessMessage_SendsToRecipient(t *testing.T) {
	sender := &recordingSender{}
	w, _ := newTestWorker(t, sender)

	err := w.ProcessMessage(context.Background(), map[string]any{
		"user_id":     "user-1",
		"course_id":   "course-1",
		"course_name": "Go Basics",
	})

	require.NoError(t, err)
	assert.Equal(t, 1, sender.calls)
	assert.Equal(t, "ada@example.com", sender.to)
	assert.Contains(t, sender.body, "Go Basics")
}

func TestProcessMessage_MalformedEvent(t *testing.T) {
	sender := &recordingSender{}
	w, _ := newTestWorker(t, sender)

	err := w.ProcessMessage(context.Background(), map[string]any{"user_id": "user-1"})

	require.Error(t, err)
	assert.Zero(t, sender.calls)
}

func TestProcessMessage_UnknownRecipient(t *testing.T) {
	sender := &recordingSender{}
	w, _ := newTestWorker(t, sender)

	err := w.ProcessMessage(context.Background(), map[string]any{
		"user_id":     "ghost",
		"course_name": "Go Basics",
	})

	assert.ErrorIs(t, err, domainErrors.ErrUserNotFound)
	assert.Zero(t, sender.calls)
}

func TestProcessMessage_RetriesBeforeFailing(t *testing.T) {
	sender := &recordingSender{err: errors.New("smtp: connection refused")}
	w, _ := newTestWorker(t, sender)

	err := w.ProcessMessage(context.Background(), map[string]any{
		"user_id":     "user-1",
		"course_name": "Go Basics",
	})

	require.Error(t, err)
	assert.Equal(t, 3, sender.calls)
}
