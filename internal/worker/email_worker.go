package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/cassiomorais/coursepay/internal/domain/user"
	"github.com/cassiomorais/coursepay/internal/infrastructure/observability"
	infraRedis "github.com/cassiomorais/coursepay/internal/infrastructure/redis"
	"github.com/cassiomorais/coursepay/internal/mail"
	"github.com/cassiomorais/coursepay/pkg/retry"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// StreamReader is the slice of the stream consumer the worker needs.
type StreamReader interface {
	Read(ctx context.Context) ([]redis.XStream, error)
	Pending(ctx context.Context, minIdleTime time.Duration) ([]redis.XPendingExt, error)
	Claim(ctx context.Context, minIdleTime time.Duration, messageIDs []string) ([]redis.XMessage, error)
	Ack(ctx context.Context, messageID string) error
}

// DLQPublisher parks events that exhausted their delivery retries.
type DLQPublisher interface {
	PublishToDLQ(ctx context.Context, reason string, values map[string]any) error
}

// EmailWorker consumes enrollment email events and delivers them over SMTP.
// The event carries identifiers only; the recipient address is re-fetched at
// send time so a changed email lands in the right inbox.
type EmailWorker struct {
	consumer StreamReader
	dlq      DLQPublisher
	users    user.Repository
	sender   mail.Sender
	metrics  *observability.Metrics
	logger   zerolog.Logger
	retryCfg retry.Config
}

func NewEmailWorker(
	consumer StreamReader,
	dlq DLQPublisher,
	users user.Repository,
	sender mail.Sender,
	metrics *observability.Metrics,
	logger zerolog.Logger,
	retryCfg retry.Config,
) *EmailWorker {
	return &EmailWorker{
		consumer: consumer,
		dlq:      dlq,
		users:    users,
		sender:   sender,
		metrics:  metrics,
		logger:   logger,
		retryCfg: retryCfg,
	}
}

// Run reads from the stream until the context is cancelled. Every message is
// acked exactly once: delivered, or parked in the DLQ.
func (w *EmailWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		streams, err := w.consumer.Read(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			w.logger.Error().Err(err).Msg("failed to read from email stream")
			time.Sleep(1 * time.Second)
			continue
		}

		for _, stream := range streams {
			for _, msg := range stream.Messages {
				w.handleMessage(ctx, msg.ID, msg.Values)
			}
		}
	}
}

// RunReclaimer periodically takes over messages left pending by consumers
// that died mid-delivery and processes them on this instance.
func (w *EmailWorker) RunReclaimer(ctx context.Context, interval, minIdle time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		pending, err := w.consumer.Pending(ctx, minIdle)
		if err != nil {
			w.logger.Error().Err(err).Msg("failed to list pending messages")
			continue
		}
		if len(pending) == 0 {
			continue
		}

		ids := make([]string, 0, len(pending))
		for _, p := range pending {
			ids = append(ids, p.ID)
		}

		claimed, err := w.consumer.Claim(ctx, minIdle, ids)
		if err != nil {
			w.logger.Error().Err(err).Msg("failed to claim pending messages")
			continue
		}

		w.logger.Info().Int("count", len(claimed)).Msg("reclaimed stale email events")
		for _, msg := range claimed {
			w.handleMessage(ctx, msg.ID, msg.Values)
		}
	}
}

// handleMessage delivers one event and acks it exactly once: sent, or parked
// in the DLQ.
func (w *EmailWorker) handleMessage(ctx context.Context, msgID string, values map[string]any) {
	start := time.Now()

	if err := w.ProcessMessage(ctx, values); err != nil {
		w.logger.Error().Err(err).Str("message_id", msgID).Msg("failed to deliver enrollment email")
		w.metrics.WorkerMessagesProcessed.WithLabelValues(infraRedis.EmailStream, "error").Inc()
		if dlqErr := w.dlq.PublishToDLQ(ctx, err.Error(), values); dlqErr != nil {
			w.logger.Error().Err(dlqErr).Str("message_id", msgID).Msg("failed to park message in DLQ")
		}
	} else {
		w.metrics.WorkerMessagesProcessed.WithLabelValues(infraRedis.EmailStream, "success").Inc()
	}
	w.metrics.WorkerProcessingDuration.WithLabelValues(infraRedis.EmailStream).Observe(time.Since(start).Seconds())

	if err := w.consumer.Ack(ctx, msgID); err != nil {
		w.logger.Error().Err(err).Str("message_id", msgID).Msg("failed to ack message")
	}
}

// ProcessMessage delivers one enrollment email event.
func (w *EmailWorker) ProcessMessage(ctx context.Context, values map[string]any) error {
	userID, _ := values["user_id"].(string)
	courseName, _ := values["course_name"].(string)
	if userID == "" || courseName == "" {
		return fmt.Errorf("malformed email event: user_id=%q course_name=%q", userID, courseName)
	}

	u, err := w.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("fetch recipient %s: %w", userID, err)
	}

	subject := mail.EnrollmentSubject(courseName)
	body := mail.EnrollmentBody(courseName, u.FirstName)

	err = retry.Do(ctx, w.retryCfg, func() error {
		return w.sender.Send(ctx, u.Email, subject, body)
	})
	if err != nil {
		w.metrics.EmailsSent.WithLabelValues("failed").Inc()
		return fmt.Errorf("send enrollment email to %s: %w", u.Email, err)
	}

	w.metrics.EmailsSent.WithLabelValues("sent").Inc()
	w.logger.Info().
		Str("user_id", userID).
		Str("course_name", courseName).
		Msg("enrollment email sent")
	return nil
}
