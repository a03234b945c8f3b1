package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// EmailStream carries enrollment-confirmation email events. Enrollment
	// publishes here after store writes; the worker consumes and sends.
	EmailStream = "enrollment:emails"
	// DLQStream receives email events that exhausted their send retries.
	DLQStream = "enrollment:emails:dlq"
)

type StreamProducer struct {
	client *redis.Client
}

func NewStreamProducer(client *redis.Client) *StreamProducer {
	return &StreamProducer{client: client}
}

// PublishEnrollmentEmail queues an enrollment-confirmation email event. The
// worker re-fetches the user, so only identifiers and the course name travel
// on the stream.
func (p *StreamProducer) PublishEnrollmentEmail(ctx context.Context, userID, courseID, courseName string) error {
	args := &redis.XAddArgs{
		Stream: EmailStream,
		Values: map[string]any{
			"user_id":     userID,
			"course_id":   courseID,
			"course_name": courseName,
			"timestamp":   time.Now().Unix(),
		},
	}

	if _, err := p.client.XAdd(ctx, args).Result(); err != nil {
		return fmt.Errorf("failed to publish enrollment email event: %w", err)
	}
	return nil
}

// PublishToDLQ parks an email event that could not be delivered.
func (p *StreamProducer) PublishToDLQ(ctx context.Context, reason string, values map[string]any) error {
	dlqValues := map[string]any{
		"reason":    reason,
		"timestamp": time.Now().Unix(),
	}
	for k, v := range values {
		dlqValues[k] = v
	}

	args := &redis.XAddArgs{
		Stream: DLQStream,
		Values: dlqValues,
	}

	if _, err := p.client.XAdd(ctx, args).Result(); err != nil {
		return fmt.Errorf("failed to publish to DLQ: %w", err)
	}
	return nil
}

type StreamConsumer struct {
	client        *redis.Client
	stream        string
	group         string
	consumer      string
	batchSize     int64
	blockDuration time.Duration
}

func NewStreamConsumer(
	client *redis.Client,
	stream string,
	group string,
	consumer string,
	batchSize int64,
	blockDuration time.Duration,
) *StreamConsumer {
	return &StreamConsumer{
		client:        client,
		stream:        stream,
		group:         group,
		consumer:      consumer,
		batchSize:     batchSize,
		blockDuration: blockDuration,
	}
}

func (c *StreamConsumer) CreateGroup(ctx context.Context) error {
	const busyGroupMsg = "BUSYGROUP"
	err := c.client.XGroupCreateMkStream(ctx, c.stream, c.group, "0").Err()
	if err != nil && !strings.Contains(err.Error(), busyGroupMsg) {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}
	return nil
}

func (c *StreamConsumer) Read(ctx context.Context) ([]redis.XStream, error) {
	streams, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    c.group,
		Consumer: c.consumer,
		Streams:  []string{c.stream, ">"},
		Count:    c.batchSize,
		Block:    c.blockDuration,
	}).Result()

	if err != nil {
		if err == redis.Nil {
			// No new messages
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read from stream: %w", err)
	}

	return streams, nil
}

func (c *StreamConsumer) Ack(ctx context.Context, messageID string) error {
	if err := c.client.XAck(ctx, c.stream, c.group, messageID).Err(); err != nil {
		return fmt.Errorf("failed to ack message: %w", err)
	}
	return nil
}

// Pending lists messages delivered to the group but not yet acked for at
// least minIdleTime.
func (c *StreamConsumer) Pending(ctx context.Context, minIdleTime time.Duration) ([]redis.XPendingExt, error) {
	pending, err := c.client.XPendingExt(ctx, &redis.XPendingExtArgs{
		Stream: c.stream,
		Group:  c.group,
		Idle:   minIdleTime,
		Start:  "-",
		End:    "+",
		Count:  c.batchSize,
	}).Result()

	if err != nil {
		return nil, fmt.Errorf("failed to list pending messages: %w", err)
	}

	return pending, nil
}

// Claim takes over messages from consumers that died mid-delivery.
func (c *StreamConsumer) Claim(ctx context.Context, minIdleTime time.Duration, messageIDs []string) ([]redis.XMessage, error) {
	messages, err := c.client.XClaim(ctx, &redis.XClaimArgs{
		Stream:   c.stream,
		Group:    c.group,
		Consumer: c.consumer,
		MinIdle:  minIdleTime,
		Messages: messageIDs,
	}).Result()

	if err != nil {
		return nil, fmt.Errorf("failed to claim messages: %w", err)
	}

	return messages, nil
}
