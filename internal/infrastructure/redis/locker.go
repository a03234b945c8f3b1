package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Locker hands out per-key distributed locks. It adapts DistributedLock to
// the try-lock shape the checkout service expects.
type Locker struct {
	client *redis.Client
	ttl    time.Duration
}

func NewLocker(client *redis.Client, ttl time.Duration) *Locker {
	return &Locker{client: client, ttl: ttl}
}

// TryLock makes a single acquisition attempt. Contended locks are reported
// via acquired=false, not retried; the caller decides whether to surface a
// conflict or back off.
func (l *Locker) TryLock(ctx context.Context, key string) (func(), bool, error) {
	lock := NewDistributedLock(l.client, key, l.ttl)

	acquired, err := lock.Acquire(ctx)
	if err != nil {
		return nil, false, err
	}
	if !acquired {
		return nil, false, nil
	}

	release := func() {
		// Release with a fresh context so a cancelled request still frees
		// the lock instead of waiting out the TTL.
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := lock.Release(releaseCtx); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("could not release lock")
		}
	}
	return release, true, nil
}
