package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/streamshare/subscription-manager/internal/core/ports"
)

const releaseTimeout = 2 * time.Second

// releaseScript deletes the lock only while it still holds our token, so an
// expired lock re-acquired by someone else is left alone.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// Locker hands out SET NX locks.
// Key format: lock:<key>
type Locker struct {
	client *redis.Client
	log    zerolog.Logger
}

func NewLocker(client *redis.Client, log zerolog.Logger) ports.Locker {
	return &Locker{client: client, log: log}
}

func (l *Locker) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), bool, error) {
	token := uuid.NewString()
	lockKey := lockKey(key)

	ok, err := l.client.SetNX(ctx, lockKey, token, ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, false, nil
	}

	release := func() {
		// The request context may already be done when release runs.
		ctx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
		defer cancel()
		if err := releaseScript.Run(ctx, l.client, []string{lockKey}, token).Err(); err != nil {
			l.log.Warn().Err(err).Str("key", lockKey).Msg("lock release failed, waiting for ttl")
		}
	}
	return release, true, nil
}

func lockKey(key string) string {
	return "lock:" + key
}
