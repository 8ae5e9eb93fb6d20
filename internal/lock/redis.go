package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hotel-backend/internal/logger"

	"github.com/redis/go-redis/v9"
)

// ErrLocked is returned when another worker holds the key.
var ErrLocked = errors.New("lock held by another worker")

// Locker serializes concurrent work on the same key across processes.
type Locker interface {
	// Acquire takes the lock for key. The returned release func is safe to call once.
	Acquire(ctx context.Context, key string) (release func(), err error)
}

type RedisLocker struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisLocker(client *redis.Client, prefix string, ttl time.Duration) *RedisLocker {
	return &RedisLocker{client: client, prefix: prefix, ttl: ttl}
}

func (l *RedisLocker) Acquire(ctx context.Context, key string) (func(), error) {
	fullKey := l.prefix + key
	logger.ExternalServiceCall("redis", "SETNX", "key", fullKey)
	ok, err := l.client.SetNX(ctx, fullKey, "locked", l.ttl).Result()
	logger.ExternalServiceResult("redis", "SETNX", err, "key", fullKey, "acquired", ok)
	if err != nil {
		return nil, fmt.Errorf("acquire %s: %w", fullKey, err)
	}
	if !ok {
		return nil, ErrLocked
	}
	return func() {
		// The request context may already be cancelled when the caller releases.
		if err := l.client.Del(context.Background(), fullKey).Err(); err != nil {
			logger.Warn("Failed to release redis lock", "key", fullKey, "error", err)
		}
	}, nil
}

// NoopLocker is used when redis is not configured. The database unique
// constraint on the session id still rejects duplicate bookings.
type NoopLocker struct{}

func (NoopLocker) Acquire(ctx context.Context, key string) (func(), error) {
	return func() {}, nil
}
