package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	keyPrefix    = "lock:application:"
	pollInterval = 25 * time.Millisecond
)

var ErrNotAcquired = errors.New("lock not acquired")

// releaseScript deletes the key only while it still holds our token, so an expired
// lock re-acquired by another instance is never dropped.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker serializes work on an application id across API instances.
type RedisLocker struct {
	rdb  redis.Cmdable
	ttl  time.Duration
	wait time.Duration
	log  *zap.Logger
}

// NewRedisLocker holds each lock for at most ttl and waits up to wait for it.
func NewRedisLocker(rdb redis.Cmdable, ttl, wait time.Duration, log *zap.Logger) *RedisLocker {
	if log == nil {
		log = zap.NewNop()
	}
	return &RedisLocker{rdb: rdb, ttl: ttl, wait: wait, log: log}
}

func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	k := keyPrefix + key
	token := uuid.NewString()

	ctx, cancel := context.WithTimeout(ctx, l.wait)
	defer cancel()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()
	for {
		ok, err := l.rdb.SetNX(ctx, k, token, l.ttl).Result()
		if err != nil && !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, context.Canceled) {
			return nil, fmt.Errorf("lock %s: %w", key, err)
		}
		if ok {
			return l.unlocker(k, token), nil
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("lock %s after %s: %w", key, l.wait, ErrNotAcquired)
		case <-ticker.C:
		}
	}
}

func (l *RedisLocker) unlocker(k, token string) func() {
	var once sync.Once
	return func() {
		once.Do(func() { l.release(k, token) })
	}
}

func (l *RedisLocker) release(k, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := releaseScript.Run(ctx, l.rdb, []string{k}, token).Err(); err != nil {
		l.log.Warn("release lock", zap.String("key", k), zap.Error(err))
	}
}
