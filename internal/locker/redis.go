package locker

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/booking-site/internal/domain/booking"
	"github.com/BruksfildServices01/booking-site/internal/httperr"
)

const retryInterval = 25 * time.Millisecond

// Only the holder of the token may release the key.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker is a SET NX PX lock shared by every API instance.
type RedisLocker struct {
	rdb    *redis.Client
	ttl    time.Duration
	wait   time.Duration
	prefix string
	log    *zap.Logger
}

func NewRedisLocker(rdb *redis.Client, ttl, wait time.Duration, log *zap.Logger) *RedisLocker {
	if ttl <= 0 {
		ttl = 10 * time.Second
	}
	if wait <= 0 {
		wait = 3 * time.Second
	}
	return &RedisLocker{rdb: rdb, ttl: ttl, wait: wait, prefix: "lock:", log: log}
}

func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	full := l.prefix + key
	token := uuid.NewString()

	waitCtx, cancel := context.WithTimeout(ctx, l.wait)
	defer cancel()

	ticker := time.NewTicker(retryInterval)
	defer ticker.Stop()

	for {
		ok, err := l.rdb.SetNX(waitCtx, full, token, l.ttl).Result()
		if err != nil && waitCtx.Err() == nil {
			l.log.Error("redis lock error", zap.String("key", full), zap.Error(err))
			return nil, httperr.ErrUnavailable("booking_busy")
		}
		if ok {
			return func() { l.release(full, token) }, nil
		}

		select {
		case <-waitCtx.Done():
			l.log.Warn("redis lock wait elapsed", zap.String("key", full))
			return nil, httperr.ErrUnavailable("booking_busy")
		case <-ticker.C:
		}
	}
}

func (l *RedisLocker) release(key, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := releaseScript.Run(ctx, l.rdb, []string{key}, token).Err(); err != nil {
		l.log.Warn("redis unlock failed", zap.String("key", key), zap.Error(err))
	}
}

var _ booking.Locker = (*RedisLocker)(nil)
