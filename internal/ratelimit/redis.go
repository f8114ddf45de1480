package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var fixedWindowScript = redis.NewScript(`
-- KEYS[1] = counter key
-- ARGV[1] = ttl_ms (int)
--
-- Returns the attempt count within the current window.
local current = redis.call('INCR', KEYS[1])
if current == 1 then
  redis.call('PEXPIRE', KEYS[1], ARGV[1])
else
  -- Ensure TTL exists even if the key predates a crash without one.
  if redis.call('PTTL', KEYS[1]) < 0 then
    redis.call('PEXPIRE', KEYS[1], ARGV[1])
  end
end
return current
`)

// RedisLimiter is a fixed-window limiter shared across instances.
// Counting is atomic via Lua; the TTL bounds how long a lockout lasts.
type RedisLimiter struct {
	rdb    *redis.Client
	prefix string
	limit  int
	window time.Duration
}

func NewRedisLimiter(rdb *redis.Client, prefix string, limit int, window time.Duration) (*RedisLimiter, error) {
	if rdb == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit must be > 0")
	}
	if window <= 0 {
		return nil, fmt.Errorf("window must be > 0")
	}
	return &RedisLimiter{rdb: rdb, prefix: prefix, limit: limit, window: window}, nil
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, fmt.Errorf("key is required")
	}
	current, err := fixedWindowScript.Run(ctx, l.rdb, []string{l.prefix + key}, l.window.Milliseconds()).Int()
	if err != nil {
		return false, err
	}
	return current <= l.limit, nil
}
