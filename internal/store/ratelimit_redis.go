package store

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

var errUnexpectedScriptResult = errors.New("unexpected script result type")

// RateLimitRedisStore is a Redis-backed implementation of ratelimit.Store.
// Counters are shared across server instances, unlike the in-memory store.
type RateLimitRedisStore struct {
	client *redis.Client
	script *redis.Script
}

// Sliding window over a sorted set: prune entries older than the window,
// add the current request, return the count. Runs as a single script so
// concurrent requests cannot interleave between prune and count.
var slidingWindowScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])

redis.call('ZREMRANGEBYSCORE', key, 0, now - window)
redis.call('ZADD', key, now, now .. '-' .. redis.call('INCR', key .. ':seq'))
redis.call('PEXPIRE', key, window)
redis.call('PEXPIRE', key .. ':seq', window)

return redis.call('ZCARD', key)
`)

// NewRateLimitRedisStore creates a new Redis rate limit store.
func NewRateLimitRedisStore(client *redis.Client) *RateLimitRedisStore {
	return &RateLimitRedisStore{
		client: client,
		script: slidingWindowScript,
	}
}

func (s *RateLimitRedisStore) Record(ctx context.Context, key string, window time.Duration) (int64, error) {
	now := time.Now().UnixMilli()

	res, err := s.script.Run(ctx, s.client,
		[]string{"ratelimit:" + key},
		strconv.FormatInt(now, 10),
		strconv.FormatInt(window.Milliseconds(), 10),
	).Result()
	if err != nil {
		return 0, err
	}

	count, ok := res.(int64)
	if !ok {
		return 0, errUnexpectedScriptResult
	}

	return count, nil
}
