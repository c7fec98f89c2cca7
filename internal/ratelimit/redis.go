package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"statusapi/internal/models"

	"github.com/redis/go-redis/v9"
)

// tokenBucketScript refills the bucket by whole intervals since the last
// refill, takes one token if available and returns
// {allowed, tokens_left, retry_after_ms}.
var tokenBucketScript = redis.NewScript(`
local key = KEYS[1]
local now_ms = tonumber(ARGV[1])
local capacity = tonumber(ARGV[2])
local interval_ms = tonumber(ARGV[3])
local ttl_seconds = tonumber(ARGV[4])

local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
local tokens = tonumber(state[1])
local last_refill = tonumber(state[2])

if tokens == nil or last_refill == nil then
	tokens = capacity
	last_refill = now_ms
end

local elapsed = math.max(0, now_ms - last_refill)
local intervals = math.floor(elapsed / interval_ms)
if intervals > 0 then
	tokens = math.min(capacity, tokens + intervals)
	last_refill = last_refill + (intervals * interval_ms)
end

local allowed = 0
local retry_after_ms = 0
if tokens > 0 then
	allowed = 1
	tokens = tokens - 1
else
	retry_after_ms = math.max(0, interval_ms - (now_ms - last_refill))
end

redis.call('HSET', key, 'tokens', tokens, 'last_refill_ms', last_refill)
redis.call('EXPIRE', key, ttl_seconds)

return { allowed, tokens, retry_after_ms }
`)

const redisPingTimeout = 2 * time.Second

// RedisLimiter keeps one token bucket per key in Redis so that limits hold
// across every task of the service.
type RedisLimiter struct {
	client   *redis.Client
	prefix   string
	limit    int
	burst    int
	interval time.Duration
	ttl      time.Duration
}

// NewRedisLimiter connects to Redis and verifies the connection with a ping.
func NewRedisLimiter(ctx context.Context, cfg models.RedisConfig, requestsPerMinute, burst int) (*RedisLimiter, error) {
	if requestsPerMinute <= 0 || burst <= 0 {
		return nil, fmt.Errorf("requests per minute and burst must be positive, got %d and %d", requestsPerMinute, burst)
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}

	return newRedisLimiter(client, cfg.KeyPrefix, requestsPerMinute, burst), nil
}

func newRedisLimiter(client *redis.Client, prefix string, requestsPerMinute, burst int) *RedisLimiter {
	interval := time.Minute / time.Duration(requestsPerMinute)
	if interval < time.Millisecond {
		interval = time.Millisecond
	}

	// Keep idle buckets around at least until they would be full again.
	ttl := time.Duration(burst) * interval
	if ttl < time.Minute {
		ttl = time.Minute
	}

	return &RedisLimiter{
		client:   client,
		prefix:   prefix,
		limit:    requestsPerMinute,
		burst:    burst,
		interval: interval,
		ttl:      ttl,
	}
}

// Allow runs the token bucket script for key.
func (r *RedisLimiter) Allow(ctx context.Context, key string) (bool, Info, error) {
	now := time.Now()
	args := []interface{}{
		now.UnixMilli(),
		r.burst,
		r.interval.Milliseconds(),
		int64(r.ttl / time.Second),
	}

	res, err := tokenBucketScript.Run(ctx, r.client, []string{r.key(key)}, args...).Result()
	if err != nil {
		return false, Info{}, fmt.Errorf("rate limit script for %s: %w", key, err)
	}

	allowed, remaining, retryMs, err := parseScriptResult(res)
	if err != nil {
		return false, Info{}, err
	}

	info := Info{
		Limit:     r.limit,
		Remaining: int(remaining),
		ResetAt:   now.Add(time.Duration(int64(r.burst)-remaining) * r.interval),
	}
	if !allowed {
		info.RetryAfter = time.Duration(retryMs) * time.Millisecond
	}

	return allowed, info, nil
}

// Close closes the Redis client.
func (r *RedisLimiter) Close() error {
	return r.client.Close()
}

func (r *RedisLimiter) key(key string) string {
	if r.prefix == "" {
		return key
	}
	return r.prefix + ":" + key
}

func parseScriptResult(res interface{}) (allowed bool, remaining, retryMs int64, err error) {
	arr, ok := res.([]interface{})
	if !ok || len(arr) != 3 {
		return false, 0, 0, fmt.Errorf("unexpected rate limit script result: %#v", res)
	}
	return asInt64(arr[0]) == 1, asInt64(arr[1]), asInt64(arr[2]), nil
}

func asInt64(v interface{}) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case float64:
		return int64(t)
	case string:
		if n, err := strconv.ParseInt(t, 10, 64); err == nil {
			return n
		}
	}
	return 0
}
