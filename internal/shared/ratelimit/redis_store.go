package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const tokenBucketScript = `
local key = KEYS[1]
local limit = tonumber(ARGV[1])
local burst = tonumber(ARGV[2])
local window = tonumber(ARGV[3])
local now = tonumber(ARGV[4])
local requested = tonumber(ARGV[5])

local data = redis.call('HMGET', key, 'tokens', 'last_refill')
local tokens = tonumber(data[1]) or burst
local lastRefill = tonumber(data[2]) or now

local refillRate = limit / window
tokens = math.min(burst, tokens + ((now - lastRefill) * refillRate))

local allowed = 0
local retryAfter = 0

if tokens >= requested then
	tokens = tokens - requested
	allowed = 1
else
	retryAfter = (requested - tokens) / refillRate
end

redis.call('HSET', key, 'tokens', tokens, 'last_refill', now)
redis.call('PEXPIRE', key, window * 2)

return {allowed, math.floor(tokens), math.ceil(retryAfter)}
`

const fixedWindowScript = `
local key = KEYS[1]
local limit = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local requested = tonumber(ARGV[3])

local current = tonumber(redis.call('GET', key) or '0')
local ttl = redis.call('PTTL', key)
if ttl < 0 then
	ttl = window
end

if current + requested > limit then
	return {0, limit - current, ttl}
end

current = redis.call('INCRBY', key, requested)
if current == requested then
	redis.call('PEXPIRE', key, window)
end

return {1, limit - current, ttl}
`

// RedisStore is a distributed rate limit store shared by every replica.
type RedisStore struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

type RedisStoreOption func(*RedisStore)

func WithRedisPrefix(prefix string) RedisStoreOption {
	return func(s *RedisStore) {
		s.prefix = prefix
	}
}

func withRedisClock(now func() time.Time) RedisStoreOption {
	return func(s *RedisStore) {
		s.now = now
	}
}

func NewRedisStore(client *redis.Client, opts ...RedisStoreOption) *RedisStore {
	s := &RedisStore{
		client: client,
		prefix: "ratelimit",
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *RedisStore) Allow(ctx context.Context, key string, config Config, cost int64) (Result, error) {
	if s == nil || s.client == nil {
		return Result{}, errors.New("ratelimit: redis store is not initialized")
	}

	fullKey := s.prefix + ":" + key

	switch config.Algorithm {
	case AlgorithmFixedWindow:
		return s.fixedWindow(ctx, fullKey, config, cost)
	default:
		return s.tokenBucket(ctx, fullKey, config, cost)
	}
}

func (s *RedisStore) tokenBucket(ctx context.Context, key string, config Config, cost int64) (Result, error) {
	now := s.now()

	values, err := s.client.Eval(ctx, tokenBucketScript, []string{key},
		config.Limit,
		config.Burst,
		config.Window.Milliseconds(),
		now.UnixMilli(),
		cost,
	).Int64Slice()
	if err != nil {
		return Result{}, fmt.Errorf("ratelimit: redis eval failed: %w", err)
	}
	if len(values) != 3 {
		return Result{}, fmt.Errorf("ratelimit: unexpected script reply of %d values", len(values))
	}

	return Result{
		Allowed:    values[0] == 1,
		Limit:      config.Limit,
		Remaining:  values[1],
		ResetAt:    now.Add(config.Window),
		RetryAfter: time.Duration(values[2]) * time.Millisecond,
	}, nil
}

func (s *RedisStore) fixedWindow(ctx context.Context, key string, config Config, cost int64) (Result, error) {
	now := s.now()

	values, err := s.client.Eval(ctx, fixedWindowScript, []string{key},
		config.Limit,
		config.Window.Milliseconds(),
		cost,
	).Int64Slice()
	if err != nil {
		return Result{}, fmt.Errorf("ratelimit: redis eval failed: %w", err)
	}
	if len(values) != 3 {
		return Result{}, fmt.Errorf("ratelimit: unexpected script reply of %d values", len(values))
	}

	ttl := time.Duration(values[2]) * time.Millisecond
	result := Result{
		Allowed:   values[0] == 1,
		Limit:     config.Limit,
		Remaining: max(values[1], 0),
		ResetAt:   now.Add(ttl),
	}
	if !result.Allowed {
		result.RetryAfter = ttl
	}

	return result, nil
}

func (s *RedisStore) Reset(ctx context.Context, key string) error {
	if s == nil || s.client == nil {
		return errors.New("ratelimit: redis store is not initialized")
	}

	return s.client.Del(ctx, s.prefix+":"+key).Err()
}

// Close is a no-op; the client is owned by the application lifecycle.
func (s *RedisStore) Close() error {
	return nil
}
