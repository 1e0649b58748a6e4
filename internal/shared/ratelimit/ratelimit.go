// Package ratelimit meters callers against a shared budget. A request may
// consume more than one unit, so a batch of n ids costs n.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Algorithm defines the rate limiting algorithm to use.
type Algorithm string

const (
	// AlgorithmTokenBucket refills Limit units per Window up to Burst.
	AlgorithmTokenBucket Algorithm = "token_bucket"

	// AlgorithmFixedWindow counts units per Window. Allows bursts at window
	// boundaries.
	AlgorithmFixedWindow Algorithm = "fixed_window"
)

var ErrInvalidCost = errors.New("ratelimit: cost must be positive")

// Result contains the rate limit decision and metadata.
type Result struct {
	Allowed    bool
	Limit      int64
	Remaining  int64
	ResetAt    time.Time
	RetryAfter time.Duration
}

// Config configures the rate limiter.
type Config struct {
	Algorithm Algorithm

	// Limit is the number of units granted per Window.
	Limit int64

	Window time.Duration

	// Burst caps the token bucket. Defaults to Limit.
	Burst int64

	// OnLimited is called when a request is rejected.
	OnLimited func(ctx context.Context, key string, result Result)
}

// Store is the interface for rate limit storage backends.
// Implementations must be safe for concurrent use.
type Store interface {
	// Allow consumes cost units for key when the budget allows it.
	Allow(ctx context.Context, key string, config Config, cost int64) (Result, error)
	Reset(ctx context.Context, key string) error
	Close() error
}

type Limiter interface {
	AllowKey(ctx context.Context, key string) (Result, error)
	AllowN(ctx context.Context, key string, cost int64) (Result, error)
	ResetKey(ctx context.Context, key string) error
	Close() error
}

type limiter struct {
	store  Store
	config Config
}

// New creates a new rate limiter with the provided store and configuration.
func New(store Store, config Config) (Limiter, error) {
	if store == nil {
		return nil, fmt.Errorf("ratelimit: store is required")
	}

	if config.Limit <= 0 {
		return nil, fmt.Errorf("ratelimit: limit must be positive")
	}

	if config.Window <= 0 {
		return nil, fmt.Errorf("ratelimit: window must be positive")
	}

	switch config.Algorithm {
	case "":
		config.Algorithm = AlgorithmTokenBucket
	case AlgorithmTokenBucket, AlgorithmFixedWindow:
	default:
		return nil, fmt.Errorf("ratelimit: unknown algorithm %q", config.Algorithm)
	}

	if config.Burst <= 0 {
		config.Burst = config.Limit
	}

	return &limiter{
		store:  store,
		config: config,
	}, nil
}

func (l *limiter) AllowKey(ctx context.Context, key string) (Result, error) {
	return l.AllowN(ctx, key, 1)
}

func (l *limiter) AllowN(ctx context.Context, key string, cost int64) (Result, error) {
	if cost <= 0 {
		return Result{}, ErrInvalidCost
	}

	result, err := l.store.Allow(ctx, key, l.config, cost)
	if err != nil {
		return Result{}, fmt.Errorf("ratelimit: store error: %w", err)
	}

	if !result.Allowed && l.config.OnLimited != nil {
		l.config.OnLimited(ctx, key, result)
	}

	return result, nil
}

func (l *limiter) ResetKey(ctx context.Context, key string) error {
	return l.store.Reset(ctx, key)
}

func (l *limiter) Close() error {
	return l.store.Close()
}
