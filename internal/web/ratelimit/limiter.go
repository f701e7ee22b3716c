// Package ratelimit throttles the API routes that call the upstream model.
package ratelimit

import (
	"context"
	"fmt"
	"time"
)

// Limiter decides whether a request identified by key may proceed
type Limiter interface {
	// Allow consumes one request for key and reports the resulting state
	Allow(ctx context.Context, key string) (*Info, error)

	// Close releases the backend
	Close() error
}

// Info contains information about the current rate limit state
type Info struct {
	// Limit is the maximum number of requests allowed in the window
	Limit int
	// Remaining is the number of requests remaining in the current window
	Remaining int
	// ResetAt is when the rate limit window resets
	ResetAt time.Time
	// Allowed indicates whether the request should be allowed
	Allowed bool
}

// Backend names accepted by New
const (
	BackendNone   = "none"
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Config holds the limit shared by every backend
type Config struct {
	// Limit is the number of requests allowed per key in each Window
	Limit int
	// Window is the period Limit applies to
	Window time.Duration
	// Prefix is prepended to Redis keys
	Prefix string
}

// DefaultConfig allows 10 requests per minute
func DefaultConfig() Config {
	return Config{
		Limit:  10,
		Window: time.Minute,
		Prefix: "chandas:ratelimit:",
	}
}

func (c Config) validate() error {
	if c.Limit <= 0 {
		return fmt.Errorf("limit must be greater than 0")
	}
	if c.Window <= 0 {
		return fmt.Errorf("window must be greater than 0")
	}
	return nil
}

// New builds the limiter named by backend. BackendNone returns a nil
// Limiter, meaning no limit. Redis settings are only read for BackendRedis.
func New(backend string, config Config, redisConfig RedisConfig) (Limiter, error) {
	switch backend {
	case BackendNone, "":
		return nil, nil
	case BackendMemory:
		if err := config.validate(); err != nil {
			return nil, err
		}
		return NewTokenBucket(config), nil
	case BackendRedis:
		limiter, err := NewRedisLimiter(config, redisConfig)
		if err != nil {
			return nil, err
		}
		return limiter, nil
	default:
		return nil, fmt.Errorf("unknown rate limit backend %q", backend)
	}
}
