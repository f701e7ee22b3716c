// Package cache stores analysis reports keyed by a digest of their inputs.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Cache defines the interface for all cache backends
type Cache interface {
	// Get retrieves a value from the cache
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value in the cache with a TTL. A zero TTL means the
	// backend default.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value from the cache
	Delete(ctx context.Context, key string) error

	// Clear removes every value under the cache prefix
	Clear(ctx context.Context) error

	// Close releases the backend
	Close() error
}

// Backend names accepted by New
const (
	BackendNone   = "none"
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// CacheConfig holds common configuration for cache backends
type CacheConfig struct {
	// DefaultTTL is the default time-to-live for cached items
	DefaultTTL time.Duration
	// Prefix is prepended to all cache keys
	Prefix string
}

// DefaultCacheConfig returns a default cache configuration
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		DefaultTTL: 10 * time.Minute,
		Prefix:     "chandas:",
	}
}

// ErrCacheMiss is returned when a key is not found in the cache
type ErrCacheMiss struct {
	Key string
}

func (e ErrCacheMiss) Error() string {
	return "cache miss: " + e.Key
}

// IsCacheMiss checks if an error is a cache miss
func IsCacheMiss(err error) bool {
	_, ok := err.(ErrCacheMiss)
	return ok
}

// New builds the backend named by backend. Redis settings are only read
// for BackendRedis.
func New(backend string, config CacheConfig, redisConfig RedisConfig) (Cache, error) {
	switch backend {
	case BackendNone, "":
		return Nop{}, nil
	case BackendMemory:
		return NewMemoryCacheWithConfig(config), nil
	case BackendRedis:
		redisConfig.CacheConfig = config
		c, err := NewRedisCacheWithConfig(redisConfig)
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", backend)
	}
}

// GetJSON reads key and decodes it into v
func GetJSON(ctx context.Context, c Cache, key string, v any) error {
	data, err := c.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode cached %s: %w", key, err)
	}
	return nil
}

// SetJSON encodes v and stores it under key
func SetJSON(ctx context.Context, c Cache, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s for cache: %w", key, err)
	}
	return c.Set(ctx, key, data, ttl)
}

// Nop is a cache that stores nothing. Every Get is a miss.
type Nop struct{}

func (Nop) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, ErrCacheMiss{Key: key}
}

func (Nop) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return nil
}

func (Nop) Delete(ctx context.Context, key string) error { return nil }

func (Nop) Clear(ctx context.Context) error { return nil }

func (Nop) Close() error { return nil }
