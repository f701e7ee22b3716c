package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache shares reports between server instances through Redis.
type RedisCache struct {
	client *redis.Client
	config CacheConfig
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	// Addr is the Redis server address (host:port)
	Addr string
	// Password is the Redis password (optional)
	Password string
	// DB is the Redis database number
	DB int
	// CacheConfig holds common cache configuration
	CacheConfig CacheConfig
}

// DefaultRedisConfig returns a default Redis configuration
func DefaultRedisConfig() RedisConfig {
	return RedisConfig{
		Addr:        "localhost:6379",
		Password:    "",
		DB:          0,
		CacheConfig: DefaultCacheConfig(),
	}
}

const pingTimeout = 5 * time.Second

// NewRedisCacheWithConfig creates a new Redis cache with custom configuration
func NewRedisCacheWithConfig(config RedisConfig) (*RedisCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", config.Addr, err)
	}

	return &RedisCache{
		client: client,
		config: config.CacheConfig,
	}, nil
}

// NewRedisCacheWithClient creates a new Redis cache with an existing client
func NewRedisCacheWithClient(client *redis.Client, config CacheConfig) *RedisCache {
	return &RedisCache{
		client: client,
		config: config,
	}
}

// Get retrieves a value from the cache
func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	fullKey := r.config.Prefix + key

	value, err := r.client.Get(ctx, fullKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss{Key: key}
		}
		return nil, err
	}

	return value, nil
}

// Set stores a value in the cache with a TTL
func (r *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	fullKey := r.config.Prefix + key

	if ttl == 0 {
		ttl = r.config.DefaultTTL
	}

	return r.client.Set(ctx, fullKey, value, ttl).Err()
}

// Delete removes a value from the cache
func (r *RedisCache) Delete(ctx context.Context, key string) error {
	fullKey := r.config.Prefix + key
	return r.client.Del(ctx, fullKey).Err()
}

// clearBatch is how many keys Clear deletes per DEL
const clearBatch = 100

// Clear removes every value under the cache prefix. Keys are collected by
// a full SCAN first; deleting while the cursor is live makes SCAN skip keys.
func (r *RedisCache) Clear(ctx context.Context) error {
	var keys []string
	iter := r.client.Scan(ctx, 0, r.config.Prefix+"*", clearBatch).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan cache keys: %w", err)
	}

	for start := 0; start < len(keys); start += clearBatch {
		end := min(start+clearBatch, len(keys))
		if err := r.client.Del(ctx, keys[start:end]...).Err(); err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}
	}
	return nil
}

// Close closes the Redis connection
func (r *RedisCache) Close() error {
	return r.client.Close()
}
