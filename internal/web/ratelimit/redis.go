package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisLimiter is a sliding-window limiter shared by every server instance
// pointing at the same Redis.
type RedisLimiter struct {
	client *redis.Client
	config Config
	now    func() time.Time
}

// RedisConfig holds the Redis connection settings
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

const pingTimeout = 5 * time.Second

// slidingWindow trims entries older than the window, then records this
// request under a unique member if the key is under its limit. Returns
// {allowed, count}.
var slidingWindow = redis.NewScript(`
	local key = KEYS[1]
	local now = tonumber(ARGV[1])
	local window_start = tonumber(ARGV[2])
	local limit = tonumber(ARGV[3])
	local window = tonumber(ARGV[4])
	local member = ARGV[5]

	redis.call('ZREMRANGEBYSCORE', key, 0, window_start)
	local current = redis.call('ZCARD', key)

	if current < limit then
		redis.call('ZADD', key, now, member)
		redis.call('EXPIRE', key, window)
		return {1, current + 1}
	end
	return {0, current}
`)

// NewRedisLimiter connects to Redis and checks it is reachable
func NewRedisLimiter(config Config, redisConfig RedisConfig) (*RedisLimiter, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}

	client := redis.NewClient(&redis.Options{
		Addr:     redisConfig.Addr,
		Password: redisConfig.Password,
		DB:       redisConfig.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", redisConfig.Addr, err)
	}

	return NewRedisLimiterWithClient(client, config), nil
}

// NewRedisLimiterWithClient wraps an existing client, which Close will close
func NewRedisLimiterWithClient(client *redis.Client, config Config) *RedisLimiter {
	return &RedisLimiter{client: client, config: config, now: time.Now}
}

// Allow records a request for key if it is under the limit
func (r *RedisLimiter) Allow(ctx context.Context, key string) (*Info, error) {
	now := r.now()
	windowSeconds := int(r.config.Window.Seconds())
	if windowSeconds < 1 {
		windowSeconds = 1
	}

	result, err := slidingWindow.Run(ctx, r.client, []string{r.config.Prefix + key},
		now.UnixNano(),
		now.Add(-r.config.Window).UnixNano(),
		r.config.Limit,
		windowSeconds,
		uuid.NewString(),
	).Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("redis rate limit check failed: %w", err)
	}
	if len(result) != 2 {
		return nil, errors.New("unexpected redis script result")
	}

	return &Info{
		Limit:     r.config.Limit,
		Remaining: max(0, r.config.Limit-int(result[1])),
		ResetAt:   now.Add(r.config.Window),
		Allowed:   result[0] == 1,
	}, nil
}

// Reset forgets every request recorded for key
func (r *RedisLimiter) Reset(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.config.Prefix+key).Err()
}

// Close closes the Redis client
func (r *RedisLimiter) Close() error {
	return r.client.Close()
}
