package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	cache := NewRedisCacheWithClient(client, DefaultCacheConfig())
	t.Cleanup(func() { cache.Close() })
	return cache, mr
}

func TestNewRedisCacheWithConfig(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	cache, err := NewRedisCacheWithConfig(RedisConfig{
		Addr:        mr.Addr(),
		CacheConfig: DefaultCacheConfig(),
	})
	require.NoError(t, err)
	defer cache.Close()
}

func TestNewRedisCacheWithConfig_ConnectionError(t *testing.T) {
	_, err := NewRedisCacheWithConfig(RedisConfig{
		Addr:        "localhost:99999", // Invalid port
		CacheConfig: DefaultCacheConfig(),
	})
	assert.Error(t, err)
}

func TestRedisCache_SetAndGet(t *testing.T) {
	cache, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "report", []byte("LG|GL"), time.Minute))

	got, err := cache.Get(ctx, "report")
	require.NoError(t, err)
	assert.Equal(t, []byte("LG|GL"), got)

	// stored under the prefix with the requested TTL
	assert.True(t, mr.Exists("chandas:report"))
	assert.Equal(t, time.Minute, mr.TTL("chandas:report"))
}

func TestRedisCache_DefaultTTL(t *testing.T) {
	cache, mr := setupTestRedis(t)

	require.NoError(t, cache.Set(context.Background(), "k", []byte("v"), 0))
	assert.Equal(t, DefaultCacheConfig().DefaultTTL, mr.TTL("chandas:k"))
}

func TestRedisCache_Expiration(t *testing.T) {
	cache, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", []byte("v"), time.Second))
	mr.FastForward(2 * time.Second)

	_, err := cache.Get(ctx, "k")
	assert.True(t, IsCacheMiss(err))
}

func TestRedisCache_ServerError(t *testing.T) {
	cache, mr := setupTestRedis(t)
	mr.SetError("LOADING")

	_, err := cache.Get(context.Background(), "k")
	require.Error(t, err)
	assert.False(t, IsCacheMiss(err))
}

func TestRedisCache_DeleteAndClear(t *testing.T) {
	cache, mr := setupTestRedis(t)
	ctx := context.Background()

	for i := 0; i < 250; i++ {
		require.NoError(t, cache.Set(ctx, fmt.Sprintf("k%d", i), []byte("v"), 0))
	}
	require.NoError(t, mr.Set("other:key", "kept"))

	require.NoError(t, cache.Delete(ctx, "k0"))
	assert.False(t, mr.Exists("chandas:k0"))

	require.NoError(t, cache.Clear(ctx))
	assert.Equal(t, []string{"other:key"}, mr.Keys())
}
