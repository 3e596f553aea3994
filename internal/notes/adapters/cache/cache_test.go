package cache_test

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"thinkboard/internal/notes/adapters/cache"
	"thinkboard/internal/notes/config"
)

func mockRedisServer(t *testing.T) (*miniredis.Miniredis, *config.RedisConfig) {
	t.Helper()

	s, err := miniredis.Run()
	require.NoError(t, err)

	t.Cleanup(func() {
		s.Close()
	})

	host, portStr, _ := strings.Cut(s.Addr(), ":")
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	cfg := &config.RedisConfig{
		Host:           host,
		Port:           port,
		ConnectTimeout: 2 * time.Second,
		ReadTimeout:    time.Second,
		WriteTimeout:   time.Second,
		PoolSize:       5,
		DefaultTTL:     10 * time.Minute,
	}

	return s, cfg
}

func TestNewRedisCache(t *testing.T) {
	ctx := context.Background()

	t.Run("connects and closes", func(t *testing.T) {
		_, cfg := mockRedisServer(t)

		redisCache, err := cache.NewRedisCache(ctx, cfg)

		require.NoError(t, err)
		require.NotNil(t, redisCache)
		assert.NoError(t, redisCache.Close())
	})

	t.Run("connection failure", func(t *testing.T) {
		cfg := &config.RedisConfig{
			Host:           "nonexistent.host",
			Port:           12345,
			ConnectTimeout: 100 * time.Millisecond,
			ReadTimeout:    100 * time.Millisecond,
			WriteTimeout:   100 * time.Millisecond,
		}

		redisCache, err := cache.NewRedisCache(ctx, cfg)

		require.Error(t, err)
		assert.Nil(t, redisCache)
		assert.Contains(t, err.Error(), "failed to connect to redis")
	})
}

func TestRedisCache_GetSet(t *testing.T) {
	ctx := context.Background()
	s, cfg := mockRedisServer(t)

	redisCache, err := cache.NewRedisCache(ctx, cfg)
	require.NoError(t, err)
	defer func() { assert.NoError(t, redisCache.Close()) }()

	t.Run("missing key is not an error", func(t *testing.T) {
		value, err := redisCache.Get(ctx, "share:unknown")

		require.NoError(t, err)
		assert.Empty(t, value)
	})

	t.Run("roundtrip with explicit ttl", func(t *testing.T) {
		require.NoError(t, redisCache.Set(ctx, "share:tok", "note-1", 2*time.Minute))

		value, err := redisCache.Get(ctx, "share:tok")

		require.NoError(t, err)
		assert.Equal(t, "note-1", value)
		assert.InDelta(t, (2 * time.Minute).Seconds(), s.TTL("share:tok").Seconds(), 5.0)
	})

	t.Run("zero ttl falls back to default", func(t *testing.T) {
		require.NoError(t, redisCache.Set(ctx, "share:default", "note-2", 0))

		assert.InDelta(t, cfg.DefaultTTL.Seconds(), s.TTL("share:default").Seconds(), 5.0)
	})
}

func TestRedisCache_Delete(t *testing.T) {
	ctx := context.Background()
	_, cfg := mockRedisServer(t)

	redisCache, err := cache.NewRedisCache(ctx, cfg)
	require.NoError(t, err)
	defer func() { assert.NoError(t, redisCache.Close()) }()

	require.NoError(t, redisCache.Set(ctx, "share:tok", "note-1", time.Minute))
	require.NoError(t, redisCache.Delete(ctx, "share:tok"))

	value, err := redisCache.Get(ctx, "share:tok")

	require.NoError(t, err)
	assert.Empty(t, value)
}
