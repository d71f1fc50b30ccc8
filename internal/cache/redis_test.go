package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Runs against a real server: AWARDS_TEST_REDIS_URL=redis://localhost:6379/15
func TestRedis_RoundTrip(t *testing.T) {
	addr := os.Getenv("AWARDS_TEST_REDIS_URL")
	if addr == "" {
		t.Skip("AWARDS_TEST_REDIS_URL not set")
	}
	ctx := context.Background()

	r, err := NewRedis(ctx, addr, WithTTL(time.Minute))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = r.client.Del(ctx, Key("rates", "CAD"), Key("rates", "ZZZ")).Err()
		_ = r.Close()
	})

	_, ok := r.Get(ctx, "zzz")
	assert.False(t, ok)

	require.NoError(t, r.Set(ctx, "cad", 0.7312))
	rate, ok := r.Get(ctx, "CAD")
	require.True(t, ok)
	assert.Equal(t, 0.7312, rate)
	assert.Equal(t, 1, r.Len())

	ttl, err := r.client.TTL(ctx, Key("rates", "CAD")).Result()
	require.NoError(t, err)
	assert.LessOrEqual(t, ttl, time.Minute)
	assert.Positive(t, ttl)
}

func TestNewRedis_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := NewRedis(ctx, "redis://127.0.0.1:1/0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connect to redis at 127.0.0.1:1")
}
