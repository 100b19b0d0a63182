package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedisUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := NewRedis(ctx, Options{Addr: "127.0.0.1:1"})
	assert.Error(t, err)
}

// Runs only when TEST_REDIS_ADDR points at a disposable server.
func TestRedisRoundTrip(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	r, err := NewRedis(ctx, Options{Addr: addr})
	require.NoError(t, err)
	defer r.Close()

	type plan struct {
		ID    uint   `json:"id"`
		Title string `json:"title"`
	}
	key := "test:plans"
	require.NoError(t, r.Set(ctx, key, []plan{{ID: 1, Title: "Basic"}}, time.Minute))

	var got []plan
	hit, err := r.Get(ctx, key, &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "Basic", got[0].Title)

	require.NoError(t, r.Invalidate(ctx, key))
	hit, err = r.Get(ctx, key, &got)
	require.NoError(t, err)
	assert.False(t, hit)
}
