package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*SeenCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewSeenCache(client, time.Hour), mr
}

func TestSeenCacheRoundTrip(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	seen, err := c.IsSeen(ctx, "tok-1")
	require.NoError(t, err)
	assert.False(t, seen)

	require.NoError(t, c.MarkSeen(ctx, "tok-1"))

	seen, err = c.IsSeen(ctx, "tok-1")
	require.NoError(t, err)
	assert.True(t, seen)

	// Other tokens are unaffected.
	seen, err = c.IsSeen(ctx, "tok-2")
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestSeenCacheTTL(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.MarkSeen(ctx, "tok-1"))

	mr.FastForward(2 * time.Hour)

	seen, err := c.IsSeen(ctx, "tok-1")
	require.NoError(t, err)
	assert.False(t, seen, "marker should expire after TTL")
}

func TestSeenCacheDown(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	mr.Close()

	_, err := c.IsSeen(ctx, "tok-1")
	assert.Error(t, err)
	assert.Error(t, c.MarkSeen(ctx, "tok-1"))
}
