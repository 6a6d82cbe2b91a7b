// Package cache provides a Redis-backed cache of terminal seen state.
//
// Only positive ("seen") markers are ever stored. Seen is a terminal state
// that never reverts, so a cached positive cannot be stale; a miss simply
// falls through to the store. The cache is shared across recorder instances,
// not in-process state.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SeenCache implements track.SeenCache over Redis.
type SeenCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSeenCache creates a seen cache with the given entry TTL.
func NewSeenCache(client *redis.Client, ttl time.Duration) *SeenCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &SeenCache{client: client, ttl: ttl}
}

func seenKey(token string) string {
	return fmt.Sprintf("seen:%s", token)
}

// IsSeen reports whether the token is cached as seen.
func (c *SeenCache) IsSeen(ctx context.Context, token string) (bool, error) {
	n, err := c.client.Exists(ctx, seenKey(token)).Result()
	if err != nil {
		return false, fmt.Errorf("seen cache exists: %w", err)
	}
	return n == 1, nil
}

// MarkSeen records the token as seen. The value is the marker's write time,
// which is occasionally useful when inspecting the cache by hand.
func (c *SeenCache) MarkSeen(ctx context.Context, token string) error {
	at := time.Now().UTC().Format(time.RFC3339)
	if err := c.client.Set(ctx, seenKey(token), at, c.ttl).Err(); err != nil {
		return fmt.Errorf("seen cache set: %w", err)
	}
	return nil
}
