package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const cachePrefix = "vestlock:cache:"

// Cache is a Redis-backed string cache. The HTTP layer uses it to hold
// rendered consistency reports so repeated checks do not rescan the
// whole ledger.
type Cache struct {
	client *redis.Client
}

// NewCache creates a new Cache.
func NewCache(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// Get retrieves a value by key. Returns redis.Nil when the key is
// absent or expired.
func (c *Cache) Get(ctx context.Context, key string) (string, error) {
	return c.client.Get(ctx, cachePrefix+key).Result()
}

// Set stores a value with a TTL.
func (c *Cache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.client.Set(ctx, cachePrefix+key, value, ttl).Err()
}

// Delete removes a key. Mutating operations use it to drop the cached
// consistency report so the next check reads fresh books.
func (c *Cache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, cachePrefix+key).Err()
}
