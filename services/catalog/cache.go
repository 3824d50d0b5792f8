package catalog

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache wraps a Redis client for catalog reads. A nil *Cache is valid and
// means caching is disabled: every read goes straight to the database.
type Cache struct {
	Client *redis.Client
	TTL    time.Duration
}

// NewCache connects to Redis. Returns nil (cache disabled) when the URL is
// empty or the server is unreachable: the catalog stays correct without it.
func NewCache(url string, ttlSeconds int) *Cache {
	if url == "" {
		return nil
	}

	opts, err := redis.ParseURL(url)
	if err != nil {
		log.Printf("[CATALOG-CACHE] Invalid REDIS_URL, caching disabled: %v", err)
		return nil
	}

	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Printf("[CATALOG-CACHE] Redis unreachable, caching disabled: %v", err)
		client.Close()
		return nil
	}

	return &Cache{Client: client, TTL: time.Duration(ttlSeconds) * time.Second}
}

func (c *Cache) get(ctx context.Context, key string) (string, bool) {
	if c == nil {
		return "", false
	}
	val, err := c.Client.Get(ctx, key).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

func (c *Cache) set(ctx context.Context, key, val string) {
	if c == nil {
		return
	}
	if err := c.Client.Set(ctx, key, val, c.TTL).Err(); err != nil {
		log.Printf("[CATALOG-CACHE] Failed to set %s: %v", key, err)
	}
}

func (c *Cache) del(ctx context.Context, key string) {
	if c == nil {
		return
	}
	if err := c.Client.Del(ctx, key).Err(); err != nil {
		log.Printf("[CATALOG-CACHE] Failed to invalidate %s: %v", key, err)
	}
}
