package company

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores remote name lookups between runs. Only names are cached;
// close prices are always fetched fresh.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// RedisCache is a Cache backed by Redis.
type RedisCache struct {
	Client *redis.Client
	Prefix string
}

// NewRedisCache connects lazily to the given Redis server.
func NewRedisCache(opt *redis.Options) *RedisCache {
	return &RedisCache{Client: redis.NewClient(opt), Prefix: "tradepulse:company:"}
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := c.Client.Get(ctx, c.Prefix+key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return v, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.Client.Set(ctx, c.Prefix+key, value, ttl).Err()
}

// Close releases the Redis connection pool.
func (c *RedisCache) Close() error {
	return c.Client.Close()
}
