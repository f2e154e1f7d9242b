package cache

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// RedisCache is the Redis-backed cache store, used when a cache DSN is
// configured. Redis owns TTL enforcement and single-key atomicity.
type RedisCache struct {
	client     *redis.Client
	defaultTTL time.Duration
}

// NewRedisCache connects to the Redis instance described by dsn
// (redis://host:port/db) and verifies the connection with a ping.
func NewRedisCache(ctx context.Context, dsn string, defaultTTL time.Duration) (*RedisCache, error) {
	opts, err := redis.ParseURL(dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "parse redis dsn %s", dsn)
	}
	if defaultTTL <= 0 {
		defaultTTL = 6 * time.Hour
	}

	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, errors.Wrap(err, "ping redis")
	}

	return &RedisCache{client: client, defaultTTL: defaultTTL}, nil
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "redis get %s", key)
	}
	return value, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return errors.Wrapf(err, "redis set %s", key)
	}
	return nil
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
