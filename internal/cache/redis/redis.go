package redis

import (
	"context"
	"errors"
	"time"

	"github.com/jonathan/applicant-ranker/internal/cache"

	"github.com/redis/go-redis/v9"
)

type Cache struct {
	client *redis.Client
	opts   cache.Options
}

func New(opts cache.Options) *Cache {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.RedisURL,
		Password: opts.RedisPassword,
		DB:       opts.RedisDB,
	})

	return &Cache{client: client, opts: opts}
}

// Ping verifies the server is reachable.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *Cache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	if key == "" {
		return cache.ErrInvalidKey
	}
	if ttl == 0 {
		ttl = c.opts.DefaultTTL
	}
	return c.client.Set(ctx, c.opts.KeyPrefix+key, value, ttl).Err()
}

func (c *Cache) Get(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", cache.ErrInvalidKey
	}
	val, err := c.client.Get(ctx, c.opts.KeyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", cache.ErrNotFound
	}
	if errors.Is(err, redis.ErrClosed) {
		return "", cache.ErrClosed
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (c *Cache) Close() error {
	return c.client.Close()
}
