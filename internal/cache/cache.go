// Package cache defines the key/value cache used to remember AI classification answers.
package cache

import (
	"context"
	"errors"
	"time"
)

// Errors returned by Cache implementations.
var (
	ErrNotFound   = errors.New("key not found in cache")
	ErrClosed     = errors.New("cache is closed")
	ErrInvalidKey = errors.New("invalid cache key")
)

// Cache stores string values with a TTL.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)

	Set(ctx context.Context, key string, value string, ttl time.Duration) error

	Close() error
}

// Options configures both cache backends. RedisURL is the Redis address.
type Options struct {
	DefaultTTL time.Duration

	RedisURL string

	RedisPassword string

	RedisDB int

	KeyPrefix string
}

// DefaultOptions returns a one-day TTL under the "ranker:" key prefix.
func DefaultOptions() Options {
	return Options{
		DefaultTTL: 24 * time.Hour,
		KeyPrefix:  "ranker:",
	}
}
