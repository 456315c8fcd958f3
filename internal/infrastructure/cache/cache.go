// Package cache provides a cache-aside layer over Redis with an in-memory fallback.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrClosed is returned by operations on a closed cache
var ErrClosed = errors.New("cache: closed")

// Cache stores JSON-encodable values under string keys
type Cache interface {
	// Get decodes the value at key into dest and reports whether it was found
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	DeleteByPrefix(ctx context.Context, prefix string) error
	Ping(ctx context.Context) error
	Close() error
}

// Backend names reported by Kind
const (
	BackendRedis  = "redis"
	BackendMemory = "memory"
)
