package cache

import (
	"context"
	"time"

	"github.com/menswear/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// GetOrSet returns the cached value at key or computes, stores and returns it.
// Cache failures are logged and never fail the call; compute errors are
// returned and nothing is stored.
func GetOrSet[T any](ctx context.Context, c Cache, key string, ttl time.Duration, compute func(context.Context) (T, error)) (T, error) {
	var cached T
	found, err := c.Get(ctx, key, &cached)
	switch {
	case err != nil:
		recordLookup(key, resultError)
		logger.L(ctx).Warn("Cache read failed", zap.String("key", key), zap.Error(err))
	case found:
		recordLookup(key, resultHit)
		return cached, nil
	default:
		recordLookup(key, resultMiss)
	}

	value, err := compute(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	if err := c.Set(ctx, key, value, ttl); err != nil {
		recordLookup(key, resultError)
		logger.L(ctx).Warn("Cache write failed", zap.String("key", key), zap.Error(err))
	}
	return value, nil
}
