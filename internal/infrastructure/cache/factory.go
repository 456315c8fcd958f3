package cache

import (
	"context"
	"time"

	"github.com/menswear/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

const defaultConnectTimeout = 3 * time.Second

// Factory creates a Cache based on configuration
type Factory struct {
	redisConfig     config.RedisConfig
	logger          *zap.Logger
	connectTimeout  time.Duration
	cleanupInterval time.Duration
}

// FactoryOption is a functional option for configuring the factory
type FactoryOption func(*Factory)

// WithLogger sets the logger for the factory and the caches it builds
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *Factory) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithConnectTimeout bounds the Redis reachability check
func WithConnectTimeout(d time.Duration) FactoryOption {
	return func(f *Factory) {
		if d > 0 {
			f.connectTimeout = d
		}
	}
}

// WithCleanupInterval sets how often the memory fallback sweeps expired entries
func WithCleanupInterval(d time.Duration) FactoryOption {
	return func(f *Factory) {
		f.cleanupInterval = d
	}
}

// NewFactory creates a new factory
func NewFactory(cfg config.RedisConfig, opts ...FactoryOption) *Factory {
	f := &Factory{
		redisConfig:     cfg,
		logger:          zap.NewNop(),
		connectTimeout:  defaultConnectTimeout,
		cleanupInterval: defaultCleanupInterval,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Create returns a Redis cache when Redis is enabled and reachable, otherwise
// an in-memory cache. The second result names the chosen backend.
func (f *Factory) Create(ctx context.Context) (Cache, string) {
	if !f.redisConfig.Enabled {
		f.logger.Info("Redis disabled, using in-memory cache")
		return NewMemoryCache(f.cleanupInterval), BackendMemory
	}

	client := NewRedisClient(f.redisConfig)
	pingCtx, cancel := context.WithTimeout(ctx, f.connectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		f.logger.Warn("Redis unavailable, falling back to in-memory cache. "+
			"Cached data will not be shared across instances.",
			zap.String("addr", f.redisConfig.Addr()),
			zap.Error(err),
		)
		return NewMemoryCache(f.cleanupInterval), BackendMemory
	}

	f.logger.Info("Using Redis cache", zap.String("addr", f.redisConfig.Addr()))
	return NewRedisCache(client, f.logger), BackendRedis
}

// NewCache is shorthand for NewFactory(cfg, opts...).Create(ctx)
func NewCache(ctx context.Context, cfg config.RedisConfig, opts ...FactoryOption) (Cache, string) {
	return NewFactory(cfg, opts...).Create(ctx)
}
