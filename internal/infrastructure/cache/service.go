package cache

import (
	"context"
	"time"

	"github.com/menswear/backend/internal/infrastructure/config"
	"github.com/menswear/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Namespaces used by application services
const (
	NSProducts     = "products"
	NSCustomers    = "customers"
	NSOrders       = "orders"
	NSAppointments = "appointments"
	NSDashboard    = "dashboard"
	NSLegacy       = "legacy"
)

// Service bundles a Cache with key and TTL conventions
type Service struct {
	cache Cache
	keys  *KeyBuilder
	ttl   TTLPolicy
}

// NewService creates a Service
func NewService(c Cache, cfg config.CacheConfig) *Service {
	return &Service{
		cache: c,
		keys:  NewKeyBuilder(cfg.Prefix),
		ttl:   NewTTLPolicy(cfg),
	}
}

// Cache returns the underlying cache
func (s *Service) Cache() Cache {
	return s.cache
}

// Keys returns the key builder
func (s *Service) Keys() *KeyBuilder {
	return s.keys
}

// TTL resolves a tier name
func (s *Service) TTL(tier string) time.Duration {
	return s.ttl.TTLFor(tier)
}

// Invalidate drops every key in the namespaces. Failures are logged; stale
// entries expire on their own.
func (s *Service) Invalidate(ctx context.Context, namespaces ...string) {
	for _, ns := range namespaces {
		if err := s.cache.DeleteByPrefix(ctx, s.keys.Namespace(ns)); err != nil {
			logger.L(ctx).Warn("Cache invalidation failed", zap.String("namespace", ns), zap.Error(err))
		}
	}
}

// Ping checks the backing store
func (s *Service) Ping(ctx context.Context) error {
	return s.cache.Ping(ctx)
}

// Fetch is GetOrSet with a key built from namespace and parts and a TTL tier
func Fetch[T any](ctx context.Context, s *Service, tier, namespace string, parts []string, compute func(context.Context) (T, error)) (T, error) {
	return GetOrSet(ctx, s.cache, s.keys.Key(namespace, parts...), s.TTL(tier), compute)
}
