package integration

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/menswear/backend/internal/infrastructure/auth"
	"github.com/menswear/backend/internal/infrastructure/cache"
	"github.com/menswear/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

// newTestRedis starts a throwaway Redis and returns its connection settings
func newTestRedis(t *testing.T) config.RedisConfig {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err, "Failed to start Redis container")
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("Warning: failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379/tcp")
	require.NoError(t, err)

	return config.RedisConfig{Enabled: true, Host: host, Port: port.Int()}
}

func TestRedisCacheService(t *testing.T) {
	cfg := newTestRedis(t)
	ctx := context.Background()

	backend, name := cache.NewCache(ctx, cfg, cache.WithLogger(zap.NewNop()))
	t.Cleanup(func() { _ = backend.Close() })
	require.Equal(t, cache.BackendRedis, name)

	service := cache.NewService(backend, config.CacheConfig{Prefix: "shop"})
	var computed atomic.Int32
	lookup := func(context.Context) ([]string, error) {
		computed.Add(1)
		return []string{"navy-blazer", "oxford-shirt"}, nil
	}

	first, err := cache.Fetch(ctx, service, cache.TierShort, cache.NSProducts, []string{"featured"}, lookup)
	require.NoError(t, err)
	second, err := cache.Fetch(ctx, service, cache.TierShort, cache.NSProducts, []string{"featured"}, lookup)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), computed.Load(), "second read is served from Redis")

	t.Run("invalidation clears the namespace only", func(t *testing.T) {
		_, err := cache.Fetch(ctx, service, cache.TierShort, cache.NSCustomers, []string{"count"}, func(context.Context) (int, error) { return 7, nil })
		require.NoError(t, err)

		service.Invalidate(ctx, cache.NSProducts)

		var products []string
		hit, err := backend.Get(ctx, service.Keys().Key(cache.NSProducts, "featured"), &products)
		require.NoError(t, err)
		assert.False(t, hit)

		var count int
		hit, err = backend.Get(ctx, service.Keys().Key(cache.NSCustomers, "count"), &count)
		require.NoError(t, err)
		assert.True(t, hit)
		assert.Equal(t, 7, count)
	})
}

func TestRedisRevocationsAreShared(t *testing.T) {
	cfg := newTestRedis(t)
	ctx := context.Background()

	// two server instances on the same Redis
	clientA := cache.NewRedisClient(cfg)
	clientB := cache.NewRedisClient(cfg)
	t.Cleanup(func() { _ = clientA.Close(); _ = clientB.Close() })
	instanceA := auth.NewRedisRevocationStore(clientA, "shop:revoked:")
	instanceB := auth.NewRedisRevocationStore(clientB, "shop:revoked:")

	require.NoError(t, instanceA.RevokeToken(ctx, "logout-jti", time.Minute))
	revoked, err := instanceB.TokenRevoked(ctx, "logout-jti")
	require.NoError(t, err)
	assert.True(t, revoked)

	issued := time.Now().Add(-time.Minute)
	require.NoError(t, instanceB.RevokeUser(ctx, "stylist-1", time.Hour))
	revoked, err = instanceA.UserRevokedAt(ctx, "stylist-1", issued)
	require.NoError(t, err)
	assert.True(t, revoked)
}
