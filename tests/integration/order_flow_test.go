package integration

import (
	"context"
	"sync"
	"testing"
	"time"

	appscheduling "github.com/menswear/backend/internal/application/scheduling"
	apptrade "github.com/menswear/backend/internal/application/trade"
	"github.com/menswear/backend/internal/domain/catalog"
	"github.com/menswear/backend/internal/domain/identity"
	"github.com/menswear/backend/internal/domain/partner"
	"github.com/menswear/backend/internal/domain/shared"
	"github.com/menswear/backend/internal/infrastructure/cache"
	"github.com/menswear/backend/internal/infrastructure/config"
	"github.com/menswear/backend/internal/infrastructure/persistence"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSchemaMigrations(t *testing.T) {
	tdb := NewTestDB(t)
	m := tdb.Migrator(t)

	version, dirty, err := m.Version()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	assert.False(t, dirty)

	for _, table := range []string{"users", "customers", "leads", "products", "product_variants", "orders", "order_items", "appointments"} {
		assert.True(t, tdb.DB.Migrator().HasTable(table), table)
	}

	require.NoError(t, m.Down(0))
	assert.False(t, tdb.DB.Migrator().HasTable("orders"))

	require.NoError(t, m.Up())
	assert.True(t, tdb.DB.Migrator().HasTable("orders"))
}

func TestConcurrentCheckoutNeverOversells(t *testing.T) {
	tdb := NewTestDB(t)
	ctx := context.Background()
	db := tdb.Pool.Writer()

	customers := persistence.NewGormCustomerRepository(db)
	customer, err := partner.NewCustomer("james@example.com", "James", "Sherwood")
	require.NoError(t, err)
	require.NoError(t, customers.Create(ctx, customer))

	product, err := catalog.NewProduct("Midnight Dinner Jacket", catalog.CategoryBlazers, decimal.RequireFromString("650.00"))
	require.NoError(t, err)
	variant, err := catalog.NewProductVariant(product.ID, "DJ-MID-40R", "40R", "midnight", 3)
	require.NoError(t, err)
	product.Variants = append(product.Variants, *variant)
	require.NoError(t, product.SetStatus(catalog.ProductStatusActive))
	require.NoError(t, persistence.NewGormProductRepository(db).Create(ctx, product))

	mem := cache.NewMemoryCache(0)
	t.Cleanup(func() { _ = mem.Close() })
	service := apptrade.NewOrderService(
		persistence.NewGormOrderScope(tdb.Pool),
		persistence.NewGormOrderRepository(db),
		customers,
		nil,
		cache.NewService(mem, config.CacheConfig{Prefix: "it"}),
		apptrade.OrderServiceConfig{Currency: "USD"},
		zap.NewNop(),
	)

	const buyers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		placed    int
		soldOut   int
		unexpects []error
	)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := service.Create(ctx, apptrade.CreateOrderRequest{
				CustomerID: customer.ID,
				Items:      []apptrade.OrderItemRequest{{VariantID: variant.ID, Quantity: 1}},
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				placed++
			case shared.HasCode(err, "INSUFFICIENT_STOCK"):
				soldOut++
			default:
				unexpects = append(unexpects, err)
			}
		}()
	}
	wg.Wait()

	require.Empty(t, unexpects)
	assert.Equal(t, 3, placed)
	assert.Equal(t, buyers-3, soldOut)

	stored, err := persistence.NewGormVariantRepository(db).FindByID(ctx, variant.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stored.Stock)

	orders, total, err := service.ListByCustomer(ctx, customer.ID, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	t.Run("cancelling returns the unit", func(t *testing.T) {
		_, err := service.UpdateStatus(ctx, orders[0].ID, apptrade.UpdateOrderStatusRequest{Status: "cancelled", Reason: "changed mind"})
		require.NoError(t, err)

		stored, err := persistence.NewGormVariantRepository(db).FindByID(ctx, variant.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, stored.Stock)
	})
}

func TestConcurrentBookingsNeverDoubleBookStaff(t *testing.T) {
	tdb := NewTestDB(t)
	ctx := context.Background()
	db := tdb.Pool.Writer()

	users := persistence.NewGormUserRepository(db)
	tailor, err := identity.NewUser("tailor@example.com", "Head Tailor", "tailor-pass-123", identity.RoleStaff)
	require.NoError(t, err)
	require.NoError(t, users.Create(ctx, tailor))

	mem := cache.NewMemoryCache(0)
	t.Cleanup(func() { _ = mem.Close() })
	appointments := persistence.NewGormAppointmentRepository(db)
	service := appscheduling.NewAppointmentService(
		appointments,
		persistence.NewGormStaffScope(tdb.Pool),
		persistence.NewGormCustomerRepository(db),
		users,
		cache.NewService(mem, config.CacheConfig{Prefix: "it"}),
		zap.NewNop(),
	)

	// every request wants the same hour, offset by a quarter so none are identical
	slot := time.Now().UTC().Add(72 * time.Hour).Truncate(time.Hour)
	const clients = 6
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		booked    int
		taken     int
		unexpects []error
	)
	for i := 0; i < clients; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := service.Create(ctx, appscheduling.CreateAppointmentRequest{
				StaffID:         &tailor.ID,
				Name:            "Client",
				Email:           "client@example.com",
				Type:            "fitting",
				ScheduledAt:     slot.Add(time.Duration(i%3) * 15 * time.Minute),
				DurationMinutes: 60,
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				booked++
			case shared.HasCode(err, "SLOT_UNAVAILABLE"):
				taken++
			default:
				unexpects = append(unexpects, err)
			}
		}(i)
	}
	wg.Wait()

	require.Empty(t, unexpects)
	assert.Equal(t, 1, booked)
	assert.Equal(t, clients-1, taken)

	overlaps, err := appointments.FindStaffOverlaps(ctx, tailor.ID, slot.Add(-time.Hour), slot.Add(2*time.Hour), nil)
	require.NoError(t, err)
	assert.Len(t, overlaps, 1)

	t.Run("adjacent slot is still bookable", func(t *testing.T) {
		next := overlaps[0].EndsAt()
		_, err := service.Create(ctx, appscheduling.CreateAppointmentRequest{
			StaffID:         &tailor.ID,
			Name:            "Next Client",
			Email:           "next@example.com",
			Type:            "consultation",
			ScheduledAt:     next,
			DurationMinutes: 30,
		})
		require.NoError(t, err)
	})
}
