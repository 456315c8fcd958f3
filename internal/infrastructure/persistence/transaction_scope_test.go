package persistence

import (
	"context"
	"testing"

	apptrade "github.com/menswear/backend/internal/application/trade"
	"github.com/menswear/backend/internal/domain/catalog"
	"github.com/menswear/backend/internal/domain/partner"
	"github.com/menswear/backend/internal/domain/shared"
	"github.com/menswear/backend/internal/domain/trade"
	"github.com/menswear/backend/internal/infrastructure/cache"
	"github.com/menswear/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestGormOrderScope_PlaceAndCancel(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	pool := NewDBPool(db, nil)

	customer, err := partner.NewCustomer("tom@example.com", "Tom", "Ford")
	require.NoError(t, err)
	customers := NewGormCustomerRepository(db)
	require.NoError(t, customers.Create(ctx, customer))

	products := NewGormProductRepository(db)
	suit := seedProduct(t, db, "Grey Flannel Suit", catalog.CategorySuits, "700.00", "SUIT-GREY-40R")
	require.NoError(t, suit.SetStatus(catalog.ProductStatusActive))
	require.NoError(t, products.Update(ctx, suit))
	tie := seedProduct(t, db, "Knit Tie", catalog.CategoryAccessories, "80.00", "TIE-KNIT-BLK")
	require.NoError(t, tie.SetStatus(catalog.ProductStatusActive))
	require.NoError(t, products.Update(ctx, tie))

	mem := cache.NewMemoryCache(0)
	t.Cleanup(func() { _ = mem.Close() })
	orders := NewGormOrderRepository(db)
	service := apptrade.NewOrderService(
		NewGormOrderScope(pool),
		orders,
		customers,
		nil,
		cache.NewService(mem, config.CacheConfig{Prefix: "test"}),
		apptrade.OrderServiceConfig{Currency: "USD"},
		zap.NewNop(),
	)
	variants := NewGormVariantRepository(db)
	stockOf := func(p *catalog.Product) int {
		v, err := variants.FindByID(ctx, p.Variants[0].ID)
		require.NoError(t, err)
		return v.Stock
	}

	t.Run("oversold line rolls back the whole order", func(t *testing.T) {
		_, err := service.Create(ctx, apptrade.CreateOrderRequest{
			CustomerID: customer.ID,
			Items: []apptrade.OrderItemRequest{
				{VariantID: suit.Variants[0].ID, Quantity: 2},
				{VariantID: tie.Variants[0].ID, Quantity: 11},
			},
		})
		assert.True(t, shared.HasCode(err, "INSUFFICIENT_STOCK"))
		assert.Equal(t, 10, stockOf(suit))
		assert.Equal(t, 10, stockOf(tie))

		count, err := orders.Count(ctx, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("cancel restores stock", func(t *testing.T) {
		placed, err := service.Create(ctx, apptrade.CreateOrderRequest{
			CustomerID: customer.ID,
			Items: []apptrade.OrderItemRequest{
				{VariantID: suit.Variants[0].ID, Quantity: 2},
				{VariantID: tie.Variants[0].ID, Quantity: 3},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, "940.00", placed.Total.StringFixed(2))
		assert.Equal(t, 8, stockOf(suit))
		assert.Equal(t, 7, stockOf(tie))

		cancelled, err := service.UpdateStatus(ctx, placed.ID, apptrade.UpdateOrderStatusRequest{Status: string(trade.OrderStatusCancelled)})
		require.NoError(t, err)
		assert.Equal(t, "cancelled", cancelled.Status)
		assert.Equal(t, 10, stockOf(suit))
		assert.Equal(t, 10, stockOf(tie))
	})
}
