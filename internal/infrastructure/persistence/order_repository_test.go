package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/menswear/backend/internal/domain/catalog"
	"github.com/menswear/backend/internal/domain/shared"
	"github.com/menswear/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedOrder(t *testing.T, db *gorm.DB, customerID uuid.UUID, product *catalog.Product, qty int) *trade.Order {
	t.Helper()
	order, err := trade.NewOrder(trade.NewOrderNumber(product.CreatedAt), customerID, "usd")
	require.NoError(t, err)
	v := product.Variants[0]
	_, err = order.AddItem(trade.LineInput{
		ProductID: product.ID,
		VariantID: v.ID,
		SKU:       v.SKU,
		Name:      product.Name,
		Size:      v.Size,
		Color:     v.Color,
		Quantity:  qty,
		UnitPrice: v.EffectivePrice(product.BasePrice),
	})
	require.NoError(t, err)
	order.ApplyPricing(trade.Pricing{ShippingFlat: decimal.NewFromInt(15)})
	require.NoError(t, NewGormOrderRepository(db).Create(context.Background(), order))
	return order
}

func TestGormOrderRepository(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewGormOrderRepository(db)
	product := seedProduct(t, db, "Silk Tie", catalog.CategoryAccessories, "65.00", "TIE-SILK-RED")
	customerID := uuid.New()

	order := seedOrder(t, db, customerID, product, 2)
	seedOrder(t, db, uuid.New(), product, 1)

	t.Run("loads items with the order", func(t *testing.T) {
		found, err := repo.FindByID(ctx, order.ID)
		require.NoError(t, err)
		require.Len(t, found.Items, 1)
		assert.Equal(t, 2, found.Items[0].Quantity)
		assert.Equal(t, "130.00", found.Subtotal.StringFixed(2))
		assert.Equal(t, "145.00", found.Total.StringFixed(2))
		assert.Equal(t, "USD", found.Currency)
	})

	t.Run("finds by order number", func(t *testing.T) {
		found, err := repo.FindByOrderNumber(ctx, order.OrderNumber)
		require.NoError(t, err)
		assert.Equal(t, order.ID, found.ID)
	})

	t.Run("lists a customer's orders", func(t *testing.T) {
		orders, err := repo.FindByCustomer(ctx, customerID, shared.DefaultFilter())
		require.NoError(t, err)
		require.Len(t, orders, 1)
		count, err := repo.CountByCustomer(ctx, customerID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("updates the header and keeps items", func(t *testing.T) {
		require.NoError(t, order.SetPaymentIntent("pi_123"))
		require.NoError(t, order.TransitionTo(trade.OrderStatusPaid, ""))
		require.NoError(t, repo.Update(ctx, order))

		found, err := repo.FindByPaymentIntent(ctx, "pi_123")
		require.NoError(t, err)
		assert.Equal(t, trade.OrderStatusPaid, found.Status)
		assert.NotNil(t, found.PaidAt)
		assert.Len(t, found.Items, 1)
	})

	t.Run("filters by status", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Filters["status"] = string(trade.OrderStatusPending)
		count, err := repo.Count(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("empty payment intent is not found", func(t *testing.T) {
		_, err := repo.FindByPaymentIntent(ctx, "")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("delete hides the order", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, order.ID))
		_, err := repo.FindByID(ctx, order.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.ErrorIs(t, repo.Update(ctx, order), shared.ErrNotFound)
	})
}
