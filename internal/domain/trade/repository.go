package trade

import (
	"context"

	"github.com/google/uuid"
	"github.com/menswear/backend/internal/domain/shared"
)

// OrderRepository defines persistence operations for orders and their items
type OrderRepository interface {
	// FindByID loads the order with its items
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	FindByOrderNumber(ctx context.Context, orderNumber string) (*Order, error)
	FindByPaymentIntent(ctx context.Context, paymentIntentID string) (*Order, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Order, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]Order, error)
	CountByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error)
	// Create inserts the order and its items
	Create(ctx context.Context, order *Order) error
	// Update saves order header fields; items are immutable after creation
	Update(ctx context.Context, order *Order) error
	Delete(ctx context.Context, id uuid.UUID) error
}
