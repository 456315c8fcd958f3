package trade

import (
	"strings"

	"github.com/google/uuid"
	"github.com/menswear/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// LineInput carries the product snapshot used to build an order item
type LineInput struct {
	ProductID uuid.UUID
	VariantID uuid.UUID
	SKU       string
	Name      string
	Size      string
	Color     string
	Quantity  int
	UnitPrice decimal.Decimal
}

// OrderItem is a line on an order. Product details are copied so later
// catalog edits do not rewrite history.
type OrderItem struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	ProductID uuid.UUID
	VariantID uuid.UUID
	SKU       string
	Name      string
	Size      string
	Color     string
	Quantity  int
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
}

// NewOrderItem creates an order item from a line input
func NewOrderItem(orderID uuid.UUID, line LineInput) (*OrderItem, error) {
	if line.ProductID == uuid.Nil || line.VariantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_ITEM", "Item must reference a product variant")
	}
	if strings.TrimSpace(line.Name) == "" {
		return nil, shared.NewDomainError("INVALID_ITEM", "Item name cannot be empty")
	}
	if line.UnitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	item := &OrderItem{
		ID:        uuid.New(),
		OrderID:   orderID,
		ProductID: line.ProductID,
		VariantID: line.VariantID,
		SKU:       line.SKU,
		Name:      line.Name,
		Size:      line.Size,
		Color:     line.Color,
		UnitPrice: line.UnitPrice.Round(2),
	}
	if err := item.SetQuantity(line.Quantity); err != nil {
		return nil, err
	}
	return item, nil
}

// SetQuantity updates the quantity and line total
func (i *OrderItem) SetQuantity(quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	i.Quantity = quantity
	i.LineTotal = i.UnitPrice.Mul(decimal.NewFromInt(int64(quantity)))
	return nil
}
