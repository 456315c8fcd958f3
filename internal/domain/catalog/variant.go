package catalog

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/menswear/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

var skuPattern = regexp.MustCompile(`^[A-Z0-9][A-Z0-9\-_.]{1,63}$`)

// ProductVariant is a sellable size/colour combination of a product
type ProductVariant struct {
	shared.BaseEntity
	ProductID uuid.UUID
	SKU       string
	Size      string
	Color     string
	Price     *decimal.Decimal
	Stock     int
}

// NewProductVariant creates a variant with an uppercase SKU
func NewProductVariant(productID uuid.UUID, sku, size, color string, stock int) (*ProductVariant, error) {
	normalized, err := NormalizeSKU(sku)
	if err != nil {
		return nil, err
	}
	if stock < 0 {
		return nil, shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
	}
	if strings.TrimSpace(size) == "" {
		return nil, shared.NewDomainError("INVALID_SIZE", "Variant size cannot be empty")
	}

	return &ProductVariant{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  productID,
		SKU:        normalized,
		Size:       strings.TrimSpace(size),
		Color:      strings.TrimSpace(color),
		Stock:      stock,
	}, nil
}

// Update replaces size and colour
func (v *ProductVariant) Update(size, color string) error {
	if strings.TrimSpace(size) == "" {
		return shared.NewDomainError("INVALID_SIZE", "Variant size cannot be empty")
	}
	v.Size = strings.TrimSpace(size)
	v.Color = strings.TrimSpace(color)
	v.Touch()
	return nil
}

// SetPrice sets or clears the price override
func (v *ProductVariant) SetPrice(price *decimal.Decimal) error {
	if price != nil {
		if price.IsNegative() {
			return shared.NewDomainError("INVALID_PRICE", "Variant price cannot be negative")
		}
		rounded := price.Round(2)
		price = &rounded
	}
	v.Price = price
	v.Touch()
	return nil
}

// EffectivePrice returns the override or the product's base price
func (v *ProductVariant) EffectivePrice(base decimal.Decimal) decimal.Decimal {
	if v.Price != nil {
		return *v.Price
	}
	return base
}

// AdjustStock applies a delta, refusing to go below zero
func (v *ProductVariant) AdjustStock(delta int) error {
	if v.Stock+delta < 0 {
		return shared.ErrInsufficientStock
	}
	v.Stock += delta
	v.Touch()
	return nil
}

// IsLowStock reports whether stock is at or under the threshold
func (v *ProductVariant) IsLowStock(threshold int) bool {
	return v.Stock <= threshold
}

// NormalizeSKU trims and uppercases a SKU and checks its format
func NormalizeSKU(sku string) (string, error) {
	normalized := strings.ToUpper(strings.TrimSpace(sku))
	if normalized == "" {
		return "", shared.NewDomainError("INVALID_SKU", "SKU cannot be empty")
	}
	if !skuPattern.MatchString(normalized) {
		return "", shared.NewDomainError("INVALID_SKU", "SKU may contain letters, digits, dash, underscore and dot (2-64 characters)")
	}
	return normalized, nil
}
