package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/menswear/backend/internal/domain/shared"
)

// ProductRepository defines persistence operations for products.
// Reads preload live variants.
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindBySlug(ctx context.Context, slug string) (*Product, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	ExistsBySlug(ctx context.Context, slug string) (bool, error)
	Create(ctx context.Context, product *Product) error
	Update(ctx context.Context, product *Product) error
	// Delete soft-deletes the product together with its variants
	Delete(ctx context.Context, id uuid.UUID) error
}

// VariantRepository defines persistence operations for product variants
type VariantRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ProductVariant, error)
	FindBySKU(ctx context.Context, sku string) (*ProductVariant, error)
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]ProductVariant, error)
	ExistsBySKU(ctx context.Context, sku string) (bool, error)
	Create(ctx context.Context, variant *ProductVariant) error
	Update(ctx context.Context, variant *ProductVariant) error
	Delete(ctx context.Context, id uuid.UUID) error
	// AdjustStock applies delta atomically and returns the new stock.
	// It fails with ErrInsufficientStock when the result would be negative.
	AdjustStock(ctx context.Context, id uuid.UUID, delta int) (int, error)
}
