package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/menswear/backend/internal/domain/catalog"
	"github.com/menswear/backend/internal/domain/shared"
	"github.com/menswear/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormVariantRepository implements VariantRepository using GORM
type GormVariantRepository struct {
	db *gorm.DB
}

// NewGormVariantRepository creates a new GormVariantRepository
func NewGormVariantRepository(db *gorm.DB) *GormVariantRepository {
	return &GormVariantRepository{db: db}
}

// FindByID finds a variant by its ID
func (r *GormVariantRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.ProductVariant, error) {
	var model models.ProductVariantModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindBySKU finds a variant by its SKU
func (r *GormVariantRepository) FindBySKU(ctx context.Context, sku string) (*catalog.ProductVariant, error) {
	var model models.ProductVariantModel
	if err := r.db.WithContext(ctx).Where("sku = ?", sku).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByProduct lists the live variants of a product
func (r *GormVariantRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]catalog.ProductVariant, error) {
	var variantModels []models.ProductVariantModel
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at ASC").
		Find(&variantModels).Error; err != nil {
		return nil, err
	}
	variants := make([]catalog.ProductVariant, len(variantModels))
	for i := range variantModels {
		variants[i] = *variantModels[i].ToDomain()
	}
	return variants, nil
}

// ExistsBySKU checks whether a live variant uses the SKU
func (r *GormVariantRepository) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ProductVariantModel{}).
		Where("sku = ?", sku).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Create inserts a new variant
func (r *GormVariantRepository) Create(ctx context.Context, variant *catalog.ProductVariant) error {
	return translateError(r.db.WithContext(ctx).Create(models.ProductVariantModelFromDomain(variant)).Error)
}

// Update writes every column of an existing variant
func (r *GormVariantRepository) Update(ctx context.Context, variant *catalog.ProductVariant) error {
	model := models.ProductVariantModelFromDomain(variant)
	result := r.db.WithContext(ctx).Model(model).
		Select("*").
		Omit(clause.Associations, "created_at", "deleted_at").
		Updates(model)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	variant.UpdatedAt = model.UpdatedAt
	return nil
}

// Delete soft-deletes a variant
func (r *GormVariantRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ProductVariantModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// AdjustStock applies delta with a conditional update so concurrent
// decrements can never drive stock below zero.
func (r *GormVariantRepository) AdjustStock(ctx context.Context, id uuid.UUID, delta int) (int, error) {
	db := r.db.WithContext(ctx)
	result := db.Model(&models.ProductVariantModel{}).
		Where("id = ? AND stock + ? >= 0", id, delta).
		UpdateColumns(map[string]any{
			"stock":      gorm.Expr("stock + ?", delta),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return 0, translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		exists, err := r.exists(ctx, id)
		if err != nil {
			return 0, err
		}
		if !exists {
			return 0, shared.ErrNotFound
		}
		return 0, shared.ErrInsufficientStock
	}

	var stock int
	if err := db.Model(&models.ProductVariantModel{}).
		Select("stock").
		Where("id = ?", id).
		Scan(&stock).Error; err != nil {
		return 0, err
	}
	return stock, nil
}

func (r *GormVariantRepository) exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ProductVariantModel{}).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

var _ catalog.VariantRepository = (*GormVariantRepository)(nil)
