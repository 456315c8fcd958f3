package models

import (
	"github.com/google/uuid"
	"github.com/menswear/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// ProductModel is the persistence model for the Product domain entity.
type ProductModel struct {
	SoftDeleteModel
	Name        string                `gorm:"type:varchar(200);not null"`
	Slug        string                `gorm:"type:varchar(200);not null;uniqueIndex:idx_products_slug_live,where:deleted_at IS NULL"`
	Description string                `gorm:"type:text"`
	Category    catalog.Category      `gorm:"type:varchar(30);not null;index"`
	Brand       string                `gorm:"type:varchar(100)"`
	BasePrice   decimal.Decimal       `gorm:"type:decimal(12,2);not null;default:0;check:chk_products_base_price,base_price >= 0"`
	Status      catalog.ProductStatus `gorm:"type:varchar(20);not null;default:'draft';index"`
	Featured    bool                  `gorm:"not null;default:false"`
	ImageURLs   []string              `gorm:"column:image_urls;type:text;serializer:json"`
	Variants    []ProductVariantModel `gorm:"foreignKey:ProductID"`
}

// TableName returns the table name for GORM
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts the persistence model to a domain Product entity.
func (m *ProductModel) ToDomain() *catalog.Product {
	images := m.ImageURLs
	if images == nil {
		images = []string{}
	}
	p := &catalog.Product{
		BaseEntity:  m.BaseModel.ToDomain(),
		Name:        m.Name,
		Slug:        m.Slug,
		Description: m.Description,
		Category:    m.Category,
		Brand:       m.Brand,
		BasePrice:   m.BasePrice,
		Status:      m.Status,
		Featured:    m.Featured,
		ImageURLs:   images,
		Variants:    make([]catalog.ProductVariant, 0, len(m.Variants)),
	}
	for i := range m.Variants {
		p.Variants = append(p.Variants, *m.Variants[i].ToDomain())
	}
	return p
}

// ProductModelFromDomain creates a persistence model without variants
func ProductModelFromDomain(p *catalog.Product) *ProductModel {
	m := &ProductModel{
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		Category:    p.Category,
		Brand:       p.Brand,
		BasePrice:   p.BasePrice,
		Status:      p.Status,
		Featured:    p.Featured,
		ImageURLs:   p.ImageURLs,
	}
	m.FromDomainBaseEntity(p.BaseEntity)
	return m
}

// ProductVariantModel is the persistence model for the ProductVariant domain entity.
// SKU is unique among live rows and stock can never go negative.
type ProductVariantModel struct {
	SoftDeleteModel
	ProductID uuid.UUID        `gorm:"type:uuid;not null;index"`
	SKU       string           `gorm:"column:sku;type:varchar(64);not null;uniqueIndex:idx_variants_sku_live,where:deleted_at IS NULL"`
	Size      string           `gorm:"type:varchar(20);not null"`
	Color     string           `gorm:"type:varchar(50)"`
	Price     *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Stock     int              `gorm:"not null;default:0;check:chk_variants_stock,stock >= 0"`
}

// TableName returns the table name for GORM
func (ProductVariantModel) TableName() string {
	return "product_variants"
}

// ToDomain converts the persistence model to a domain ProductVariant entity.
func (m *ProductVariantModel) ToDomain() *catalog.ProductVariant {
	return &catalog.ProductVariant{
		BaseEntity: m.BaseModel.ToDomain(),
		ProductID:  m.ProductID,
		SKU:        m.SKU,
		Size:       m.Size,
		Color:      m.Color,
		Price:      m.Price,
		Stock:      m.Stock,
	}
}

// ProductVariantModelFromDomain creates a new persistence model from a domain variant
func ProductVariantModelFromDomain(v *catalog.ProductVariant) *ProductVariantModel {
	m := &ProductVariantModel{
		ProductID: v.ProductID,
		SKU:       v.SKU,
		Size:      v.Size,
		Color:     v.Color,
		Price:     v.Price,
		Stock:     v.Stock,
	}
	m.FromDomainBaseEntity(v.BaseEntity)
	return m
}
