package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/menswear/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// =============================================================================
// Product DTOs
// =============================================================================

// CreateProductRequest represents a request to create a product.
// Variants listed here are created together with the product.
type CreateProductRequest struct {
	Name        string                 `json:"name" binding:"required,min=1,max=200"`
	Slug        string                 `json:"slug" binding:"max=200"`
	Description string                 `json:"description" binding:"max=20000"`
	Category    string                 `json:"category" binding:"required,oneof=suits blazers shirts trousers knitwear outerwear shoes accessories"`
	Brand       string                 `json:"brand" binding:"max=100"`
	BasePrice   decimal.Decimal        `json:"base_price" binding:"required"`
	Status      string                 `json:"status" binding:"omitempty,oneof=draft active archived"`
	Featured    bool                   `json:"featured"`
	ImageURLs   []string               `json:"image_urls" binding:"max=12,dive,url"`
	Variants    []CreateVariantRequest `json:"variants" binding:"dive"`
}

// UpdateProductRequest represents a partial product update
type UpdateProductRequest struct {
	Name        *string          `json:"name" binding:"omitempty,min=1,max=200"`
	Slug        *string          `json:"slug" binding:"omitempty,min=1,max=200"`
	Description *string          `json:"description" binding:"omitempty,max=20000"`
	Category    *string          `json:"category" binding:"omitempty,oneof=suits blazers shirts trousers knitwear outerwear shoes accessories"`
	Brand       *string          `json:"brand" binding:"omitempty,max=100"`
	BasePrice   *decimal.Decimal `json:"base_price"`
	Status      *string          `json:"status" binding:"omitempty,oneof=draft active archived"`
	Featured    *bool            `json:"featured"`
	ImageURLs   []string         `json:"image_urls" binding:"omitempty,max=12,dive,url"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID          uuid.UUID         `json:"id"`
	Name        string            `json:"name"`
	Slug        string            `json:"slug"`
	Description string            `json:"description"`
	Category    string            `json:"category"`
	Brand       string            `json:"brand"`
	BasePrice   decimal.Decimal   `json:"base_price"`
	Status      string            `json:"status"`
	Featured    bool              `json:"featured"`
	ImageURLs   []string          `json:"image_urls"`
	TotalStock  int               `json:"total_stock"`
	Variants    []VariantResponse `json:"variants"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// ProductListFilter represents filter options for the product list
type ProductListFilter struct {
	Search   string `form:"search"`
	Category string `form:"category" binding:"omitempty,oneof=suits blazers shirts trousers knitwear outerwear shoes accessories"`
	Status   string `form:"status" binding:"omitempty,oneof=draft active archived all"`
	Brand    string `form:"brand"`
	Featured *bool  `form:"featured"`
	MinPrice string `form:"min_price" binding:"omitempty,numeric"`
	MaxPrice string `form:"max_price" binding:"omitempty,numeric"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ProductPage is a cached page of products
type ProductPage struct {
	Items []ProductResponse `json:"items"`
	Total int64             `json:"total"`
}

// ToProductResponse converts a domain Product to ProductResponse
func ToProductResponse(p *catalog.Product) ProductResponse {
	images := p.ImageURLs
	if images == nil {
		images = []string{}
	}
	variants := make([]VariantResponse, len(p.Variants))
	for i := range p.Variants {
		variants[i] = ToVariantResponse(&p.Variants[i], p.BasePrice)
	}
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		Category:    string(p.Category),
		Brand:       p.Brand,
		BasePrice:   p.BasePrice,
		Status:      string(p.Status),
		Featured:    p.Featured,
		ImageURLs:   images,
		TotalStock:  p.TotalStock(),
		Variants:    variants,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// ToProductResponses converts a slice of products
func ToProductResponses(products []catalog.Product) []ProductResponse {
	out := make([]ProductResponse, len(products))
	for i := range products {
		out[i] = ToProductResponse(&products[i])
	}
	return out
}

// =============================================================================
// Variant DTOs
// =============================================================================

// CreateVariantRequest represents a request to add a variant
type CreateVariantRequest struct {
	SKU   string           `json:"sku" binding:"required,min=2,max=64"`
	Size  string           `json:"size" binding:"required,min=1,max=20"`
	Color string           `json:"color" binding:"max=50"`
	Price *decimal.Decimal `json:"price"`
	Stock int              `json:"stock" binding:"gte=0"`
}

// UpdateVariantRequest represents a partial variant update. Stock changes
// go through AdjustStock.
type UpdateVariantRequest struct {
	Size       *string          `json:"size" binding:"omitempty,min=1,max=20"`
	Color      *string          `json:"color" binding:"omitempty,max=50"`
	Price      *decimal.Decimal `json:"price"`
	ClearPrice bool             `json:"clear_price"`
}

// AdjustStockRequest applies a signed delta to a variant's stock
type AdjustStockRequest struct {
	Delta  int    `json:"delta" binding:"required,ne=0"`
	Reason string `json:"reason" binding:"max=200"`
}

// VariantResponse represents a variant in API responses
type VariantResponse struct {
	ID             uuid.UUID        `json:"id"`
	ProductID      uuid.UUID        `json:"product_id"`
	SKU            string           `json:"sku"`
	Size           string           `json:"size"`
	Color          string           `json:"color"`
	Price          *decimal.Decimal `json:"price,omitempty"`
	EffectivePrice decimal.Decimal  `json:"effective_price"`
	Stock          int              `json:"stock"`
	InStock        bool             `json:"in_stock"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

// ToVariantResponse converts a domain variant, resolving its price against base
func ToVariantResponse(v *catalog.ProductVariant, base decimal.Decimal) VariantResponse {
	return VariantResponse{
		ID:             v.ID,
		ProductID:      v.ProductID,
		SKU:            v.SKU,
		Size:           v.Size,
		Color:          v.Color,
		Price:          v.Price,
		EffectivePrice: v.EffectivePrice(base),
		Stock:          v.Stock,
		InStock:        v.Stock > 0,
		CreatedAt:      v.CreatedAt,
		UpdatedAt:      v.UpdatedAt,
	}
}

// =============================================================================
// Image DTOs
// =============================================================================

// ImageUploadRequest asks for a presigned upload URL
type ImageUploadRequest struct {
	ContentType string `json:"content_type" binding:"required,oneof=image/jpeg image/png image/webp"`
}

// ImageRequest attaches or removes an image URL
type ImageRequest struct {
	URL string `json:"url" binding:"required,url,max=2048"`
}
