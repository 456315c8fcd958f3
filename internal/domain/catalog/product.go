package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/menswear/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ProductStatus represents the publication status of a product
type ProductStatus string

const (
	ProductStatusDraft    ProductStatus = "draft"
	ProductStatusActive   ProductStatus = "active"
	ProductStatusArchived ProductStatus = "archived"
)

// IsValid reports whether the status is known
func (s ProductStatus) IsValid() bool {
	switch s {
	case ProductStatusDraft, ProductStatusActive, ProductStatusArchived:
		return true
	}
	return false
}

// Category groups products in the storefront
type Category string

const (
	CategorySuits       Category = "suits"
	CategoryBlazers     Category = "blazers"
	CategoryShirts      Category = "shirts"
	CategoryTrousers    Category = "trousers"
	CategoryKnitwear    Category = "knitwear"
	CategoryOuterwear   Category = "outerwear"
	CategoryShoes       Category = "shoes"
	CategoryAccessories Category = "accessories"
)

// IsValid reports whether the category is known
func (c Category) IsValid() bool {
	switch c {
	case CategorySuits, CategoryBlazers, CategoryShirts, CategoryTrousers,
		CategoryKnitwear, CategoryOuterwear, CategoryShoes, CategoryAccessories:
		return true
	}
	return false
}

const maxImages = 12

// Product is a catalog item sold in one or more variants
type Product struct {
	shared.BaseEntity
	Name        string
	Slug        string
	Description string
	Category    Category
	Brand       string
	BasePrice   decimal.Decimal
	Status      ProductStatus
	Featured    bool
	ImageURLs   []string
	Variants    []ProductVariant
}

// NewProduct creates a draft product with a slug derived from its name
func NewProduct(name string, category Category, basePrice decimal.Decimal) (*Product, error) {
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if !category.IsValid() {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Product category is not recognized")
	}
	if basePrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Base price cannot be negative")
	}

	slug := Slugify(name)
	if slug == "" {
		return nil, shared.NewDomainError("INVALID_SLUG", "Product name must contain letters or digits")
	}

	return &Product{
		BaseEntity: shared.NewBaseEntity(),
		Name:       strings.TrimSpace(name),
		Slug:       slug,
		Category:   category,
		BasePrice:  basePrice.Round(2),
		Status:     ProductStatusDraft,
		ImageURLs:  []string{},
	}, nil
}

// Update replaces descriptive fields
func (p *Product) Update(name, description, brand string, category Category) error {
	if err := validateProductName(name); err != nil {
		return err
	}
	if !category.IsValid() {
		return shared.NewDomainError("INVALID_CATEGORY", "Product category is not recognized")
	}
	if len(brand) > 100 {
		return shared.NewDomainError("INVALID_BRAND", "Brand cannot exceed 100 characters")
	}
	p.Name = strings.TrimSpace(name)
	p.Description = description
	p.Brand = strings.TrimSpace(brand)
	p.Category = category
	p.Touch()
	return nil
}

// SetSlug sets an explicit slug after normalizing it
func (p *Product) SetSlug(slug string) error {
	normalized := Slugify(slug)
	if normalized == "" {
		return shared.NewDomainError("INVALID_SLUG", "Slug must contain letters or digits")
	}
	p.Slug = normalized
	p.Touch()
	return nil
}

// SetBasePrice sets the price used by variants without an override
func (p *Product) SetBasePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Base price cannot be negative")
	}
	p.BasePrice = price.Round(2)
	p.Touch()
	return nil
}

// SetStatus changes the publication status
func (p *Product) SetStatus(status ProductStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Product status is not recognized")
	}
	p.Status = status
	p.Touch()
	return nil
}

// SetFeatured toggles the storefront highlight
func (p *Product) SetFeatured(featured bool) {
	p.Featured = featured
	p.Touch()
}

// AddImage appends an image URL, ignoring duplicates
func (p *Product) AddImage(url string) error {
	url = strings.TrimSpace(url)
	if url == "" {
		return shared.NewDomainError("INVALID_IMAGE", "Image URL cannot be empty")
	}
	for _, existing := range p.ImageURLs {
		if existing == url {
			return nil
		}
	}
	if len(p.ImageURLs) >= maxImages {
		return shared.NewDomainError("INVALID_IMAGE", "A product can have at most 12 images")
	}
	p.ImageURLs = append(p.ImageURLs, url)
	p.Touch()
	return nil
}

// RemoveImage drops an image URL if present
func (p *Product) RemoveImage(url string) {
	kept := p.ImageURLs[:0]
	for _, existing := range p.ImageURLs {
		if existing != url {
			kept = append(kept, existing)
		}
	}
	p.ImageURLs = kept
	p.Touch()
}

// IsPurchasable reports whether the product can be ordered
func (p *Product) IsPurchasable() bool {
	return p.Status == ProductStatusActive
}

// TotalStock sums stock across variants
func (p *Product) TotalStock() int {
	total := 0
	for _, v := range p.Variants {
		total += v.Stock
	}
	return total
}

// FindVariant returns the variant with the given id
func (p *Product) FindVariant(id uuid.UUID) *ProductVariant {
	for i := range p.Variants {
		if p.Variants[i].ID == id {
			return &p.Variants[i]
		}
	}
	return nil
}

func validateProductName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}
