package legacy

import (
	"time"

	"github.com/google/uuid"
	appcatalog "github.com/menswear/backend/internal/application/catalog"
	apppartner "github.com/menswear/backend/internal/application/partner"
)

// Product is the flat storefront product with numeric prices
type Product struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Brand       string    `json:"brand"`
	Price       float64   `json:"price"`
	Featured    bool      `json:"featured"`
	ImageURLs   []string  `json:"imageUrls"`
	InStock     bool      `json:"inStock"`
	Variants    []Variant `json:"variants"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Variant is a purchasable size/colour with its resolved price
type Variant struct {
	ID      uuid.UUID `json:"id"`
	SKU     string    `json:"sku"`
	Size    string    `json:"size"`
	Color   string    `json:"color"`
	Price   float64   `json:"price"`
	Stock   int       `json:"stock"`
	InStock bool      `json:"inStock"`
}

// ProductList is the legacy list payload
type ProductList struct {
	Products []Product `json:"products"`
	Total    int64     `json:"total"`
	Limit    int       `json:"limit"`
	Offset   int       `json:"offset"`
}

// ProductQuery holds the legacy list parameters. Offset is rounded down to
// a whole page of Limit.
type ProductQuery struct {
	Category string `form:"category" binding:"omitempty,oneof=suits blazers shirts trousers knitwear outerwear shoes accessories"`
	Featured *bool  `form:"featured"`
	Search   string `form:"search"`
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Offset   int    `form:"offset" binding:"omitempty,min=0"`
}

// Customer is the legacy customer lookup payload
type Customer struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	Phone          string    `json:"phone"`
	MarketingOptIn bool      `json:"marketingOptIn"`
	CreatedAt      time.Time `json:"createdAt"`
}

// LookupQuery is the customer lookup parameter
type LookupQuery struct {
	Email string `form:"email" binding:"required,email"`
}

// BookingRequest is the legacy public booking form. Date and time are
// interpreted in UTC.
type BookingRequest struct {
	CustomerName    string `json:"customerName" binding:"required,max=200"`
	CustomerEmail   string `json:"customerEmail" binding:"required,email"`
	CustomerPhone   string `json:"customerPhone" binding:"max=50"`
	AppointmentType string `json:"appointmentType" binding:"required,oneof=fitting consultation alteration wedding pickup"`
	PreferredDate   string `json:"preferredDate" binding:"required,datetime=2006-01-02"`
	PreferredTime   string `json:"preferredTime" binding:"required,datetime=15:04"`
	Notes           string `json:"notes" binding:"max=2000"`
}

// Booking confirms a legacy booking
type Booking struct {
	ID              uuid.UUID `json:"id"`
	Status          string    `json:"status"`
	AppointmentType string    `json:"appointmentType"`
	ScheduledAt     time.Time `json:"scheduledAt"`
	DurationMinutes int       `json:"durationMinutes"`
}

// ContactRequest is the legacy contact form
type ContactRequest struct {
	Name    string `json:"name" binding:"required,max=200"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone" binding:"max=50"`
	Subject string `json:"subject" binding:"max=200"`
	Message string `json:"message" binding:"required,max=5000"`
}

// ContactReceipt acknowledges a contact form
type ContactReceipt struct {
	ID       uuid.UUID `json:"id"`
	Received bool      `json:"received"`
}

func toProduct(p *appcatalog.ProductResponse) Product {
	out := Product{
		ID:          p.ID,
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		Category:    p.Category,
		Brand:       p.Brand,
		Price:       p.BasePrice.InexactFloat64(),
		Featured:    p.Featured,
		ImageURLs:   p.ImageURLs,
		InStock:     p.TotalStock > 0,
		Variants:    make([]Variant, len(p.Variants)),
		CreatedAt:   p.CreatedAt,
	}
	if out.ImageURLs == nil {
		out.ImageURLs = []string{}
	}
	for i, v := range p.Variants {
		out.Variants[i] = Variant{
			ID:      v.ID,
			SKU:     v.SKU,
			Size:    v.Size,
			Color:   v.Color,
			Price:   v.EffectivePrice.InexactFloat64(),
			Stock:   v.Stock,
			InStock: v.InStock,
		}
	}
	return out
}

func toCustomer(c *apppartner.CustomerResponse) Customer {
	return Customer{
		ID:             c.ID,
		Email:          c.Email,
		FirstName:      c.FirstName,
		LastName:       c.LastName,
		Phone:          c.Phone,
		MarketingOptIn: c.MarketingOptIn,
		CreatedAt:      c.CreatedAt,
	}
}
