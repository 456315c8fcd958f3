package partner

import (
	"time"

	"github.com/google/uuid"
	"github.com/menswear/backend/internal/domain/partner"
)

// =============================================================================
// Customer DTOs
// =============================================================================

// AddressDTO is a postal address in requests and responses
type AddressDTO struct {
	Line1      string `json:"line1" binding:"max=255"`
	Line2      string `json:"line2" binding:"max=255"`
	City       string `json:"city" binding:"max=100"`
	State      string `json:"state" binding:"max=100"`
	PostalCode string `json:"postal_code" binding:"max=20"`
	Country    string `json:"country" binding:"max=100"`
}

// MeasurementsDTO holds tailoring measurements in centimetres
type MeasurementsDTO struct {
	Chest    float64 `json:"chest" binding:"gte=0,lte=300"`
	Waist    float64 `json:"waist" binding:"gte=0,lte=300"`
	Hips     float64 `json:"hips" binding:"gte=0,lte=300"`
	Inseam   float64 `json:"inseam" binding:"gte=0,lte=300"`
	Neck     float64 `json:"neck" binding:"gte=0,lte=300"`
	Sleeve   float64 `json:"sleeve" binding:"gte=0,lte=300"`
	Shoulder float64 `json:"shoulder" binding:"gte=0,lte=300"`
}

// CreateCustomerRequest represents a request to create a new customer
type CreateCustomerRequest struct {
	Email          string           `json:"email" binding:"required,email,max=255"`
	FirstName      string           `json:"first_name" binding:"required,min=1,max=100"`
	LastName       string           `json:"last_name" binding:"required,min=1,max=100"`
	Phone          string           `json:"phone" binding:"max=50"`
	Address        *AddressDTO      `json:"address"`
	Measurements   *MeasurementsDTO `json:"measurements"`
	Notes          string           `json:"notes" binding:"max=5000"`
	MarketingOptIn bool             `json:"marketing_opt_in"`
}

// UpdateCustomerRequest represents a partial customer update
type UpdateCustomerRequest struct {
	Email          *string          `json:"email" binding:"omitempty,email,max=255"`
	FirstName      *string          `json:"first_name" binding:"omitempty,min=1,max=100"`
	LastName       *string          `json:"last_name" binding:"omitempty,min=1,max=100"`
	Phone          *string          `json:"phone" binding:"omitempty,max=50"`
	Address        *AddressDTO      `json:"address"`
	Measurements   *MeasurementsDTO `json:"measurements"`
	Notes          *string          `json:"notes" binding:"omitempty,max=5000"`
	MarketingOptIn *bool            `json:"marketing_opt_in"`
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID             uuid.UUID       `json:"id"`
	Email          string          `json:"email"`
	FirstName      string          `json:"first_name"`
	LastName       string          `json:"last_name"`
	FullName       string          `json:"full_name"`
	Phone          string          `json:"phone"`
	Address        AddressDTO      `json:"address"`
	Measurements   MeasurementsDTO `json:"measurements"`
	Notes          string          `json:"notes"`
	MarketingOptIn bool            `json:"marketing_opt_in"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// CustomerListFilter represents filter options for the customer list
type CustomerListFilter struct {
	Search         string `form:"search"`
	City           string `form:"city"`
	Country        string `form:"country"`
	MarketingOptIn *bool  `form:"marketing_opt_in"`
	Page           int    `form:"page" binding:"omitempty,min=1"`
	PageSize       int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy        string `form:"order_by"`
	OrderDir       string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToCustomerResponse converts a domain Customer to CustomerResponse
func ToCustomerResponse(c *partner.Customer) CustomerResponse {
	return CustomerResponse{
		ID:        c.ID,
		Email:     c.Email,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		FullName:  c.FullName(),
		Phone:     c.Phone,
		Address: AddressDTO{
			Line1:      c.Address.Line1,
			Line2:      c.Address.Line2,
			City:       c.Address.City,
			State:      c.Address.State,
			PostalCode: c.Address.PostalCode,
			Country:    c.Address.Country,
		},
		Measurements:   MeasurementsDTO(c.Measurements),
		Notes:          c.Notes,
		MarketingOptIn: c.MarketingOptIn,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

// ToCustomerResponses converts a slice of customers
func ToCustomerResponses(customers []partner.Customer) []CustomerResponse {
	out := make([]CustomerResponse, len(customers))
	for i := range customers {
		out[i] = ToCustomerResponse(&customers[i])
	}
	return out
}

func (a AddressDTO) toDomain() partner.Address {
	return partner.Address{
		Line1:      a.Line1,
		Line2:      a.Line2,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		Country:    a.Country,
	}
}

// =============================================================================
// Lead DTOs
// =============================================================================

// CreateLeadRequest represents a request to create a lead
type CreateLeadRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=200"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Phone    string `json:"phone" binding:"max=50"`
	Source   string `json:"source" binding:"omitempty,oneof=website instagram referral walk_in event other"`
	Interest string `json:"interest" binding:"max=200"`
	Message  string `json:"message" binding:"max=5000"`
}

// UpdateLeadRequest represents a partial lead update
type UpdateLeadRequest struct {
	Phone    *string `json:"phone" binding:"omitempty,max=50"`
	Interest *string `json:"interest" binding:"omitempty,max=200"`
	Message  *string `json:"message" binding:"omitempty,max=5000"`
	Status   *string `json:"status" binding:"omitempty,oneof=new contacted qualified lost"`
}

// ConvertLeadRequest names the customer created from a lead. Both fields
// default to the lead's name split on the first space.
type ConvertLeadRequest struct {
	FirstName string `json:"first_name" binding:"max=100"`
	LastName  string `json:"last_name" binding:"max=100"`
}

// LeadResponse represents a lead in API responses
type LeadResponse struct {
	ID         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	Email      string     `json:"email"`
	Phone      string     `json:"phone"`
	Source     string     `json:"source"`
	Status     string     `json:"status"`
	Interest   string     `json:"interest"`
	Message    string     `json:"message"`
	CustomerID *uuid.UUID `json:"customer_id,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// ConvertLeadResponse is the result of converting a lead
type ConvertLeadResponse struct {
	Lead            LeadResponse     `json:"lead"`
	Customer        CustomerResponse `json:"customer"`
	CustomerCreated bool             `json:"customer_created"`
}

// LeadListFilter represents filter options for the lead list
type LeadListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=new contacted qualified converted lost"`
	Source   string `form:"source" binding:"omitempty,oneof=website instagram referral walk_in event other"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToLeadResponse converts a domain Lead to LeadResponse
func ToLeadResponse(l *partner.Lead) LeadResponse {
	return LeadResponse{
		ID:         l.ID,
		Name:       l.Name,
		Email:      l.Email,
		Phone:      l.Phone,
		Source:     string(l.Source),
		Status:     string(l.Status),
		Interest:   l.Interest,
		Message:    l.Message,
		CustomerID: l.CustomerID,
		CreatedAt:  l.CreatedAt,
		UpdatedAt:  l.UpdatedAt,
	}
}

// ToLeadResponses converts a slice of leads
func ToLeadResponses(leads []partner.Lead) []LeadResponse {
	out := make([]LeadResponse, len(leads))
	for i := range leads {
		out[i] = ToLeadResponse(&leads[i])
	}
	return out
}
