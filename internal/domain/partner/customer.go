package partner

import (
	"strings"

	"github.com/menswear/backend/internal/domain/shared"
)

// Address is a postal address
type Address struct {
	Line1      string `json:"line1,omitempty"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city,omitempty"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Country    string `json:"country,omitempty"`
}

// IsEmpty reports whether no address line or city is set
func (a Address) IsEmpty() bool {
	return a.Line1 == "" && a.City == "" && a.PostalCode == ""
}

// Measurements holds tailoring measurements in inches
type Measurements struct {
	Chest    float64 `json:"chest,omitempty"`
	Waist    float64 `json:"waist,omitempty"`
	Hips     float64 `json:"hips,omitempty"`
	Inseam   float64 `json:"inseam,omitempty"`
	Neck     float64 `json:"neck,omitempty"`
	Sleeve   float64 `json:"sleeve,omitempty"`
	Shoulder float64 `json:"shoulder,omitempty"`
}

func (m Measurements) validate() error {
	for _, v := range []float64{m.Chest, m.Waist, m.Hips, m.Inseam, m.Neck, m.Sleeve, m.Shoulder} {
		if v < 0 || v > 120 {
			return shared.NewDomainError("INVALID_MEASUREMENTS", "Measurements must be between 0 and 120 inches")
		}
	}
	return nil
}

// Customer is a retail customer
type Customer struct {
	shared.BaseEntity
	Email          string
	FirstName      string
	LastName       string
	Phone          string
	Address        Address
	Measurements   Measurements
	Notes          string
	MarketingOptIn bool
}

// NewCustomer creates a customer with a normalized email
func NewCustomer(email, firstName, lastName string) (*Customer, error) {
	normalized, err := shared.NormalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if err := validateName(firstName, "First name"); err != nil {
		return nil, err
	}
	if err := validateName(lastName, "Last name"); err != nil {
		return nil, err
	}

	return &Customer{
		BaseEntity: shared.NewBaseEntity(),
		Email:      normalized,
		FirstName:  strings.TrimSpace(firstName),
		LastName:   strings.TrimSpace(lastName),
	}, nil
}

// FullName returns first and last name joined
func (c *Customer) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// Update replaces the customer's name and phone
func (c *Customer) Update(firstName, lastName, phone string) error {
	if err := validateName(firstName, "First name"); err != nil {
		return err
	}
	if err := validateName(lastName, "Last name"); err != nil {
		return err
	}
	if len(phone) > 50 {
		return shared.NewDomainError("INVALID_PHONE", "Phone cannot exceed 50 characters")
	}

	c.FirstName = strings.TrimSpace(firstName)
	c.LastName = strings.TrimSpace(lastName)
	c.Phone = strings.TrimSpace(phone)
	c.Touch()
	return nil
}

// ChangeEmail sets a new normalized email
func (c *Customer) ChangeEmail(email string) error {
	normalized, err := shared.NormalizeEmail(email)
	if err != nil {
		return err
	}
	c.Email = normalized
	c.Touch()
	return nil
}

// SetAddress replaces the shipping address
func (c *Customer) SetAddress(addr Address) {
	c.Address = addr
	c.Touch()
}

// SetMeasurements replaces the tailoring measurements
func (c *Customer) SetMeasurements(m Measurements) error {
	if err := m.validate(); err != nil {
		return err
	}
	c.Measurements = m
	c.Touch()
	return nil
}

// SetNotes sets internal staff notes
func (c *Customer) SetNotes(notes string) {
	c.Notes = notes
	c.Touch()
}

// SetMarketingOptIn records marketing consent
func (c *Customer) SetMarketingOptIn(optIn bool) {
	c.MarketingOptIn = optIn
	c.Touch()
}

func validateName(name, field string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", field+" cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", field+" cannot exceed 100 characters")
	}
	return nil
}
