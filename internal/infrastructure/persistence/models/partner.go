package models

import (
	"github.com/google/uuid"
	"github.com/menswear/backend/internal/domain/partner"
)

// MeasurementsModel holds tailoring measurements as measure_* columns
type MeasurementsModel struct {
	Chest    float64 `gorm:"not null;default:0"`
	Waist    float64 `gorm:"not null;default:0"`
	Hips     float64 `gorm:"not null;default:0"`
	Inseam   float64 `gorm:"not null;default:0"`
	Neck     float64 `gorm:"not null;default:0"`
	Sleeve   float64 `gorm:"not null;default:0"`
	Shoulder float64 `gorm:"not null;default:0"`
}

// CustomerModel is the persistence model for the Customer domain entity.
// Email is unique among live rows.
type CustomerModel struct {
	SoftDeleteModel
	Email          string            `gorm:"type:varchar(255);not null;uniqueIndex:idx_customers_email_live,where:deleted_at IS NULL"`
	FirstName      string            `gorm:"type:varchar(100);not null"`
	LastName       string            `gorm:"type:varchar(100);not null"`
	Phone          string            `gorm:"type:varchar(50)"`
	AddressLine1   string            `gorm:"type:varchar(255)"`
	AddressLine2   string            `gorm:"type:varchar(255)"`
	City           string            `gorm:"type:varchar(100)"`
	State          string            `gorm:"type:varchar(100)"`
	PostalCode     string            `gorm:"type:varchar(20)"`
	Country        string            `gorm:"type:varchar(100)"`
	Measurements   MeasurementsModel `gorm:"embedded;embeddedPrefix:measure_"`
	Notes          string            `gorm:"type:text"`
	MarketingOptIn bool              `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer entity.
func (m *CustomerModel) ToDomain() *partner.Customer {
	return &partner.Customer{
		BaseEntity: m.BaseModel.ToDomain(),
		Email:      m.Email,
		FirstName:  m.FirstName,
		LastName:   m.LastName,
		Phone:      m.Phone,
		Address: partner.Address{
			Line1:      m.AddressLine1,
			Line2:      m.AddressLine2,
			City:       m.City,
			State:      m.State,
			PostalCode: m.PostalCode,
			Country:    m.Country,
		},
		Measurements:   partner.Measurements(m.Measurements),
		Notes:          m.Notes,
		MarketingOptIn: m.MarketingOptIn,
	}
}

// FromDomain populates the persistence model from a domain Customer entity.
func (m *CustomerModel) FromDomain(c *partner.Customer) {
	m.FromDomainBaseEntity(c.BaseEntity)
	m.Email = c.Email
	m.FirstName = c.FirstName
	m.LastName = c.LastName
	m.Phone = c.Phone
	m.AddressLine1 = c.Address.Line1
	m.AddressLine2 = c.Address.Line2
	m.City = c.Address.City
	m.State = c.Address.State
	m.PostalCode = c.Address.PostalCode
	m.Country = c.Address.Country
	m.Measurements = MeasurementsModel(c.Measurements)
	m.Notes = c.Notes
	m.MarketingOptIn = c.MarketingOptIn
}

// CustomerModelFromDomain creates a new persistence model from a domain Customer entity.
func CustomerModelFromDomain(c *partner.Customer) *CustomerModel {
	m := &CustomerModel{}
	m.FromDomain(c)
	return m
}

// LeadModel is the persistence model for the Lead domain entity.
type LeadModel struct {
	SoftDeleteModel
	Name       string             `gorm:"type:varchar(200);not null"`
	Email      string             `gorm:"type:varchar(255);not null;index"`
	Phone      string             `gorm:"type:varchar(50)"`
	Source     partner.LeadSource `gorm:"type:varchar(30);not null;default:'website'"`
	Status     partner.LeadStatus `gorm:"type:varchar(20);not null;default:'new';index"`
	Interest   string             `gorm:"type:varchar(200)"`
	Message    string             `gorm:"type:text"`
	CustomerID *uuid.UUID         `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (LeadModel) TableName() string {
	return "leads"
}

// ToDomain converts the persistence model to a domain Lead entity.
func (m *LeadModel) ToDomain() *partner.Lead {
	return &partner.Lead{
		BaseEntity: m.BaseModel.ToDomain(),
		Name:       m.Name,
		Email:      m.Email,
		Phone:      m.Phone,
		Source:     m.Source,
		Status:     m.Status,
		Interest:   m.Interest,
		Message:    m.Message,
		CustomerID: m.CustomerID,
	}
}

// LeadModelFromDomain creates a new persistence model from a domain Lead entity.
func LeadModelFromDomain(l *partner.Lead) *LeadModel {
	m := &LeadModel{
		Name:       l.Name,
		Email:      l.Email,
		Phone:      l.Phone,
		Source:     l.Source,
		Status:     l.Status,
		Interest:   l.Interest,
		Message:    l.Message,
		CustomerID: l.CustomerID,
	}
	m.FromDomainBaseEntity(l.BaseEntity)
	return m
}
