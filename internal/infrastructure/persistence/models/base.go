package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/menswear/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// BaseModel provides common persistence fields for all models.
// It maps to the domain's BaseEntity.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// ToDomain converts BaseModel to domain BaseEntity
func (m *BaseModel) ToDomain() shared.BaseEntity {
	return shared.BaseEntity{
		ID:        m.ID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomainBaseEntity populates BaseModel from domain BaseEntity
func (m *BaseModel) FromDomainBaseEntity(e shared.BaseEntity) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}

// SoftDeleteModel adds a deleted_at column; GORM hides rows where it is set
type SoftDeleteModel struct {
	BaseModel
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// AllModels lists every model in dependency order, for AutoMigrate in tests and tools
func AllModels() []any {
	return []any{
		&UserModel{},
		&CustomerModel{},
		&LeadModel{},
		&ProductModel{},
		&ProductVariantModel{},
		&OrderModel{},
		&OrderItemModel{},
		&AppointmentModel{},
	}
}
