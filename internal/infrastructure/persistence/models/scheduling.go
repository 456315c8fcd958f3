package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/menswear/backend/internal/domain/scheduling"
)

// AppointmentModel is the persistence model for the Appointment domain entity.
type AppointmentModel struct {
	SoftDeleteModel
	CustomerID      *uuid.UUID                   `gorm:"type:uuid;index"`
	StaffID         *uuid.UUID                   `gorm:"type:uuid;index:idx_appointments_staff_time,priority:1"`
	Name            string                       `gorm:"type:varchar(200);not null"`
	Email           string                       `gorm:"type:varchar(255);not null"`
	Phone           string                       `gorm:"type:varchar(50)"`
	Type            scheduling.AppointmentType   `gorm:"type:varchar(30);not null"`
	ScheduledAt     time.Time                    `gorm:"not null;index:idx_appointments_staff_time,priority:2"`
	DurationMinutes int                          `gorm:"not null;check:chk_appointments_duration,duration_minutes BETWEEN 15 AND 240"`
	Status          scheduling.AppointmentStatus `gorm:"type:varchar(20);not null;default:'scheduled';index"`
	Notes           string                       `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (AppointmentModel) TableName() string {
	return "appointments"
}

// ToDomain converts the persistence model to a domain Appointment entity.
func (m *AppointmentModel) ToDomain() *scheduling.Appointment {
	return &scheduling.Appointment{
		BaseEntity:      m.BaseModel.ToDomain(),
		CustomerID:      m.CustomerID,
		StaffID:         m.StaffID,
		Name:            m.Name,
		Email:           m.Email,
		Phone:           m.Phone,
		Type:            m.Type,
		ScheduledAt:     m.ScheduledAt.UTC(),
		DurationMinutes: m.DurationMinutes,
		Status:          m.Status,
		Notes:           m.Notes,
	}
}

// AppointmentModelFromDomain creates a new persistence model from a domain Appointment entity.
func AppointmentModelFromDomain(a *scheduling.Appointment) *AppointmentModel {
	m := &AppointmentModel{
		CustomerID:      a.CustomerID,
		StaffID:         a.StaffID,
		Name:            a.Name,
		Email:           a.Email,
		Phone:           a.Phone,
		Type:            a.Type,
		ScheduledAt:     a.ScheduledAt,
		DurationMinutes: a.DurationMinutes,
		Status:          a.Status,
		Notes:           a.Notes,
	}
	m.FromDomainBaseEntity(a.BaseEntity)
	return m
}
