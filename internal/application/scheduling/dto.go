package scheduling

import (
	"time"

	"github.com/google/uuid"
	"github.com/menswear/backend/internal/domain/scheduling"
)

// CreateAppointmentRequest represents a back-office booking
type CreateAppointmentRequest struct {
	CustomerID      *uuid.UUID `json:"customer_id"`
	StaffID         *uuid.UUID `json:"staff_id"`
	Name            string     `json:"name" binding:"required,min=1,max=200"`
	Email           string     `json:"email" binding:"required,email"`
	Phone           string     `json:"phone" binding:"max=50"`
	Type            string     `json:"type" binding:"required,oneof=fitting consultation alteration wedding pickup"`
	ScheduledAt     time.Time  `json:"scheduled_at" binding:"required"`
	DurationMinutes int        `json:"duration_minutes" binding:"omitempty,min=15,max=240"`
	Notes           string     `json:"notes" binding:"max=2000"`
}

// BookAppointmentRequest is the public booking form
type BookAppointmentRequest struct {
	Name        string    `json:"name" binding:"required,min=1,max=200"`
	Email       string    `json:"email" binding:"required,email"`
	Phone       string    `json:"phone" binding:"max=50"`
	Type        string    `json:"type" binding:"required,oneof=fitting consultation alteration wedding pickup"`
	ScheduledAt time.Time `json:"scheduled_at" binding:"required"`
	Notes       string    `json:"notes" binding:"max=2000"`
}

// UpdateAppointmentRequest reschedules or edits an appointment.
// ClearStaff unassigns the staff member.
type UpdateAppointmentRequest struct {
	StaffID         *uuid.UUID `json:"staff_id"`
	ClearStaff      bool       `json:"clear_staff"`
	Phone           *string    `json:"phone" binding:"omitempty,max=50"`
	Notes           *string    `json:"notes" binding:"omitempty,max=2000"`
	ScheduledAt     *time.Time `json:"scheduled_at"`
	DurationMinutes *int       `json:"duration_minutes" binding:"omitempty,min=15,max=240"`
}

// UpdateAppointmentStatusRequest moves an appointment through its lifecycle
type UpdateAppointmentStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=scheduled confirmed completed cancelled no_show"`
}

// AppointmentListFilter represents filter options for the appointment list
type AppointmentListFilter struct {
	Search     string `form:"search"`
	Status     string `form:"status" binding:"omitempty,oneof=scheduled confirmed completed cancelled no_show"`
	Type       string `form:"type" binding:"omitempty,oneof=fitting consultation alteration wedding pickup"`
	StaffID    string `form:"staff_id" binding:"omitempty,uuid"`
	CustomerID string `form:"customer_id" binding:"omitempty,uuid"`
	From       string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To         string `form:"to" binding:"omitempty,datetime=2006-01-02"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string `form:"order_by"`
	OrderDir   string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// AppointmentResponse represents an appointment in API responses
type AppointmentResponse struct {
	ID              uuid.UUID  `json:"id"`
	CustomerID      *uuid.UUID `json:"customer_id,omitempty"`
	StaffID         *uuid.UUID `json:"staff_id,omitempty"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	Phone           string     `json:"phone,omitempty"`
	Type            string     `json:"type"`
	ScheduledAt     time.Time  `json:"scheduled_at"`
	EndsAt          time.Time  `json:"ends_at"`
	DurationMinutes int        `json:"duration_minutes"`
	Status          string     `json:"status"`
	Notes           string     `json:"notes,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// ToAppointmentResponse converts a domain Appointment to AppointmentResponse
func ToAppointmentResponse(a *scheduling.Appointment) AppointmentResponse {
	return AppointmentResponse{
		ID:              a.ID,
		CustomerID:      a.CustomerID,
		StaffID:         a.StaffID,
		Name:            a.Name,
		Email:           a.Email,
		Phone:           a.Phone,
		Type:            string(a.Type),
		ScheduledAt:     a.ScheduledAt,
		EndsAt:          a.EndsAt(),
		DurationMinutes: a.DurationMinutes,
		Status:          string(a.Status),
		Notes:           a.Notes,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

// ToAppointmentResponses converts a slice of appointments
func ToAppointmentResponses(appointments []scheduling.Appointment) []AppointmentResponse {
	out := make([]AppointmentResponse, len(appointments))
	for i := range appointments {
		out[i] = ToAppointmentResponse(&appointments[i])
	}
	return out
}
