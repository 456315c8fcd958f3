package scheduling

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/menswear/backend/internal/domain/shared"
)

// AppointmentType is the kind of visit booked
type AppointmentType string

const (
	AppointmentTypeFitting      AppointmentType = "fitting"
	AppointmentTypeConsultation AppointmentType = "consultation"
	AppointmentTypeAlteration   AppointmentType = "alteration"
	AppointmentTypeWedding      AppointmentType = "wedding"
	AppointmentTypePickup       AppointmentType = "pickup"
)

// IsValid reports whether the type is known
func (t AppointmentType) IsValid() bool {
	switch t {
	case AppointmentTypeFitting, AppointmentTypeConsultation, AppointmentTypeAlteration,
		AppointmentTypeWedding, AppointmentTypePickup:
		return true
	}
	return false
}

// DefaultDuration returns the slot length used when none is requested
func (t AppointmentType) DefaultDuration() int {
	switch t {
	case AppointmentTypeWedding:
		return 90
	case AppointmentTypeFitting, AppointmentTypeConsultation:
		return 60
	case AppointmentTypePickup:
		return 15
	}
	return 30
}

// AppointmentStatus is the lifecycle state of an appointment
type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCompleted AppointmentStatus = "completed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusNoShow    AppointmentStatus = "no_show"
)

// IsValid reports whether the status is known
func (s AppointmentStatus) IsValid() bool {
	switch s {
	case AppointmentStatusScheduled, AppointmentStatusConfirmed, AppointmentStatusCompleted,
		AppointmentStatusCancelled, AppointmentStatusNoShow:
		return true
	}
	return false
}

// CanTransitionTo checks if the status can transition to the target status
func (s AppointmentStatus) CanTransitionTo(target AppointmentStatus) bool {
	switch s {
	case AppointmentStatusScheduled:
		return target == AppointmentStatusConfirmed || target == AppointmentStatusCancelled ||
			target == AppointmentStatusNoShow || target == AppointmentStatusCompleted
	case AppointmentStatusConfirmed:
		return target == AppointmentStatusCompleted || target == AppointmentStatusCancelled ||
			target == AppointmentStatusNoShow
	}
	return false
}

// IsActive reports whether the appointment still occupies its slot
func (s AppointmentStatus) IsActive() bool {
	return s == AppointmentStatusScheduled || s == AppointmentStatusConfirmed
}

// ActiveStatuses lists the statuses that block a staff member's calendar
func ActiveStatuses() []string {
	return []string{string(AppointmentStatusScheduled), string(AppointmentStatusConfirmed)}
}

const (
	MinDurationMinutes = 15
	MaxDurationMinutes = 240
)

// Appointment is a booked store visit
type Appointment struct {
	shared.BaseEntity
	CustomerID      *uuid.UUID
	StaffID         *uuid.UUID
	Name            string
	Email           string
	Phone           string
	Type            AppointmentType
	ScheduledAt     time.Time
	DurationMinutes int
	Status          AppointmentStatus
	Notes           string
}

// NewAppointment books a visit in scheduled status
func NewAppointment(name, email string, apptType AppointmentType, scheduledAt time.Time, durationMinutes int) (*Appointment, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Name cannot exceed 200 characters")
	}
	normalized, err := shared.NormalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if !apptType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TYPE", "Appointment type is not recognized")
	}
	if durationMinutes == 0 {
		durationMinutes = apptType.DefaultDuration()
	}

	a := &Appointment{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Email:      normalized,
		Type:       apptType,
		Status:     AppointmentStatusScheduled,
	}
	if err := a.Reschedule(scheduledAt, durationMinutes); err != nil {
		return nil, err
	}
	return a, nil
}

// Reschedule moves the appointment to a new slot
func (a *Appointment) Reschedule(scheduledAt time.Time, durationMinutes int) error {
	if scheduledAt.IsZero() {
		return shared.NewDomainError("INVALID_SCHEDULE", "Scheduled time is required")
	}
	if durationMinutes < MinDurationMinutes || durationMinutes > MaxDurationMinutes {
		return shared.NewDomainError("INVALID_DURATION",
			fmt.Sprintf("Duration must be between %d and %d minutes", MinDurationMinutes, MaxDurationMinutes))
	}
	if !a.Status.IsActive() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot reschedule a %s appointment", a.Status))
	}
	a.ScheduledAt = scheduledAt.UTC()
	a.DurationMinutes = durationMinutes
	a.Touch()
	return nil
}

// EndsAt returns the end of the slot
func (a *Appointment) EndsAt() time.Time {
	return a.ScheduledAt.Add(time.Duration(a.DurationMinutes) * time.Minute)
}

// Overlaps reports whether two slots share any time; touching slots do not overlap
func (a *Appointment) Overlaps(start, end time.Time) bool {
	return a.ScheduledAt.Before(end) && start.Before(a.EndsAt())
}

// SetContact updates the phone and notes
func (a *Appointment) SetContact(phone, notes string) {
	a.Phone = strings.TrimSpace(phone)
	a.Notes = notes
	a.Touch()
}

// AssignStaff sets or clears the staff member running the appointment
func (a *Appointment) AssignStaff(staffID *uuid.UUID) {
	a.StaffID = staffID
	a.Touch()
}

// LinkCustomer attaches the appointment to a customer record
func (a *Appointment) LinkCustomer(customerID *uuid.UUID) {
	a.CustomerID = customerID
	a.Touch()
}

// TransitionTo moves the appointment to the target status
func (a *Appointment) TransitionTo(target AppointmentStatus) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown appointment status %q", target))
	}
	if !a.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATUS_TRANSITION",
			fmt.Sprintf("Cannot move appointment from %s to %s", a.Status, target))
	}
	a.Status = target
	a.Touch()
	return nil
}
