package scheduling

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/menswear/backend/internal/domain/shared"
)

// AppointmentRepository defines persistence operations for appointments
type AppointmentRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Appointment, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	// FindStaffOverlaps returns active appointments for staffID intersecting [start, end),
	// ignoring excludeID when it is set
	FindStaffOverlaps(ctx context.Context, staffID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) ([]Appointment, error)
	Create(ctx context.Context, appointment *Appointment) error
	Update(ctx context.Context, appointment *Appointment) error
	Delete(ctx context.Context, id uuid.UUID) error
}
