package scheduling

import (
	"context"

	"github.com/google/uuid"
	"github.com/menswear/backend/internal/domain/scheduling"
)

// StaffScope serializes bookings for one staff member. fn runs in a single
// transaction that holds the staff member's lock until it commits, so the
// overlap check and the write cannot interleave with another booking.
type StaffScope interface {
	WithStaffLock(ctx context.Context, staffID uuid.UUID, fn func(repo scheduling.AppointmentRepository) error) error
}

// NoOpStaffScope runs fn against the plain repository. Used in tests.
type NoOpStaffScope struct {
	repo scheduling.AppointmentRepository
}

// NewNoOpStaffScope creates a NoOpStaffScope
func NewNoOpStaffScope(repo scheduling.AppointmentRepository) *NoOpStaffScope {
	return &NoOpStaffScope{repo: repo}
}

// WithStaffLock runs fn without locking
func (s *NoOpStaffScope) WithStaffLock(_ context.Context, _ uuid.UUID, fn func(repo scheduling.AppointmentRepository) error) error {
	return fn(s.repo)
}
