package scheduling

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/menswear/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var slot = time.Date(2026, 5, 4, 14, 0, 0, 0, time.UTC)

func TestNewAppointment(t *testing.T) {
	t.Run("uses type default duration", func(t *testing.T) {
		a, err := NewAppointment("James Hale", "James@Example.com", AppointmentTypeWedding, slot, 0)
		require.NoError(t, err)
		assert.Equal(t, 90, a.DurationMinutes)
		assert.Equal(t, "james@example.com", a.Email)
		assert.Equal(t, AppointmentStatusScheduled, a.Status)
		assert.Equal(t, slot.Add(90*time.Minute), a.EndsAt())
	})

	t.Run("rejects duration out of range", func(t *testing.T) {
		_, err := NewAppointment("A", "a@example.com", AppointmentTypeFitting, slot, 10)
		assert.True(t, shared.HasCode(err, "INVALID_DURATION"))
		_, err = NewAppointment("A", "a@example.com", AppointmentTypeFitting, slot, 241)
		assert.True(t, shared.HasCode(err, "INVALID_DURATION"))
	})

	t.Run("rejects unknown type and missing time", func(t *testing.T) {
		_, err := NewAppointment("A", "a@example.com", AppointmentType("haircut"), slot, 30)
		assert.True(t, shared.HasCode(err, "INVALID_TYPE"))
		_, err = NewAppointment("A", "a@example.com", AppointmentTypeFitting, time.Time{}, 30)
		assert.True(t, shared.HasCode(err, "INVALID_SCHEDULE"))
	})
}

func TestAppointment_Overlaps(t *testing.T) {
	a, err := NewAppointment("A", "a@example.com", AppointmentTypeFitting, slot, 60)
	require.NoError(t, err)

	assert.True(t, a.Overlaps(slot.Add(30*time.Minute), slot.Add(90*time.Minute)))
	assert.True(t, a.Overlaps(slot.Add(-30*time.Minute), slot.Add(10*time.Minute)))
	assert.False(t, a.Overlaps(slot.Add(60*time.Minute), slot.Add(90*time.Minute)))
	assert.False(t, a.Overlaps(slot.Add(-60*time.Minute), slot))
}

func TestAppointment_TransitionTo(t *testing.T) {
	a, err := NewAppointment("A", "a@example.com", AppointmentTypeAlteration, slot, 30)
	require.NoError(t, err)

	require.NoError(t, a.TransitionTo(AppointmentStatusConfirmed))
	err = a.TransitionTo(AppointmentStatusScheduled)
	assert.True(t, shared.HasCode(err, "INVALID_STATUS_TRANSITION"))

	require.NoError(t, a.TransitionTo(AppointmentStatusCompleted))
	assert.False(t, a.Status.IsActive())

	err = a.Reschedule(slot.Add(time.Hour), 30)
	assert.True(t, shared.HasCode(err, "INVALID_STATE"))

	err = a.TransitionTo(AppointmentStatus("late"))
	assert.True(t, shared.HasCode(err, "INVALID_STATUS"))
}

func TestAppointment_AssignStaff(t *testing.T) {
	a, err := NewAppointment("A", "a@example.com", AppointmentTypePickup, slot, 0)
	require.NoError(t, err)
	staff := uuid.New()
	a.AssignStaff(&staff)
	assert.Equal(t, staff, *a.StaffID)
	assert.Equal(t, 15, a.DurationMinutes)
}
