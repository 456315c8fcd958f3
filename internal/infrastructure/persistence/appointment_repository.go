package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/menswear/backend/internal/domain/scheduling"
	"github.com/menswear/backend/internal/domain/shared"
	"github.com/menswear/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormAppointmentRepository implements AppointmentRepository using GORM
type GormAppointmentRepository struct {
	db *gorm.DB
}

// NewGormAppointmentRepository creates a new GormAppointmentRepository
func NewGormAppointmentRepository(db *gorm.DB) *GormAppointmentRepository {
	return &GormAppointmentRepository{db: db}
}

// FindByID finds an appointment by its ID
func (r *GormAppointmentRepository) FindByID(ctx context.Context, id uuid.UUID) (*scheduling.Appointment, error) {
	var model models.AppointmentModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll finds all appointments matching the filter
func (r *GormAppointmentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]scheduling.Appointment, error) {
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.AppointmentModel{}), filter)
	query = applyPagination(applyOrder(query, filter, appointmentSorts), filter)

	var appointmentModels []models.AppointmentModel
	if err := query.Find(&appointmentModels).Error; err != nil {
		return nil, err
	}
	return toAppointments(appointmentModels), nil
}

// Count counts appointments matching the filter
func (r *GormAppointmentRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.AppointmentModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindStaffOverlaps narrows candidates by start time in SQL and checks the
// exact interval in Go, since end time is not a stored column.
func (r *GormAppointmentRepository) FindStaffOverlaps(ctx context.Context, staffID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) ([]scheduling.Appointment, error) {
	earliest := start.Add(-time.Duration(scheduling.MaxDurationMinutes) * time.Minute)
	query := r.db.WithContext(ctx).
		Where("staff_id = ?", staffID).
		Where("status IN ?", scheduling.ActiveStatuses()).
		Where("scheduled_at < ? AND scheduled_at > ?", end.UTC(), earliest.UTC())
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}

	var candidates []models.AppointmentModel
	if err := query.Order("scheduled_at ASC").Find(&candidates).Error; err != nil {
		return nil, err
	}

	overlaps := make([]scheduling.Appointment, 0, len(candidates))
	for _, a := range toAppointments(candidates) {
		if a.Overlaps(start, end) {
			overlaps = append(overlaps, a)
		}
	}
	return overlaps, nil
}

// Create inserts a new appointment
func (r *GormAppointmentRepository) Create(ctx context.Context, appointment *scheduling.Appointment) error {
	return translateError(r.db.WithContext(ctx).Create(models.AppointmentModelFromDomain(appointment)).Error)
}

// Update writes every column of an existing appointment
func (r *GormAppointmentRepository) Update(ctx context.Context, appointment *scheduling.Appointment) error {
	model := models.AppointmentModelFromDomain(appointment)
	result := r.db.WithContext(ctx).Model(model).
		Select("*").
		Omit(clause.Associations, "created_at", "deleted_at").
		Updates(model)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	appointment.UpdatedAt = model.UpdatedAt
	return nil
}

// Delete soft-deletes an appointment
func (r *GormAppointmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.AppointmentModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormAppointmentRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = likeAny(query, searchPattern(filter.Search), "name", "email", "phone")
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "type":
			query = query.Where("type = ?", value)
		case "staff_id":
			query = query.Where("staff_id = ?", value)
		case "customer_id":
			query = query.Where("customer_id = ?", value)
		case "from":
			query = query.Where("scheduled_at >= ?", value)
		case "to":
			query = query.Where("scheduled_at < ?", value)
		}
	}
	return query
}

func toAppointments(ms []models.AppointmentModel) []scheduling.Appointment {
	appointments := make([]scheduling.Appointment, len(ms))
	for i := range ms {
		appointments[i] = *ms[i].ToDomain()
	}
	return appointments
}

var _ scheduling.AppointmentRepository = (*GormAppointmentRepository)(nil)
