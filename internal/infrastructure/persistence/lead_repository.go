package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/menswear/backend/internal/domain/partner"
	"github.com/menswear/backend/internal/domain/shared"
	"github.com/menswear/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormLeadRepository implements LeadRepository using GORM
type GormLeadRepository struct {
	db *gorm.DB
}

// NewGormLeadRepository creates a new GormLeadRepository
func NewGormLeadRepository(db *gorm.DB) *GormLeadRepository {
	return &GormLeadRepository{db: db}
}

// FindByID finds a lead by its ID
func (r *GormLeadRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Lead, error) {
	var model models.LeadModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll finds all leads matching the filter
func (r *GormLeadRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Lead, error) {
	var leadModels []models.LeadModel
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.LeadModel{}), filter)
	query = applyPagination(applyOrder(query, filter, leadSorts), filter)

	if err := query.Find(&leadModels).Error; err != nil {
		return nil, err
	}

	leads := make([]partner.Lead, len(leadModels))
	for i := range leadModels {
		leads[i] = *leadModels[i].ToDomain()
	}
	return leads, nil
}

// Count counts leads matching the filter
func (r *GormLeadRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.LeadModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create inserts a new lead
func (r *GormLeadRepository) Create(ctx context.Context, lead *partner.Lead) error {
	return translateError(r.db.WithContext(ctx).Create(models.LeadModelFromDomain(lead)).Error)
}

// Update writes every column of an existing lead
func (r *GormLeadRepository) Update(ctx context.Context, lead *partner.Lead) error {
	model := models.LeadModelFromDomain(lead)
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
	lead.UpdatedAt = model.UpdatedAt
	return nil
}

// Delete soft-deletes a lead
func (r *GormLeadRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.LeadModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormLeadRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = likeAny(query, searchPattern(filter.Search), "name", "email", "interest")
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "source":
			query = query.Where("source = ?", value)
		case "customer_id":
			query = query.Where("customer_id = ?", value)
		case "email":
			query = query.Where("email = ?", value)
		}
	}
	return query
}

var _ partner.LeadRepository = (*GormLeadRepository)(nil)
