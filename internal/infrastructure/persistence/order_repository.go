package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/menswear/backend/internal/domain/shared"
	"github.com/menswear/backend/internal/domain/trade"
	"github.com/menswear/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

func preloadItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC, sku ASC")
	})
}

// FindByID finds an order by its ID with its items
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*trade.Order, error) {
	var model models.OrderModel
	if err := preloadItems(r.db.WithContext(ctx)).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByOrderNumber finds an order by its number with its items
func (r *GormOrderRepository) FindByOrderNumber(ctx context.Context, orderNumber string) (*trade.Order, error) {
	var model models.OrderModel
	if err := preloadItems(r.db.WithContext(ctx)).Where("order_number = ?", orderNumber).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByPaymentIntent finds the order attached to a payment intent
func (r *GormOrderRepository) FindByPaymentIntent(ctx context.Context, paymentIntentID string) (*trade.Order, error) {
	if paymentIntentID == "" {
		return nil, shared.ErrNotFound
	}
	var model models.OrderModel
	if err := preloadItems(r.db.WithContext(ctx)).Where("payment_intent_id = ?", paymentIntentID).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll finds all orders matching the filter
func (r *GormOrderRepository) FindAll(ctx context.Context, filter shared.Filter) ([]trade.Order, error) {
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.OrderModel{}), filter)
	return r.find(applyPagination(applyOrder(query, filter, orderSorts), filter))
}

// Count counts orders matching the filter
func (r *GormOrderRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.OrderModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindByCustomer lists a customer's orders
func (r *GormOrderRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter shared.Filter) ([]trade.Order, error) {
	query := r.applyFilterWithoutPagination(
		r.db.WithContext(ctx).Model(&models.OrderModel{}).Where("customer_id = ?", customerID),
		filter,
	)
	return r.find(applyPagination(applyOrder(query, filter, orderSorts), filter))
}

// CountByCustomer counts a customer's orders
func (r *GormOrderRepository) CountByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.OrderModel{}).
		Where("customer_id = ?", customerID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormOrderRepository) find(query *gorm.DB) ([]trade.Order, error) {
	var orderModels []models.OrderModel
	if err := preloadItems(query).Find(&orderModels).Error; err != nil {
		return nil, err
	}
	orders := make([]trade.Order, len(orderModels))
	for i := range orderModels {
		orders[i] = *orderModels[i].ToDomain()
	}
	return orders, nil
}

// Create inserts the order and its items
func (r *GormOrderRepository) Create(ctx context.Context, order *trade.Order) error {
	return translateError(r.db.WithContext(ctx).Create(models.OrderModelFromDomain(order, true)).Error)
}

// Update saves the order header
func (r *GormOrderRepository) Update(ctx context.Context, order *trade.Order) error {
	model := models.OrderModelFromDomain(order, false)
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
	order.UpdatedAt = model.UpdatedAt
	return nil
}

// Delete soft-deletes an order. Items stay for reporting on historical data.
func (r *GormOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.OrderModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormOrderRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		query = likeAny(query, searchPattern(filter.Search), "order_number", "ship_name")
	}
	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "customer_id":
			query = query.Where("customer_id = ?", value)
		case "from":
			query = query.Where("created_at >= ?", value)
		case "to":
			query = query.Where("created_at < ?", value)
		}
	}
	return query
}

var _ trade.OrderRepository = (*GormOrderRepository)(nil)
