package persistence

import (
	"context"

	"github.com/google/uuid"
	appscheduling "github.com/menswear/backend/internal/application/scheduling"
	apptrade "github.com/menswear/backend/internal/application/trade"
	"github.com/menswear/backend/internal/domain/catalog"
	"github.com/menswear/backend/internal/domain/scheduling"
	"github.com/menswear/backend/internal/domain/trade"
	"gorm.io/gorm"
)

// GormOrderScope implements the order TransactionScope on the primary database
type GormOrderScope struct {
	pool *DBPool
}

// NewGormOrderScope creates a new GormOrderScope
func NewGormOrderScope(pool *DBPool) *GormOrderScope {
	return &GormOrderScope{pool: pool}
}

// Execute runs fn in a transaction. Any error rolls back every write made
// through the supplied repositories.
func (s *GormOrderScope) Execute(ctx context.Context, fn func(repos apptrade.TransactionalRepositories) error) error {
	return s.pool.Transaction(ctx, func(tx *gorm.DB) error {
		return fn(&gormOrderRepositories{tx: tx})
	})
}

type gormOrderRepositories struct {
	tx *gorm.DB
}

func (r *gormOrderRepositories) OrderRepo() trade.OrderRepository {
	return NewGormOrderRepository(r.tx)
}

func (r *gormOrderRepositories) ProductRepo() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

func (r *gormOrderRepositories) VariantRepo() catalog.VariantRepository {
	return NewGormVariantRepository(r.tx)
}

// GormStaffScope implements the scheduling StaffScope with a transaction
// scoped advisory lock per staff member
type GormStaffScope struct {
	pool *DBPool
}

// NewGormStaffScope creates a new GormStaffScope
func NewGormStaffScope(pool *DBPool) *GormStaffScope {
	return &GormStaffScope{pool: pool}
}

// WithStaffLock runs fn in a transaction holding the staff member's lock.
// Concurrent bookings for the same staff member queue behind it.
func (s *GormStaffScope) WithStaffLock(ctx context.Context, staffID uuid.UUID, fn func(repo scheduling.AppointmentRepository) error) error {
	return s.pool.Transaction(ctx, func(tx *gorm.DB) error {
		if tx.Dialector.Name() == "postgres" {
			if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", "appointments:staff:"+staffID.String()).Error; err != nil {
				return err
			}
		}
		return fn(NewGormAppointmentRepository(tx))
	})
}

var (
	_ apptrade.TransactionScope          = (*GormOrderScope)(nil)
	_ apptrade.TransactionalRepositories = (*gormOrderRepositories)(nil)
	_ appscheduling.StaffScope           = (*GormStaffScope)(nil)
)
