package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/menswear/backend/internal/domain/partner"
	"github.com/menswear/backend/internal/domain/report"
	"github.com/menswear/backend/internal/domain/scheduling"
	"github.com/menswear/backend/internal/domain/trade"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormDashboardRepository implements DashboardRepository with aggregate SQL
// that runs on both PostgreSQL and SQLite.
type GormDashboardRepository struct {
	conn func() *gorm.DB
}

// NewGormDashboardRepository creates a GormDashboardRepository on a fixed connection
func NewGormDashboardRepository(db *gorm.DB) *GormDashboardRepository {
	return &GormDashboardRepository{conn: func() *gorm.DB { return db }}
}

// NewPooledDashboardRepository reads through pool.Reader, so queries move to
// the primary while the replica is down
func NewPooledDashboardRepository(pool *DBPool) *GormDashboardRepository {
	return &GormDashboardRepository{conn: pool.Reader}
}

func (r *GormDashboardRepository) revenueOrders(ctx context.Context, rng report.DateRange) *gorm.DB {
	return r.conn().WithContext(ctx).Table("orders o").
		Where("o.deleted_at IS NULL").
		Where("o.status IN ?", trade.RevenueStatuses()).
		Where("o.created_at >= ? AND o.created_at < ?", rng.Start.UTC(), rng.End.UTC())
}

// GetSalesSummary returns revenue figures for orders in revenue statuses
func (r *GormDashboardRepository) GetSalesSummary(ctx context.Context, rng report.DateRange) (*report.SalesSummary, error) {
	var result struct {
		Revenue    decimal.Decimal
		OrderCount int64
	}
	if err := r.revenueOrders(ctx, rng).
		Select("COALESCE(SUM(o.total), 0) AS revenue, COUNT(*) AS order_count").
		Scan(&result).Error; err != nil {
		return nil, err
	}

	summary := &report.SalesSummary{
		Revenue:       result.Revenue.Round(2),
		OrderCount:    result.OrderCount,
		AvgOrderValue: decimal.Zero,
	}
	if result.OrderCount > 0 {
		summary.AvgOrderValue = result.Revenue.Div(decimal.NewFromInt(result.OrderCount)).Round(2)
	}
	return summary, nil
}

// CountCustomers counts live customers
func (r *GormDashboardRepository) CountCustomers(ctx context.Context) (int64, error) {
	var count int64
	err := r.conn().WithContext(ctx).Table("customers").Where("deleted_at IS NULL").Count(&count).Error
	return count, err
}

// CountNewCustomers counts customers created within the range
func (r *GormDashboardRepository) CountNewCustomers(ctx context.Context, rng report.DateRange) (int64, error) {
	var count int64
	err := r.conn().WithContext(ctx).Table("customers").
		Where("deleted_at IS NULL").
		Where("created_at >= ? AND created_at < ?", rng.Start.UTC(), rng.End.UTC()).
		Count(&count).Error
	return count, err
}

// CountOpenLeads counts leads that are neither converted nor lost
func (r *GormDashboardRepository) CountOpenLeads(ctx context.Context) (int64, error) {
	var count int64
	err := r.conn().WithContext(ctx).Table("leads").
		Where("deleted_at IS NULL").
		Where("status IN ?", []string{
			string(partner.LeadStatusNew),
			string(partner.LeadStatusContacted),
			string(partner.LeadStatusQualified),
		}).
		Count(&count).Error
	return count, err
}

// CountUpcomingAppointments counts active appointments starting at or after from
func (r *GormDashboardRepository) CountUpcomingAppointments(ctx context.Context, from time.Time) (int64, error) {
	var count int64
	err := r.conn().WithContext(ctx).Table("appointments").
		Where("deleted_at IS NULL").
		Where("status IN ?", scheduling.ActiveStatuses()).
		Where("scheduled_at >= ?", from.UTC()).
		Count(&count).Error
	return count, err
}

func (r *GormDashboardRepository) lowStock(ctx context.Context, threshold int) *gorm.DB {
	return r.conn().WithContext(ctx).Table("product_variants v").
		Joins("JOIN products p ON p.id = v.product_id AND p.deleted_at IS NULL").
		Where("v.deleted_at IS NULL").
		Where("v.stock <= ?", threshold)
}

// CountLowStock counts live variants at or under the threshold
func (r *GormDashboardRepository) CountLowStock(ctx context.Context, threshold int) (int64, error) {
	var count int64
	err := r.lowStock(ctx, threshold).Count(&count).Error
	return count, err
}

// GetDailySalesTrend returns one row per day that has revenue orders
func (r *GormDashboardRepository) GetDailySalesTrend(ctx context.Context, rng report.DateRange) ([]report.DailySalesTrend, error) {
	var rows []struct {
		Day        string
		OrderCount int64
		Revenue    decimal.Decimal
	}
	if err := r.revenueOrders(ctx, rng).
		Select("DATE(o.created_at) AS day, COUNT(*) AS order_count, COALESCE(SUM(o.total), 0) AS revenue").
		Group("DATE(o.created_at)").
		Order("day ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	trends := make([]report.DailySalesTrend, len(rows))
	for i, row := range rows {
		trends[i] = report.DailySalesTrend{
			Date:       normalizeDay(row.Day),
			OrderCount: row.OrderCount,
			Revenue:    row.Revenue.Round(2),
		}
	}
	return trends, nil
}

// normalizeDay trims driver-specific renderings of a DATE value to YYYY-MM-DD
func normalizeDay(day string) string {
	if len(day) > 10 {
		return day[:10]
	}
	return day
}

// GetTopProducts ranks products by units sold within the range
func (r *GormDashboardRepository) GetTopProducts(ctx context.Context, rng report.DateRange, limit int) ([]report.ProductSalesRanking, error) {
	if limit <= 0 {
		limit = 10
	}
	var rows []struct {
		ProductID     uuid.UUID
		ProductName   string
		TotalQuantity int64
		TotalAmount   decimal.Decimal
		OrderCount    int64
	}
	if err := r.revenueOrders(ctx, rng).
		Select(`
			oi.product_id,
			MAX(oi.name) AS product_name,
			COALESCE(SUM(oi.quantity), 0) AS total_quantity,
			COALESCE(SUM(oi.line_total), 0) AS total_amount,
			COUNT(DISTINCT o.id) AS order_count
		`).
		Joins("JOIN order_items oi ON oi.order_id = o.id").
		Group("oi.product_id").
		Order("total_quantity DESC, total_amount DESC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	rankings := make([]report.ProductSalesRanking, len(rows))
	for i, row := range rows {
		rankings[i] = report.ProductSalesRanking{
			Rank:          i + 1,
			ProductID:     row.ProductID,
			ProductName:   row.ProductName,
			TotalQuantity: row.TotalQuantity,
			TotalAmount:   row.TotalAmount.Round(2),
			OrderCount:    row.OrderCount,
		}
	}
	return rankings, nil
}

// GetLowStock lists variants at or under the threshold, lowest stock first
func (r *GormDashboardRepository) GetLowStock(ctx context.Context, threshold, limit int) ([]report.LowStockVariant, error) {
	if limit <= 0 {
		limit = 20
	}
	var rows []report.LowStockVariant
	if err := r.lowStock(ctx, threshold).
		Select("v.id AS variant_id, v.product_id, p.name AS product_name, v.sku, v.size, v.color, v.stock").
		Order("v.stock ASC, v.sku ASC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []report.LowStockVariant{}
	}
	return rows, nil
}

// GetRecentOrders returns the newest orders regardless of status
func (r *GormDashboardRepository) GetRecentOrders(ctx context.Context, limit int) ([]report.RecentOrder, error) {
	if limit <= 0 {
		limit = 10
	}
	var rows []report.RecentOrder
	if err := r.conn().WithContext(ctx).Table("orders o").
		Select(`o.id, o.order_number, COALESCE(c.first_name || ' ' || c.last_name, '') AS customer_name,
			o.status, o.total, o.created_at`).
		Joins("LEFT JOIN customers c ON c.id = o.customer_id").
		Where("o.deleted_at IS NULL").
		Order("o.created_at DESC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []report.RecentOrder{}
	}
	return rows, nil
}

var _ report.DashboardRepository = (*GormDashboardRepository)(nil)
