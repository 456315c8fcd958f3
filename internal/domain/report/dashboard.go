package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DateRange bounds an analytics query; End is exclusive
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// DefaultRange returns the last 30 days ending at the start of tomorrow
func DefaultRange(now time.Time) DateRange {
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	return DateRange{Start: end.AddDate(0, 0, -30), End: end}
}

// SalesSummary provides aggregated sales statistics
type SalesSummary struct {
	Revenue       decimal.Decimal `json:"revenue"`
	OrderCount    int64           `json:"order_count"`
	AvgOrderValue decimal.Decimal `json:"avg_order_value"`
}

// Overview is the headline dashboard card set
type Overview struct {
	Range                DateRange       `json:"range"`
	Revenue              decimal.Decimal `json:"revenue"`
	OrderCount           int64           `json:"order_count"`
	AvgOrderValue        decimal.Decimal `json:"avg_order_value"`
	CustomerCount        int64           `json:"customer_count"`
	NewCustomers         int64           `json:"new_customers"`
	OpenLeads            int64           `json:"open_leads"`
	UpcomingAppointments int64           `json:"upcoming_appointments"`
	LowStockVariants     int64           `json:"low_stock_variants"`
}

// DailySalesTrend represents daily sales trend data
type DailySalesTrend struct {
	Date       string          `json:"date"`
	OrderCount int64           `json:"order_count"`
	Revenue    decimal.Decimal `json:"revenue"`
}

// ProductSalesRanking represents product sales ranking
type ProductSalesRanking struct {
	Rank          int             `json:"rank"`
	ProductID     uuid.UUID       `json:"product_id"`
	ProductName   string          `json:"product_name"`
	TotalQuantity int64           `json:"total_quantity"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	OrderCount    int64           `json:"order_count"`
}

// LowStockVariant is a variant at or under the stock threshold
type LowStockVariant struct {
	VariantID   uuid.UUID `json:"variant_id"`
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	SKU         string    `json:"sku"`
	Size        string    `json:"size"`
	Color       string    `json:"color"`
	Stock       int       `json:"stock"`
}

// RecentOrder is a compact order row for the dashboard feed
type RecentOrder struct {
	ID           uuid.UUID       `json:"id"`
	OrderNumber  string          `json:"order_number"`
	CustomerName string          `json:"customer_name"`
	Status       string          `json:"status"`
	Total        decimal.Decimal `json:"total"`
	CreatedAt    time.Time       `json:"created_at"`
}

// DashboardRepository defines the aggregate queries behind the dashboard
type DashboardRepository interface {
	// GetSalesSummary returns revenue figures for orders in revenue statuses
	GetSalesSummary(ctx context.Context, r DateRange) (*SalesSummary, error)
	CountCustomers(ctx context.Context) (int64, error)
	CountNewCustomers(ctx context.Context, r DateRange) (int64, error)
	CountOpenLeads(ctx context.Context) (int64, error)
	CountUpcomingAppointments(ctx context.Context, from time.Time) (int64, error)
	CountLowStock(ctx context.Context, threshold int) (int64, error)
	// GetDailySalesTrend returns one row per day that has orders
	GetDailySalesTrend(ctx context.Context, r DateRange) ([]DailySalesTrend, error)
	GetTopProducts(ctx context.Context, r DateRange, limit int) ([]ProductSalesRanking, error)
	GetLowStock(ctx context.Context, threshold, limit int) ([]LowStockVariant, error)
	GetRecentOrders(ctx context.Context, limit int) ([]RecentOrder, error)
}
