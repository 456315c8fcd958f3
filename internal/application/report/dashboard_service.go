package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/menswear/backend/internal/domain/report"
	"github.com/menswear/backend/internal/infrastructure/cache"
	"github.com/menswear/backend/internal/infrastructure/export"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	DefaultLowStockThreshold = 5
	defaultLimit             = 10
)

// DashboardService serves the back-office analytics. Every section that
// fails is logged and answered with its zero value; such degraded results
// are never cached.
type DashboardService struct {
	repo   report.DashboardRepository
	cache  *cache.Service
	logger *zap.Logger
	now    func() time.Time
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(repo report.DashboardRepository, cacheService *cache.Service, logger *zap.Logger) *DashboardService {
	return &DashboardService{
		repo:   repo,
		cache:  cacheService,
		logger: logger,
		now:    time.Now,
	}
}

// Now returns the clock used for default date ranges
func (s *DashboardService) Now() time.Time {
	return s.now().UTC()
}

// Overview returns the headline figures for the range
func (s *DashboardService) Overview(ctx context.Context, rng report.DateRange) *report.Overview {
	return cached(ctx, s, []string{"overview", day(rng.Start), day(rng.End)}, func(ctx context.Context) (*report.Overview, bool) {
		ok := true
		out := &report.Overview{Range: rng, Revenue: decimal.Zero, AvgOrderValue: decimal.Zero}

		if summary, err := s.repo.GetSalesSummary(ctx, rng); s.section(err, "sales_summary") {
			out.Revenue = summary.Revenue
			out.OrderCount = summary.OrderCount
			out.AvgOrderValue = summary.AvgOrderValue
		} else {
			ok = false
		}
		counters := []struct {
			name  string
			dest  *int64
			count func() (int64, error)
		}{
			{"customer_count", &out.CustomerCount, func() (int64, error) { return s.repo.CountCustomers(ctx) }},
			{"new_customers", &out.NewCustomers, func() (int64, error) { return s.repo.CountNewCustomers(ctx, rng) }},
			{"open_leads", &out.OpenLeads, func() (int64, error) { return s.repo.CountOpenLeads(ctx) }},
			{"upcoming_appointments", &out.UpcomingAppointments, func() (int64, error) { return s.repo.CountUpcomingAppointments(ctx, s.Now()) }},
			{"low_stock_variants", &out.LowStockVariants, func() (int64, error) { return s.repo.CountLowStock(ctx, DefaultLowStockThreshold) }},
		}
		for _, c := range counters {
			n, err := c.count()
			if s.section(err, c.name) {
				*c.dest = n
			} else {
				ok = false
			}
		}
		return out, ok
	})
}

// SalesTrend returns one row per day in the range, including days without sales
func (s *DashboardService) SalesTrend(ctx context.Context, rng report.DateRange) []report.DailySalesTrend {
	return cached(ctx, s, []string{"sales-trend", day(rng.Start), day(rng.End)}, func(ctx context.Context) ([]report.DailySalesTrend, bool) {
		rows, err := s.repo.GetDailySalesTrend(ctx, rng)
		if !s.section(err, "sales_trend") {
			return []report.DailySalesTrend{}, false
		}
		return fillDays(rng, rows), true
	})
}

// TopProducts returns the best sellers by quantity
func (s *DashboardService) TopProducts(ctx context.Context, rng report.DateRange, limit int) []report.ProductSalesRanking {
	limit = clampLimit(limit)
	return cached(ctx, s, []string{"top-products", day(rng.Start), day(rng.End), strconv.Itoa(limit)}, func(ctx context.Context) ([]report.ProductSalesRanking, bool) {
		rows, err := s.repo.GetTopProducts(ctx, rng, limit)
		if !s.section(err, "top_products") {
			return []report.ProductSalesRanking{}, false
		}
		return nonNil(rows), true
	})
}

// LowStock returns variants at or under the threshold
func (s *DashboardService) LowStock(ctx context.Context, threshold *int, limit int) []report.LowStockVariant {
	t := DefaultLowStockThreshold
	if threshold != nil {
		t = *threshold
	}
	limit = clampLimit(limit)
	return cached(ctx, s, []string{"low-stock", strconv.Itoa(t), strconv.Itoa(limit)}, func(ctx context.Context) ([]report.LowStockVariant, bool) {
		rows, err := s.repo.GetLowStock(ctx, t, limit)
		if !s.section(err, "low_stock") {
			return []report.LowStockVariant{}, false
		}
		return nonNil(rows), true
	})
}

// RecentOrders returns the newest orders
func (s *DashboardService) RecentOrders(ctx context.Context, limit int) []report.RecentOrder {
	limit = clampLimit(limit)
	return cached(ctx, s, []string{"recent-orders", strconv.Itoa(limit)}, func(ctx context.Context) ([]report.RecentOrder, bool) {
		rows, err := s.repo.GetRecentOrders(ctx, limit)
		if !s.section(err, "recent_orders") {
			return []report.RecentOrder{}, false
		}
		return nonNil(rows), true
	})
}

// Export writes the sales trend and top products for the range as an XLSX workbook
func (s *DashboardService) Export(ctx context.Context, rng report.DateRange, limit int, w io.Writer) error {
	trend := s.SalesTrend(ctx, rng)
	top := s.TopProducts(ctx, rng, limit)

	trendRows := make([][]any, len(trend))
	for i, row := range trend {
		trendRows[i] = []any{row.Date, row.OrderCount, row.Revenue.InexactFloat64()}
	}
	topRows := make([][]any, len(top))
	for i, row := range top {
		topRows[i] = []any{row.Rank, row.ProductName, row.TotalQuantity, row.TotalAmount.InexactFloat64(), row.OrderCount}
	}

	return export.WriteWorkbook(w,
		export.Sheet{Name: "Sales Trend", Headers: []string{"Date", "Orders", "Revenue"}, Rows: trendRows},
		export.Sheet{Name: "Top Products", Headers: []string{"Rank", "Product", "Quantity", "Revenue", "Orders"}, Rows: topRows},
	)
}

// ExportFilename names the workbook for a range
func ExportFilename(rng report.DateRange) string {
	return fmt.Sprintf("dashboard_%s_%s.xlsx", day(rng.Start), day(rng.End.AddDate(0, 0, -1)))
}

// section logs a failed dashboard query and reports whether it succeeded
func (s *DashboardService) section(err error, name string) bool {
	if err == nil {
		return true
	}
	s.logger.Error("Dashboard section failed, serving empty result",
		zap.String("section", name), zap.Error(err))
	return false
}

// errPartial marks a dashboard section built with a failed query
var errPartial = errors.New("dashboard section incomplete")

// cached serves a dashboard section from the short-lived cache. Results
// built with a failed section are returned but not stored.
func cached[T any](ctx context.Context, s *DashboardService, parts []string, build func(context.Context) (T, bool)) T {
	key := s.cache.Keys().Key(cache.NSDashboard, parts...)

	var partial T
	value, err := cache.GetOrSet(ctx, s.cache.Cache(), key, s.cache.TTL(cache.TierShort), func(ctx context.Context) (T, error) {
		v, ok := build(ctx)
		if !ok {
			partial = v
			return v, errPartial
		}
		return v, nil
	})
	if err != nil {
		return partial
	}
	return value
}

func fillDays(rng report.DateRange, rows []report.DailySalesTrend) []report.DailySalesTrend {
	byDay := make(map[string]report.DailySalesTrend, len(rows))
	for _, row := range rows {
		byDay[row.Date] = row
	}
	out := make([]report.DailySalesTrend, 0, int(rng.End.Sub(rng.Start).Hours()/24)+1)
	for d := rng.Start; d.Before(rng.End); d = d.AddDate(0, 0, 1) {
		key := day(d)
		if row, ok := byDay[key]; ok {
			out = append(out, row)
			continue
		}
		out = append(out, report.DailySalesTrend{Date: key, Revenue: decimal.Zero})
	}
	return out
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	return min(limit, 100)
}

func nonNil[T any](rows []T) []T {
	if rows == nil {
		return []T{}
	}
	return rows
}

func day(t time.Time) string {
	return t.UTC().Format(time.DateOnly)
}
