package handler

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	reportapp "github.com/menswear/backend/internal/application/report"
	"github.com/menswear/backend/internal/domain/report"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// DashboardService is the analytics service used by DashboardHandler.
// Sections never fail; a broken query yields its zero value.
type DashboardService interface {
	Now() time.Time
	Overview(ctx context.Context, rng report.DateRange) *report.Overview
	SalesTrend(ctx context.Context, rng report.DateRange) []report.DailySalesTrend
	TopProducts(ctx context.Context, rng report.DateRange, limit int) []report.ProductSalesRanking
	LowStock(ctx context.Context, threshold *int, limit int) []report.LowStockVariant
	RecentOrders(ctx context.Context, limit int) []report.RecentOrder
	Export(ctx context.Context, rng report.DateRange, limit int, w io.Writer) error
}

// DashboardHandler serves back-office analytics
type DashboardHandler struct {
	BaseHandler
	dashboardService DashboardService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(dashboardService DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// query binds the shared query and resolves its date range
func (h *DashboardHandler) query(c *gin.Context) (reportapp.DashboardQuery, report.DateRange, bool) {
	var q reportapp.DashboardQuery
	if !h.bindQuery(c, &q) {
		return q, report.DateRange{}, false
	}
	rng, err := q.Range(h.dashboardService.Now())
	if err != nil {
		h.HandleError(c, err)
		return q, rng, false
	}
	return q, rng, true
}

// Overview godoc
// @ID           dashboardOverview
// @Summary      Headline figures
// @Tags         dashboard
// @Produce      json
// @Param        from query string false "From (YYYY-MM-DD), default 30 days before to"
// @Param        to query string false "To (YYYY-MM-DD), default today"
// @Success      200 {object} APIResponse[report.Overview]
// @Failure      400 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /dashboard/overview [get]
func (h *DashboardHandler) Overview(c *gin.Context) {
	_, rng, ok := h.query(c)
	if !ok {
		return
	}
	h.Success(c, h.dashboardService.Overview(c.Request.Context(), rng))
}

// SalesTrend godoc
// @ID           dashboardSalesTrend
// @Summary      Daily revenue and order count
// @Tags         dashboard
// @Produce      json
// @Param        from query string false "From (YYYY-MM-DD)"
// @Param        to query string false "To (YYYY-MM-DD)"
// @Success      200 {object} APIResponse[[]report.DailySalesTrend]
// @Failure      400 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /dashboard/sales-trend [get]
func (h *DashboardHandler) SalesTrend(c *gin.Context) {
	_, rng, ok := h.query(c)
	if !ok {
		return
	}
	h.Success(c, h.dashboardService.SalesTrend(c.Request.Context(), rng))
}

// TopProducts godoc
// @ID           dashboardTopProducts
// @Summary      Best sellers by quantity
// @Tags         dashboard
// @Produce      json
// @Param        from query string false "From (YYYY-MM-DD)"
// @Param        to query string false "To (YYYY-MM-DD)"
// @Param        limit query int false "Rows" default(10)
// @Success      200 {object} APIResponse[[]report.ProductSalesRanking]
// @Failure      400 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /dashboard/top-products [get]
func (h *DashboardHandler) TopProducts(c *gin.Context) {
	q, rng, ok := h.query(c)
	if !ok {
		return
	}
	h.Success(c, h.dashboardService.TopProducts(c.Request.Context(), rng, q.Limit))
}

// LowStock godoc
// @ID           dashboardLowStock
// @Summary      Variants at or below the stock threshold
// @Tags         dashboard
// @Produce      json
// @Param        threshold query int false "Stock threshold" default(5)
// @Param        limit query int false "Rows" default(10)
// @Success      200 {object} APIResponse[[]report.LowStockVariant]
// @Failure      400 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /dashboard/low-stock [get]
func (h *DashboardHandler) LowStock(c *gin.Context) {
	q, _, ok := h.query(c)
	if !ok {
		return
	}
	h.Success(c, h.dashboardService.LowStock(c.Request.Context(), q.Threshold, q.Limit))
}

// RecentOrders godoc
// @ID           dashboardRecentOrders
// @Summary      Newest orders
// @Tags         dashboard
// @Produce      json
// @Param        limit query int false "Rows" default(10)
// @Success      200 {object} APIResponse[[]report.RecentOrder]
// @Failure      400 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /dashboard/recent-orders [get]
func (h *DashboardHandler) RecentOrders(c *gin.Context) {
	q, _, ok := h.query(c)
	if !ok {
		return
	}
	h.Success(c, h.dashboardService.RecentOrders(c.Request.Context(), q.Limit))
}

// Export godoc
// @ID           dashboardExport
// @Summary      Download the sales report
// @Description  XLSX workbook with Sales Trend and Top Products sheets
// @Tags         dashboard
// @Produce      application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param        from query string false "From (YYYY-MM-DD)"
// @Param        to query string false "To (YYYY-MM-DD)"
// @Param        limit query int false "Top product rows" default(10)
// @Success      200 {file} file
// @Failure      400 {object} dto.ErrorResponse
// @Security     BearerAuth
// @Router       /dashboard/export [get]
func (h *DashboardHandler) Export(c *gin.Context) {
	q, rng, ok := h.query(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.dashboardService.Export(c.Request.Context(), rng, q.Limit, &buf); err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+reportapp.ExportFilename(rng)+`"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
