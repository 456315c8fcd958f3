package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/menswear/backend/internal/infrastructure/persistence"
	"github.com/menswear/backend/internal/interfaces/http/dto"
)

// DatabaseHealth reports the state of the database pool
type DatabaseHealth interface {
	HealthCheck(ctx context.Context) persistence.HealthReport
}

// CachePinger checks the cache backend
type CachePinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves /health
type HealthHandler struct {
	BaseHandler
	db    DatabaseHealth
	cache CachePinger
}

// NewHealthHandler creates a new HealthHandler. cache may be nil.
func NewHealthHandler(db DatabaseHealth, cache CachePinger) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

// HealthResponse is the health payload
type HealthResponse struct {
	Status   string                   `json:"status" example:"healthy"`
	Database persistence.HealthReport `json:"database"`
	Cache    persistence.RoleCheck    `json:"cache"`
}

// Health godoc
// @ID           health
// @Summary      Service health
// @Description  Database pool roles and cache. A down replica reports degraded with 200; a down primary reports unhealthy with 503.
// @Tags         system
// @Produce      json
// @Success      200 {object} APIResponse[HealthResponse]
// @Failure      503 {object} APIResponse[HealthResponse]
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	ctx := c.Request.Context()
	resp := HealthResponse{
		Database: h.db.HealthCheck(ctx),
		Cache:    persistence.RoleCheck{Status: persistence.StatusHealthy},
	}
	resp.Status = resp.Database.Status

	if h.cache != nil {
		if err := h.cache.Ping(ctx); err != nil {
			resp.Cache = persistence.RoleCheck{Status: persistence.StatusUnhealthy, Error: err.Error()}
			if resp.Status == persistence.StatusHealthy {
				resp.Status = persistence.StatusDegraded
			}
		}
	}

	status := http.StatusOK
	if resp.Status == persistence.StatusUnhealthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, dto.Response{Success: status == http.StatusOK, Data: resp})
}
