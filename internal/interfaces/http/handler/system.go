package handler

import (
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
)

// SystemInfo describes the running build
type SystemInfo struct {
	Name        string `json:"name" example:"Menswear API"`
	Version     string `json:"version" example:"1.4.0"`
	Environment string `json:"environment" example:"production"`
	Currency    string `json:"currency" example:"USD"`
}

// SystemInfoResponse adds runtime details to the build info
type SystemInfoResponse struct {
	SystemInfo
	GoVersion string `json:"go_version" example:"go1.25.5"`
	Uptime    string `json:"uptime" example:"72h3m0s"`
}

// PingResponse answers /system/ping
type PingResponse struct {
	Message   string `json:"message" example:"pong"`
	Timestamp string `json:"timestamp" example:"2026-03-02T09:30:00Z"`
}

type SystemHandler struct {
	BaseHandler
	info    SystemInfo
	started time.Time
}

func NewSystemHandler(info SystemInfo) *SystemHandler {
	if info.Name == "" {
		info.Name = "Menswear API"
	}
	if info.Version == "" {
		info.Version = "dev"
	}
	return &SystemHandler{info: info, started: time.Now()}
}

// GetSystemInfo godoc
// @ID           getSystemInfo
// @Summary      Build and runtime information
// @Tags         system
// @Produce      json
// @Success      200 {object} APIResponse[SystemInfoResponse]
// @Router       /system/info [get]
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	h.Success(c, SystemInfoResponse{
		SystemInfo: h.info,
		GoVersion:  runtime.Version(),
		Uptime:     time.Since(h.started).Truncate(time.Second).String(),
	})
}

// Ping godoc
// @ID           pingSystem
// @Summary      Liveness probe
// @Tags         system
// @Produce      json
// @Success      200 {object} APIResponse[PingResponse]
// @Router       /system/ping [get]
func (h *SystemHandler) Ping(c *gin.Context) {
	h.Success(c, PingResponse{Message: "pong", Timestamp: time.Now().UTC().Format(time.RFC3339)})
}
