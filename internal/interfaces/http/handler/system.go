package handler

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/propman/backend/internal/infrastructure/persistence"
	"github.com/propman/backend/internal/interfaces/http/dto"
)

// SystemHandler handles health and system information endpoints
type SystemHandler struct {
	BaseHandler
	db        *persistence.Database
	appName   string
	startTime time.Time
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(db *persistence.Database, appName string) *SystemHandler {
	return &SystemHandler{
		db:        db,
		appName:   appName,
		startTime: time.Now(),
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Uptime   string `json:"uptime"`
}

// SystemInfoResponse represents the system information response
type SystemInfoResponse struct {
	Name            string `json:"name"`
	GoVersion       string `json:"go_version"`
	Uptime          string `json:"uptime"`
	OpenConnections int    `json:"open_connections"`
	InUse           int    `json:"in_use"`
	Idle            int    `json:"idle"`
}

// Health handles GET /system/health
func (h *SystemHandler) Health(c *gin.Context) {
	resp := HealthResponse{
		Status:   "ok",
		Database: "ok",
		Uptime:   time.Since(h.startTime).Round(time.Second).String(),
	}

	if err := h.db.Ping(); err != nil {
		resp.Status = "degraded"
		resp.Database = "unreachable"
		c.JSON(http.StatusServiceUnavailable, dto.NewSuccessResponse(resp))
		return
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// Info handles GET /system/info
func (h *SystemHandler) Info(c *gin.Context) {
	stats, err := h.db.Stats()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, SystemInfoResponse{
		Name:            h.appName,
		GoVersion:       runtime.Version(),
		Uptime:          time.Since(h.startTime).Round(time.Second).String(),
		OpenConnections: stats.OpenConnections,
		InUse:           stats.InUse,
		Idle:            stats.Idle,
	})
}

// RegisterRoutes registers all system routes
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	system := rg.Group("/system")
	{
		system.GET("/health", h.Health)
		system.GET("/info", h.Info)
	}
}
