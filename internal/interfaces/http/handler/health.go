package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/aishop/storefront/internal/infrastructure/logger"
	"github.com/aishop/storefront/internal/infrastructure/persistence"
	"github.com/aishop/storefront/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const healthPingTimeout = 2 * time.Second

// DatabaseChecker is the part of persistence.Database the health check uses
type DatabaseChecker interface {
	PingContext(ctx context.Context) error
	Stats() (persistence.ConnectionStats, error)
}

// HealthInfo describes the static parts of the health report
type HealthInfo struct {
	Version string
	Cache   string // "memory", "redis" or "disabled"
	Storage string // "s3" or "local"
}

// HealthHandler reports service health
type HealthHandler struct {
	db        DatabaseChecker
	info      HealthInfo
	startTime time.Time
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db DatabaseChecker, info HealthInfo) *HealthHandler {
	return &HealthHandler{db: db, info: info, startTime: time.Now()}
}

// Check answers 200 when the database responds and 503 otherwise
func (h *HealthHandler) Check(c *gin.Context) {
	resp := dto.HealthResponse{
		Status:   "healthy",
		Database: "connected",
		Version:  h.info.Version,
		Uptime:   time.Since(h.startTime).Round(time.Second).String(),
		Cache:    h.info.Cache,
		Storage:  h.info.Storage,
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), healthPingTimeout)
	defer cancel()

	if err := h.db.PingContext(ctx); err != nil {
		logger.GetGinLogger(c).Warn("health check: database unreachable", zap.Error(err))
		resp.Status = "unhealthy"
		resp.Database = "disconnected"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}

	if stats, err := h.db.Stats(); err == nil {
		resp.Pool = &dto.PoolStats{
			MaxOpen: stats.MaxOpenConnections,
			Open:    stats.OpenConnections,
			InUse:   stats.InUse,
			Idle:    stats.Idle,
		}
	}
	c.JSON(http.StatusOK, resp)
}
