package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/videocc/videocc/internal/shared/utils"
)

const healthCheckTimeout = 2 * time.Second

type HealthHandler struct {
	db    *gorm.DB
	redis *redis.Client
}

// NewHealthHandler creates a health handler. redis may be nil when no
// component uses it.
func NewHealthHandler(db *gorm.DB, redis *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, redis: redis}
}

type HealthStatus struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Redis    string `json:"redis,omitempty"`
}

// HealthCheck handles GET /health
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	status := HealthStatus{Status: "ok", Database: "ok"}
	code := http.StatusOK

	if err := h.pingDB(ctx); err != nil {
		status.Status = "degraded"
		status.Database = err.Error()
		code = http.StatusServiceUnavailable
	}

	if h.redis != nil {
		status.Redis = "ok"
		if err := h.redis.Ping(ctx).Err(); err != nil {
			status.Status = "degraded"
			status.Redis = err.Error()
			code = http.StatusServiceUnavailable
		}
	}

	utils.SuccessResponse(c, code, "", status)
}

func (h *HealthHandler) pingDB(ctx context.Context) error {
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
