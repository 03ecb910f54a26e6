package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/servinear/marketplace-backend/internal/cache"
	"github.com/sirupsen/logrus"
)

// Version is reported by the health check
var Version = "1.0.0"

// Pinger is satisfied by the database connection
type Pinger interface {
	PingContext(ctx context.Context) error
}

// HealthHandler reports whether the database and cache are reachable
type HealthHandler struct {
	db     Pinger
	cache  cache.Cache
	logger logrus.FieldLogger
}

// NewHealthHandler creates a new health handler. A nil cache is reported as disabled.
func NewHealthHandler(db Pinger, c cache.Cache, logger logrus.FieldLogger) *HealthHandler {
	return &HealthHandler{db: db, cache: c, logger: logger}
}

// Check handles GET /health
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	status := http.StatusOK
	body := gin.H{
		"status":    "healthy",
		"database":  "healthy",
		"cache":     "disabled",
		"version":   Version,
		"timestamp": time.Now().Unix(),
	}

	if err := h.db.PingContext(ctx); err != nil {
		h.logger.WithError(err).Error("Health check: database unreachable")
		body["database"] = "unhealthy"
		status = http.StatusServiceUnavailable
	}

	if h.cache != nil {
		body["cache"] = "healthy"
		if err := h.cache.Ping(ctx); err != nil {
			h.logger.WithError(err).Error("Health check: cache unreachable")
			body["cache"] = "unhealthy"
			status = http.StatusServiceUnavailable
		}
	}

	if status != http.StatusOK {
		body["status"] = "unhealthy"
	}
	c.JSON(status, body)
}
