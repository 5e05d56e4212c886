package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/TheDarkness2001/SMS-sub001/internal/app/models/dto"
)

// Pinger reports whether a backing store is reachable
type Pinger func(ctx context.Context) error

// HealthController serves the liveness endpoint
type HealthController struct {
	database string
	cache    string
	ping     Pinger
}

// NewHealthController creates a new HealthController. ping may be nil.
func NewHealthController(database, cache string, ping Pinger) *HealthController {
	return &HealthController{database: database, cache: cache, ping: ping}
}

// Health reports the service status
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.HealthResponse} "Healthy"
// @Failure 503 {object} dto.ErrorResponse "Database unreachable"
// @Router /health [get]
func (c *HealthController) Health(ctx *gin.Context) {
	if c.ping != nil {
		pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
		defer cancel()
		if err := c.ping(pingCtx); err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeDatabaseError, "Database unreachable")
			ctx.JSON(http.StatusServiceUnavailable, dto.NewErrorResponse(errorDetail))
			return
		}
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.HealthResponse{
		Status:   "ok",
		Database: c.database,
		Cache:    c.cache,
	}))
}
