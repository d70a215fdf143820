package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/izzico/izzico-backend/services"
	"github.com/izzico/izzico-backend/types"
)

// HealthHandler exposes the liveness/readiness endpoint.
type HealthHandler struct {
	healthService *services.HealthService
}

func NewHealthHandler(healthService *services.HealthService) *HealthHandler {
	return &HealthHandler{healthService: healthService}
}

// HealthCheckHandler handles GET /health. Degraded dependencies still return
// 200 so orchestrators don't flap the instance; only a hard down is a 503.
func (h *HealthHandler) HealthCheckHandler(c *gin.Context) {
	check := h.healthService.CheckHealth(c.Request.Context())

	status := http.StatusOK
	if check.Status == types.HealthStatusDown {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, check)
}
