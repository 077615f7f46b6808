package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sellerhq/seller_api/internal/utils"
)

var startTime = time.Now()

// HealthHandler provides the health endpoint.
type HealthHandler struct{}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// GetHealth responds with service status and uptime. Store reachability is
// deliberately not probed here: every other endpoint surfaces that per
// request, and the health check must stay cheap for the load balancer.
func (h *HealthHandler) GetHealth(c *gin.Context) {
	utils.Success(c, 200, "Service is healthy", gin.H{
		"status":  "healthy",
		"version": "1.0.0",
		"uptime":  int(time.Since(startTime).Seconds()),
	})
}
