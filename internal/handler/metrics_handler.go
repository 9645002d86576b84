package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/termgrid/timetable-api/internal/service"
)

// MetricsHandler exposes observability endpoints.
type MetricsHandler struct {
	metrics *service.MetricsService
	ready   func() error
}

// NewMetricsHandler constructs a metrics handler. The ready probe may be
// nil when no downstream dependency needs checking.
func NewMetricsHandler(metrics *service.MetricsService, ready func() error) *MetricsHandler {
	return &MetricsHandler{metrics: metrics, ready: ready}
}

// Prometheus serves the Prometheus metrics endpoint.
func (h *MetricsHandler) Prometheus(c *gin.Context) {
	if h.metrics == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}

// Health responds with a generic OK payload for liveness usage.
func (h *MetricsHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready checks downstream dependencies before reporting readiness.
func (h *MetricsHandler) Ready(c *gin.Context) {
	if h.ready != nil {
		if err := h.ready(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "error": err.Error()})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
