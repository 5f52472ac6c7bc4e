package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vclothes/backend/internal/infrastructure/persistence"
)

// SystemHandler exposes health and readiness endpoints for load balancers
// and orchestration probes.
type SystemHandler struct {
	BaseHandler
	db        *persistence.Database
	version   string
	startedAt time.Time
}

// NewSystemHandler creates a new system handler
func NewSystemHandler(db *persistence.Database, version string) *SystemHandler {
	return &SystemHandler{
		db:        db,
		version:   version,
		startedAt: time.Now(),
	}
}

// Health reports liveness without touching dependencies
// GET /health
func (h *SystemHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": h.version,
		"uptime":  time.Since(h.startedAt).String(),
	})
}

// Ready reports readiness, including database connectivity
// GET /ready
func (h *SystemHandler) Ready(c *gin.Context) {
	checks := gin.H{}
	status := http.StatusOK
	overall := "ready"

	if h.db != nil {
		if err := h.db.Ping(); err != nil {
			checks["database"] = "unavailable"
			status = http.StatusServiceUnavailable
			overall = "not_ready"
		} else {
			checks["database"] = "ok"
		}
	}

	c.JSON(status, gin.H{
		"status": overall,
		"checks": checks,
	})
}
