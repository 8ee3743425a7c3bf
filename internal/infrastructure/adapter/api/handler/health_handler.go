package handler

import (
	"context"
	"net/http"
	"sync/atomic"

	"github.com/gin-gonic/gin"

	coreport "github.com/anchorpay/settlement-processor/internal/domain/port/core"
)

// Pinger reports whether the backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves liveness and readiness probes. Readiness is flipped
// off during graceful shutdown so load balancers drain before the listener
// closes.
type HealthHandler struct {
	db     Pinger
	logger coreport.Logger
	ready  atomic.Bool
}

// NewHealthHandler creates a new health handler instance
func NewHealthHandler(db Pinger, logger coreport.Logger) *HealthHandler {
	h := &HealthHandler{
		db:     db,
		logger: logger,
	}
	h.ready.Store(true)
	return h
}

// SetReady toggles the readiness state
func (h *HealthHandler) SetReady(ready bool) {
	h.ready.Store(ready)
}

// Health handles the GET /health liveness endpoint
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready handles the GET /ready readiness endpoint
func (h *HealthHandler) Ready(c *gin.Context) {
	if !h.ready.Load() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "draining"})
		return
	}

	if err := h.db.Ping(c.Request.Context()); err != nil {
		h.logger.Warn("Readiness probe failed", map[string]any{
			"error": err.Error(),
		})
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "database unavailable"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
