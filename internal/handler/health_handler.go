package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/eventup-dev/eventup/pkg/response"
)

// Pinger is anything that can report its liveness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports service and dependency health.
type HealthHandler struct {
	postgres Pinger
	mongo    Pinger
}

// NewHealthHandler creates the health handler. mongo may be nil when the
// document store was not connected.
func NewHealthHandler(postgres, mongo Pinger) *HealthHandler {
	return &HealthHandler{postgres: postgres, mongo: mongo}
}

// Check handles GET /health. The relational store is required; the document
// store only degrades the status to "degraded" since audit writes are
// best effort.
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := "ok"
	code := http.StatusOK
	deps := gin.H{}

	if err := h.postgres.Ping(ctx); err != nil {
		deps["postgres"] = "down"
		status = "unavailable"
		code = http.StatusServiceUnavailable
	} else {
		deps["postgres"] = "up"
	}

	switch {
	case h.mongo == nil:
		deps["mongodb"] = "not configured"
		if status == "ok" {
			status = "degraded"
		}
	case h.mongo.Ping(ctx) != nil:
		deps["mongodb"] = "down"
		if status == "ok" {
			status = "degraded"
		}
	default:
		deps["mongodb"] = "up"
	}

	c.JSON(code, response.OK(gin.H{
		"status":       status,
		"dependencies": deps,
	}))
}
