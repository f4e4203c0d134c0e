package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/eventup-dev/eventup/internal/domain"
	"github.com/eventup-dev/eventup/internal/middleware"
	"github.com/eventup-dev/eventup/internal/service"
	"github.com/eventup-dev/eventup/pkg/response"
)

// DashboardHandler exposes the per-role dashboard.
type DashboardHandler struct {
	dashboard service.DashboardService
	logger    *zap.Logger
}

// NewDashboardHandler creates the dashboard handler.
func NewDashboardHandler(dashboard service.DashboardService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{dashboard: dashboard, logger: logger}
}

// Summary handles GET /dashboard, dispatching on the caller's role.
func (h *DashboardHandler) Summary(c *gin.Context) {
	actor := middleware.CurrentUser(c)

	var (
		summary interface{}
		err     error
	)
	switch actor.Role {
	case domain.RoleAdministrator:
		summary, err = h.dashboard.AdminSummary(c.Request.Context())
	case domain.RoleOrganizer:
		summary, err = h.dashboard.OrganizerSummary(c.Request.Context(), actor)
	default:
		summary, err = h.dashboard.ParticipantSummary(c.Request.Context(), actor)
	}
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, response.OK(summary))
}
