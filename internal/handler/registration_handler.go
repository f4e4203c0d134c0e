package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/eventup-dev/eventup/internal/dto"
	"github.com/eventup-dev/eventup/internal/middleware"
	"github.com/eventup-dev/eventup/internal/service"
	"github.com/eventup-dev/eventup/pkg/response"
)

// RegistrationHandler exposes the registration lifecycle.
type RegistrationHandler struct {
	registrations service.RegistrationService
	logger        *zap.Logger
}

// NewRegistrationHandler creates the registration handler.
func NewRegistrationHandler(registrations service.RegistrationService, logger *zap.Logger) *RegistrationHandler {
	return &RegistrationHandler{registrations: registrations, logger: logger}
}

// Create handles POST /registrations.
func (h *RegistrationHandler) Create(c *gin.Context) {
	var req dto.CreateRegistrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	reg, err := h.registrations.Create(c.Request.Context(), middleware.CurrentUser(c), req.UserID, req.EventID, accessMeta(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, response.OK(reg))
}

// Get handles GET /registrations/:id.
func (h *RegistrationHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	reg, err := h.registrations.Get(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, response.OK(reg))
}

// List handles GET /registrations. Administrators see everything,
// organizers the registrations on their own events.
func (h *RegistrationHandler) List(c *gin.Context) {
	var page dto.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		bindError(c, err)
		return
	}
	page.Normalize()
	regs, total, err := h.registrations.List(c.Request.Context(), middleware.CurrentUser(c), page)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, response.OK(gin.H{
		"registrations": regs,
		"meta":          response.NewMeta(page.Page, page.Limit, total),
	}))
}

// ListMine handles GET /registrations/mine. Each registration carries its
// certificate when one has been issued.
func (h *RegistrationHandler) ListMine(c *gin.Context) {
	regs, err := h.registrations.ListMine(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, response.OK(regs))
}

// ListByEvent handles GET /events/:id/registrations. An optional status
// query narrows the result, e.g. ?status=pending.
func (h *RegistrationHandler) ListByEvent(c *gin.Context) {
	eventID, ok := idParam(c, "id")
	if !ok {
		return
	}
	regs, err := h.registrations.ListByEvent(c.Request.Context(), middleware.CurrentUser(c), eventID, c.Query("status"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, response.OK(regs))
}

// Verify handles GET /registrations/verify/:event_id. It reports whether
// the caller is registered for the event without treating absence as an
// error.
func (h *RegistrationHandler) Verify(c *gin.Context) {
	eventID, ok := idParam(c, "event_id")
	if !ok {
		return
	}
	reg, err := h.registrations.Verify(c.Request.Context(), middleware.CurrentUser(c), eventID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, response.OK(gin.H{
		"registered":   reg != nil,
		"registration": reg,
	}))
}

// Approve handles PUT /registrations/:id/approve.
func (h *RegistrationHandler) Approve(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	reg, err := h.registrations.Approve(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, response.OK(reg))
}

// Reject handles PUT /registrations/:id/reject.
func (h *RegistrationHandler) Reject(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	reg, err := h.registrations.Reject(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, response.OK(reg))
}

// Cancel handles DELETE /registrations/cancel/:event_id. The caller
// withdraws their own registration for the event.
func (h *RegistrationHandler) Cancel(c *gin.Context) {
	eventID, ok := idParam(c, "event_id")
	if !ok {
		return
	}
	if err := h.registrations.Cancel(c.Request.Context(), middleware.CurrentUser(c), eventID); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, response.OKMessage("registration cancelled", nil))
}

// Remove handles DELETE /registrations/:id.
func (h *RegistrationHandler) Remove(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.registrations.Remove(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, response.OKMessage("registration removed", nil))
}
