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

// EventHandler exposes event browsing and management.
type EventHandler struct {
	events service.EventService
	logger *zap.Logger
}

// NewEventHandler creates the event handler.
func NewEventHandler(events service.EventService, logger *zap.Logger) *EventHandler {
	return &EventHandler{events: events, logger: logger}
}

// List handles GET /events with search, category, period and upcoming filters.
func (h *EventHandler) List(c *gin.Context) {
	var filter dto.EventFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		bindError(c, err)
		return
	}
	var page dto.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		bindError(c, err)
		return
	}
	page.Normalize()

	events, total, err := h.events.List(c.Request.Context(), filter, page)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, response.OK(gin.H{
		"events": events,
		"meta":   response.NewMeta(page.Page, page.Limit, total),
	}))
}

// Get handles GET /events/:id.
func (h *EventHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	event, err := h.events.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, response.OK(event))
}

// ListMine handles GET /events/mine. With ?with_counts=true each event also
// carries its registration count.
func (h *EventHandler) ListMine(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	var (
		events interface{}
		err    error
	)
	if c.Query("with_counts") == "true" {
		events, err = h.events.ListMineWithRegistrationCounts(c.Request.Context(), actor)
	} else {
		events, err = h.events.ListMine(c.Request.Context(), actor)
	}
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, response.OK(events))
}

// Create handles POST /events.
func (h *EventHandler) Create(c *gin.Context) {
	var req dto.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	event, err := h.events.Create(c.Request.Context(), middleware.CurrentUser(c), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, response.OK(event))
}

// Update handles PUT /events/:id.
func (h *EventHandler) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	event, err := h.events.Update(c.Request.Context(), middleware.CurrentUser(c), id, req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, response.OK(event))
}

// Delete handles DELETE /events/:id.
func (h *EventHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.events.Delete(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, response.OKMessage("event deleted", nil))
}
