package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/eventup-dev/eventup/internal/dto"
	"github.com/eventup-dev/eventup/internal/service"
	"github.com/eventup-dev/eventup/pkg/response"
)

// AccessLogHandler exposes the administrator-only audit trail.
type AccessLogHandler struct {
	accessLogs service.AccessLogService
	logger     *zap.Logger
}

// NewAccessLogHandler creates the access log handler.
func NewAccessLogHandler(accessLogs service.AccessLogService, logger *zap.Logger) *AccessLogHandler {
	return &AccessLogHandler{accessLogs: accessLogs, logger: logger}
}

// List handles GET /access-logs with user, event, type and period filters.
func (h *AccessLogHandler) List(c *gin.Context) {
	var filter dto.AccessLogFilter
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

	entries, total, err := h.accessLogs.List(c.Request.Context(), filter, page)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, response.OK(gin.H{
		"entries": entries,
		"meta":    response.NewMeta(page.Page, page.Limit, total),
	}))
}

// Get handles GET /access-logs/:id.
func (h *AccessLogHandler) Get(c *gin.Context) {
	entry, err := h.accessLogs.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, response.OK(entry))
}

// ListRecent handles GET /access-logs/recent.
func (h *AccessLogHandler) ListRecent(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	entries, err := h.accessLogs.ListRecent(c.Request.Context(), limit)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, response.OK(entries))
}

// Stats handles GET /access-logs/stats.
func (h *AccessLogHandler) Stats(c *gin.Context) {
	stats, err := h.accessLogs.Stats(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, response.OK(stats))
}

// Update handles PUT /access-logs/:id.
func (h *AccessLogHandler) Update(c *gin.Context) {
	var req dto.UpdateAccessLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if err := h.accessLogs.Update(c.Request.Context(), c.Param("id"), req); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, response.OKMessage("access entry updated", nil))
}

// Delete handles DELETE /access-logs/:id.
func (h *AccessLogHandler) Delete(c *gin.Context) {
	if err := h.accessLogs.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, response.OKMessage("access entry deleted", nil))
}
