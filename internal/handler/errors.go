package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/eventup-dev/eventup/internal/dto"
	"github.com/eventup-dev/eventup/internal/service"
	"github.com/eventup-dev/eventup/pkg/response"
)

// respondError maps service errors onto HTTP statuses. Semantic conflicts
// such as duplicate registrations share the 400 family with validation
// failures; anything unmapped becomes an opaque 500.
func respondError(c *gin.Context, log *zap.Logger, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, response.Error(err.Error()))
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, response.Error(err.Error()))
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, response.Error(err.Error()))
	case errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrSelfDelete),
		errors.Is(err, service.ErrSelfRoleChange),
		errors.Is(err, service.ErrCategoryNameTaken),
		errors.Is(err, service.ErrCategoryNotFound),
		errors.Is(err, service.ErrEventInPast),
		errors.Is(err, service.ErrEventStarted),
		errors.Is(err, service.ErrAlreadyRegistered),
		errors.Is(err, service.ErrNotPending),
		errors.Is(err, service.ErrCertificateExists):
		c.JSON(http.StatusBadRequest, response.Error(err.Error()))
	case errors.Is(err, service.ErrAuditUnavailable):
		c.JSON(http.StatusServiceUnavailable, response.Error(err.Error()))
	default:
		log.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.String("method", c.Request.Method),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, response.Error("internal server error"))
	}
}

// bindError renders a 400 for a failed request binding.
func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, response.ValidationError("invalid request", []string{err.Error()}))
}

// idParam parses the numeric path parameter named name. A non-numeric or
// non-positive value reads as 0 with ok=false, already answered with a 400.
func idParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, response.Error("invalid "+name))
		return 0, false
	}
	return id, true
}

// accessMeta extracts the request metadata forwarded to the access recorder.
func accessMeta(c *gin.Context) dto.AccessMeta {
	return dto.AccessMeta{
		IP:     c.ClientIP(),
		Device: c.Request.UserAgent(),
	}
}
