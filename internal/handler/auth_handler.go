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

// AuthHandler exposes authentication and own-account endpoints.
type AuthHandler struct {
	auth   service.AuthService
	logger *zap.Logger
}

// NewAuthHandler creates the auth handler.
func NewAuthHandler(auth service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	user, signed, err := h.auth.Register(c.Request.Context(), req, accessMeta(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, response.OK(dto.AuthResponse{Token: signed, User: user}))
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	user, signed, err := h.auth.Login(c.Request.Context(), req, accessMeta(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, response.OK(dto.AuthResponse{Token: signed, User: user}))
}

// Logout handles POST /auth/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.auth.Logout(c.Request.Context(), middleware.CurrentUser(c), accessMeta(c))
	c.JSON(http.StatusOK, response.OKMessage("logged out", nil))
}

// Renew handles POST /auth/renew.
func (h *AuthHandler) Renew(c *gin.Context) {
	actor := middleware.CurrentUser(c)
	signed, err := h.auth.Renew(c.Request.Context(), actor)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, response.OK(dto.AuthResponse{Token: signed, User: actor}))
}

// Profile handles GET /auth/profile.
func (h *AuthHandler) Profile(c *gin.Context) {
	c.JSON(http.StatusOK, response.OK(middleware.CurrentUser(c)))
}

// UpdateProfile handles PUT /auth/profile.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	user, err := h.auth.UpdateProfile(c.Request.Context(), middleware.CurrentUser(c), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, response.OK(user))
}

// ChangePassword handles PUT /auth/password.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if err := h.auth.ChangePassword(c.Request.Context(), middleware.CurrentUser(c), req); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, response.OKMessage("password updated", nil))
}
