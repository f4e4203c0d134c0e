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

// CertificateHandler exposes certificate issuance and retrieval.
type CertificateHandler struct {
	certificates service.CertificateService
	logger       *zap.Logger
}

// NewCertificateHandler creates the certificate handler.
func NewCertificateHandler(certificates service.CertificateService, logger *zap.Logger) *CertificateHandler {
	return &CertificateHandler{certificates: certificates, logger: logger}
}

// Issue handles POST /certificates/issue/:registration_id.
func (h *CertificateHandler) Issue(c *gin.Context) {
	registrationID, ok := idParam(c, "registration_id")
	if !ok {
		return
	}
	cert, err := h.certificates.Issue(c.Request.Context(), middleware.CurrentUser(c), registrationID, accessMeta(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, response.OK(cert))
}

// Get handles GET /certificates/:id.
func (h *CertificateHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	cert, err := h.certificates.Get(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, response.OK(cert))
}

// View handles GET /certificates/view/:id. Unlike Get, the view leaves a
// trace in the access log.
func (h *CertificateHandler) View(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	cert, err := h.certificates.View(c.Request.Context(), middleware.CurrentUser(c), id, accessMeta(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, response.OK(cert))
}

// GetByRegistration handles GET /certificates/registration/:registration_id.
func (h *CertificateHandler) GetByRegistration(c *gin.Context) {
	registrationID, ok := idParam(c, "registration_id")
	if !ok {
		return
	}
	cert, err := h.certificates.GetByRegistration(c.Request.Context(), middleware.CurrentUser(c), registrationID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, response.OK(cert))
}

// List handles GET /certificates.
func (h *CertificateHandler) List(c *gin.Context) {
	var page dto.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		bindError(c, err)
		return
	}
	page.Normalize()
	certs, total, err := h.certificates.List(c.Request.Context(), page)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, response.OK(gin.H{
		"certificates": certs,
		"meta":         response.NewMeta(page.Page, page.Limit, total),
	}))
}

// ListMine handles GET /certificates/mine.
func (h *CertificateHandler) ListMine(c *gin.Context) {
	certs, err := h.certificates.ListMine(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, response.OK(certs))
}

// Delete handles DELETE /certificates/:id.
func (h *CertificateHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.certificates.Delete(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, response.OKMessage("certificate deleted", nil))
}
