package handlers

import (
	"net/http"

	"github.com/getmentor/webhook-admin/internal/models"
	"github.com/getmentor/webhook-admin/internal/services"
	"github.com/getmentor/webhook-admin/pkg/errors"
	"github.com/gin-gonic/gin"
)

// WebhookHandler serves the webhooks administration API
type WebhookHandler struct {
	service services.WebhookServiceInterface
}

// NewWebhookHandler creates a new webhook handler
func NewWebhookHandler(service services.WebhookServiceInterface) *WebhookHandler {
	return &WebhookHandler{service: service}
}

// List handles GET /api/webhooks/list
func (h *WebhookHandler) List(c *gin.Context) {
	var scope models.Scope
	if err := c.ShouldBindQuery(&scope); err != nil {
		respondValidationError(c, err)
		return
	}

	resp, err := h.service.List(c.Request.Context(), scope)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Create handles POST /api/webhooks/create
func (h *WebhookHandler) Create(c *gin.Context) {
	var req models.CreateWebhookRequest
	if err := c.ShouldBind(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	resp, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Update handles POST /api/webhooks/update
func (h *WebhookHandler) Update(c *gin.Context) {
	var req models.UpdateWebhookRequest
	if err := c.ShouldBind(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	if err := h.service.Update(c.Request.Context(), &req); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// Delete handles POST /api/webhooks/delete
func (h *WebhookHandler) Delete(c *gin.Context) {
	var req models.DeleteWebhookRequest
	if err := c.ShouldBind(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	if err := h.service.Delete(c.Request.Context(), req.Key); err != nil {
		respondServiceError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// respondServiceError maps service errors to HTTP statuses
func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errors.ErrInvalidInput):
		respondError(c, http.StatusBadRequest, err.Error(), err)
	case errors.Is(err, errors.ErrNotFound):
		respondError(c, http.StatusNotFound, "Webhook not found", err)
	case errors.Is(err, errors.ErrConflict):
		respondError(c, http.StatusConflict, err.Error(), err)
	default:
		respondError(c, http.StatusInternalServerError, "Internal server error", err)
	}
}
