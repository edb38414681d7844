package services

import (
	"context"

	"github.com/getmentor/webhook-admin/internal/models"
)

// WebhookServiceInterface defines webhook administration operations
type WebhookServiceInterface interface {
	List(ctx context.Context, scope models.Scope) (*models.SearchWebhooksResponse, error)
	Create(ctx context.Context, req *models.CreateWebhookRequest) (*models.CreateWebhookResponse, error)
	Update(ctx context.Context, req *models.UpdateWebhookRequest) error
	Delete(ctx context.Context, key string) error
}

// Ensure services implement their interfaces
var _ WebhookServiceInterface = (*WebhookService)(nil)
