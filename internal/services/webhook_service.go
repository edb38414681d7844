package services

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"github.com/getmentor/webhook-admin/internal/cache"
	"github.com/getmentor/webhook-admin/internal/models"
	"github.com/getmentor/webhook-admin/internal/repository"
	"github.com/getmentor/webhook-admin/pkg/errors"
	"github.com/getmentor/webhook-admin/pkg/logger"
	"github.com/getmentor/webhook-admin/pkg/metrics"
	"github.com/getmentor/webhook-admin/pkg/tracing"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// WebhookService implements webhook administration on top of a WebhookStore
type WebhookService struct {
	store       repository.WebhookStore
	listCache   *cache.WebhookListCache
	maxPerScope int
	newKey      func() string

	// serializes count-then-insert so concurrent creates cannot exceed maxPerScope
	createMu sync.Mutex
}

// NewWebhookService creates a new webhook service
func NewWebhookService(store repository.WebhookStore, listCache *cache.WebhookListCache, maxPerScope int) *WebhookService {
	if maxPerScope <= 0 {
		maxPerScope = models.MaxWebhooksPerScope
	}
	return &WebhookService{
		store:       store,
		listCache:   listCache,
		maxPerScope: maxPerScope,
		newKey:      uuid.NewString,
	}
}

// List returns the webhooks of scope ordered by creation time
func (s *WebhookService) List(ctx context.Context, scope models.Scope) (*models.SearchWebhooksResponse, error) {
	ctx, span := tracing.StartSpan(ctx, "WebhookService.List",
		attribute.String("organization", scope.Organization),
		attribute.String("project", scope.Project))
	defer span.End()

	if webhooks, found := s.listCache.Get(scope); found {
		metrics.WebhooksListed.Observe(float64(len(webhooks)))
		return &models.SearchWebhooksResponse{Webhooks: webhooks}, nil
	}

	version := s.listCache.Version(scope)
	stored, err := s.store.List(ctx, scope)
	if err != nil {
		logger.Error("Failed to list webhooks",
			zap.String("scope", scope.CacheKey()),
			zap.Error(err))
		return nil, err
	}

	webhooks := make([]models.Webhook, 0, len(stored))
	for i := range stored {
		webhooks = append(webhooks, stored[i].Webhook)
	}
	s.listCache.Set(scope, version, webhooks)
	metrics.WebhooksListed.Observe(float64(len(webhooks)))

	return &models.SearchWebhooksResponse{Webhooks: webhooks}, nil
}

// Create stores a new webhook in the scope of req
func (s *WebhookService) Create(ctx context.Context, req *models.CreateWebhookRequest) (resp *models.CreateWebhookResponse, err error) {
	ctx, span := tracing.StartSpan(ctx, "WebhookService.Create")
	defer func() { tracing.EndSpan(span, err) }()
	defer func() { metrics.WebhookMutations.WithLabelValues("create", metrics.Status(err)).Inc() }()

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, errors.InvalidInputError("name", "must not be blank")
	}
	if err := validateWebhookURL(req.URL); err != nil {
		return nil, err
	}

	scope := req.Scope()

	s.createMu.Lock()
	defer s.createMu.Unlock()

	count, err := s.store.Count(ctx, scope)
	if err != nil {
		return nil, err
	}
	if count >= s.maxPerScope {
		logger.Info("Webhook limit reached",
			zap.String("scope", scope.CacheKey()),
			zap.Int("max", s.maxPerScope))
		return nil, errors.ConflictError("maximum number of webhooks reached for this scope")
	}

	webhook := &models.StoredWebhook{
		Webhook: models.Webhook{
			Key:  s.newKey(),
			Name: name,
			URL:  strings.TrimSpace(req.URL),
		},
		Organization: scope.Organization,
		Project:      scope.Project,
	}
	if err := s.store.Create(ctx, webhook); err != nil {
		logger.Error("Failed to create webhook",
			zap.String("scope", scope.CacheKey()),
			zap.Error(err))
		return nil, err
	}
	s.listCache.Invalidate(scope)

	logger.Info("Webhook created",
		zap.String("key", webhook.Key),
		zap.String("scope", scope.CacheKey()))

	return &models.CreateWebhookResponse{Webhook: webhook.Webhook}, nil
}

// Update changes name and url of an existing webhook
func (s *WebhookService) Update(ctx context.Context, req *models.UpdateWebhookRequest) (err error) {
	ctx, span := tracing.StartSpan(ctx, "WebhookService.Update", attribute.String("key", req.Key))
	defer func() { tracing.EndSpan(span, err) }()
	defer func() { metrics.WebhookMutations.WithLabelValues("update", metrics.Status(err)).Inc() }()

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return errors.InvalidInputError("name", "must not be blank")
	}
	if err := validateWebhookURL(req.URL); err != nil {
		return err
	}

	existing, err := s.store.Get(ctx, req.Key)
	if err != nil {
		return err
	}

	if err := s.store.Update(ctx, req.Key, name, strings.TrimSpace(req.URL)); err != nil {
		return err
	}
	s.listCache.Invalidate(existing.Scope())

	logger.Info("Webhook updated", zap.String("key", req.Key))
	return nil
}

// Delete removes a webhook
func (s *WebhookService) Delete(ctx context.Context, key string) (err error) {
	ctx, span := tracing.StartSpan(ctx, "WebhookService.Delete", attribute.String("key", key))
	defer func() { tracing.EndSpan(span, err) }()
	defer func() { metrics.WebhookMutations.WithLabelValues("delete", metrics.Status(err)).Inc() }()

	existing, err := s.store.Get(ctx, key)
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, key); err != nil {
		return err
	}
	s.listCache.Invalidate(existing.Scope())

	logger.Info("Webhook deleted", zap.String("key", key))
	return nil
}

// validateWebhookURL accepts absolute http and https URLs with a host
func validateWebhookURL(raw string) error {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return errors.InvalidInputError("url", "must be a valid URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.InvalidInputError("url", "must use http or https")
	}
	if u.Host == "" {
		return errors.InvalidInputError("url", "must include a host")
	}
	return nil
}
