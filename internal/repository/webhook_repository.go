package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/getmentor/webhook-admin/internal/models"
	apperrors "github.com/getmentor/webhook-admin/pkg/errors"
	"github.com/getmentor/webhook-admin/pkg/metrics"
	"github.com/getmentor/webhook-admin/pkg/tracing"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel/attribute"
)

const webhookColumns = `key, name, url, COALESCE(organization, ''), COALESCE(project, ''), created_at, updated_at`

// scopePredicate matches the expressions of idx_webhooks_scope so the index serves it.
// An empty parameter selects rows where the column is NULL.
const scopePredicate = `COALESCE(organization, '') = $1 AND COALESCE(project, '') = $2`

// WebhookRepository handles webhook data access in PostgreSQL
type WebhookRepository struct {
	db Querier
}

// NewWebhookRepository creates a new webhook repository
func NewWebhookRepository(db Querier) *WebhookRepository {
	return &WebhookRepository{db: db}
}

var _ WebhookStore = (*WebhookRepository)(nil)

// List returns the webhooks of scope ordered by creation time
func (r *WebhookRepository) List(ctx context.Context, scope models.Scope) (webhooks []models.StoredWebhook, err error) {
	ctx, done := observe(ctx, "webhooks.list")
	defer func() { done(err) }()

	query := `
		SELECT ` + webhookColumns + `
		FROM webhooks
		WHERE ` + scopePredicate + `
		ORDER BY created_at, key
	`

	rows, err := r.db.Query(ctx, query, scope.Organization, scope.Project)
	if err != nil {
		return nil, fmt.Errorf("failed to list webhooks: %w", err)
	}
	defer rows.Close()

	webhooks = []models.StoredWebhook{}
	for rows.Next() {
		var w models.StoredWebhook
		if err := rows.Scan(&w.Key, &w.Name, &w.URL, &w.Organization, &w.Project, &w.CreatedAt, &w.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan webhook: %w", err)
		}
		webhooks = append(webhooks, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate webhooks: %w", err)
	}

	return webhooks, nil
}

// Count returns the number of webhooks in scope
func (r *WebhookRepository) Count(ctx context.Context, scope models.Scope) (count int, err error) {
	ctx, done := observe(ctx, "webhooks.count")
	defer func() { done(err) }()

	query := `
		SELECT COUNT(*)
		FROM webhooks
		WHERE ` + scopePredicate + `
	`

	if err := r.db.QueryRow(ctx, query, scope.Organization, scope.Project).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count webhooks: %w", err)
	}
	return count, nil
}

// Get returns a webhook by key
func (r *WebhookRepository) Get(ctx context.Context, key string) (webhook *models.StoredWebhook, err error) {
	ctx, done := observe(ctx, "webhooks.get")
	defer func() { done(err) }()

	query := `SELECT ` + webhookColumns + ` FROM webhooks WHERE key = $1`

	var w models.StoredWebhook
	err = r.db.QueryRow(ctx, query, key).
		Scan(&w.Key, &w.Name, &w.URL, &w.Organization, &w.Project, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFoundError("webhook")
		}
		return nil, fmt.Errorf("failed to get webhook: %w", err)
	}
	return &w, nil
}

// Create stores a new webhook
func (r *WebhookRepository) Create(ctx context.Context, webhook *models.StoredWebhook) (err error) {
	ctx, done := observe(ctx, "webhooks.create")
	defer func() { done(err) }()

	query := `
		INSERT INTO webhooks (key, name, url, organization, project)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`

	err = r.db.QueryRow(ctx, query,
		webhook.Key,
		webhook.Name,
		webhook.URL,
		nullable(webhook.Organization),
		nullable(webhook.Project),
	).Scan(&webhook.CreatedAt, &webhook.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.ConflictError("webhook key already exists")
		}
		return fmt.Errorf("failed to create webhook: %w", err)
	}
	return nil
}

// Update changes name and url of a webhook
func (r *WebhookRepository) Update(ctx context.Context, key, name, url string) (err error) {
	ctx, done := observe(ctx, "webhooks.update")
	defer func() { done(err) }()

	query := `
		UPDATE webhooks
		SET name = $2, url = $3, updated_at = NOW()
		WHERE key = $1
	`

	tag, err := r.db.Exec(ctx, query, key, name, url)
	if err != nil {
		return fmt.Errorf("failed to update webhook: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFoundError("webhook")
	}
	return nil
}

// Delete removes a webhook
func (r *WebhookRepository) Delete(ctx context.Context, key string) (err error) {
	ctx, done := observe(ctx, "webhooks.delete")
	defer func() { done(err) }()

	tag, err := r.db.Exec(ctx, `DELETE FROM webhooks WHERE key = $1`, key)
	if err != nil {
		return fmt.Errorf("failed to delete webhook: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NotFoundError("webhook")
	}
	return nil
}

// observe opens a span for a database operation and returns the function that
// records its outcome. Not-found results count as successful queries.
func observe(ctx context.Context, operation string) (context.Context, func(error)) {
	ctx, span := tracing.StartSpan(ctx, "db."+operation,
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", operation))
	start := time.Now()

	return ctx, func(err error) {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			err = nil
		}
		status := metrics.Status(err)
		metrics.DBOperationDuration.WithLabelValues(operation, status).Observe(metrics.MeasureDuration(start))
		metrics.DBOperationTotal.WithLabelValues(operation, status).Inc()
		tracing.EndSpan(span, err)
	}
}

// nullable maps an absent scope field to SQL NULL
func nullable(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
