package repository

import (
	"context"

	"github.com/getmentor/webhook-admin/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// WebhookStore defines webhook persistence.
// An empty organization or project in a scope is stored as NULL.
type WebhookStore interface {
	// List returns the webhooks of scope ordered by creation time
	List(ctx context.Context, scope models.Scope) ([]models.StoredWebhook, error)

	// Count returns the number of webhooks in scope
	Count(ctx context.Context, scope models.Scope) (int, error)

	// Get returns a webhook by key or errors.ErrNotFound
	Get(ctx context.Context, key string) (*models.StoredWebhook, error)

	// Create stores a new webhook, filling its timestamps
	Create(ctx context.Context, webhook *models.StoredWebhook) error

	// Update changes name and url of a webhook or returns errors.ErrNotFound
	Update(ctx context.Context, key, name, url string) error

	// Delete removes a webhook or returns errors.ErrNotFound
	Delete(ctx context.Context, key string) error
}

// Querier is the subset of *pgxpool.Pool used by repositories
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}
