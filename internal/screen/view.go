package screen

import (
	"context"

	"github.com/getmentor/webhook-admin/internal/models"
)

// View renders frames produced by the screen. Render is called after every
// state change and must not block on the screen itself.
type View interface {
	Render(frame Frame)
}

// Frame carries state and callbacks down to the rendering collaborators.
// List is nil while the initial load is pending.
type Frame struct {
	Header  HeaderFrame
	Actions ActionsFrame
	List    *ListFrame
}

// HeaderFrame is passed to the page header
type HeaderFrame struct {
	Loading bool
}

// ActionsFrame is passed to the page actions bar
type ActionsFrame struct {
	Loading       bool
	WebhooksCount int
	OnCreate      func(ctx context.Context, data CreateData) error
}

// CanCreate reports whether another webhook may be created in this scope
func (a ActionsFrame) CanCreate() bool {
	return !a.Loading && a.WebhooksCount < models.MaxWebhooksPerScope
}

// ListFrame is passed to the webhooks list
type ListFrame struct {
	Webhooks []models.Webhook
	OnDelete func(ctx context.Context, key string) error
	OnUpdate func(ctx context.Context, data UpdateData) error
}
