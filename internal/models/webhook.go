package models

import "time"

// MaxWebhooksPerScope is the number of webhooks a single scope may hold.
const MaxWebhooksPerScope = 10

// Webhook is a name+URL endpoint notified on server-side events.
// Key is assigned by the server and never changes.
type Webhook struct {
	Key  string `json:"key"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// StoredWebhook is a webhook together with the scope it belongs to.
type StoredWebhook struct {
	Webhook
	Organization string
	Project      string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Scope returns the scope the webhook belongs to
func (w *StoredWebhook) Scope() Scope {
	return Scope{Organization: w.Organization, Project: w.Project}
}

// Scope narrows which webhooks are visible or created.
// Empty fields are absent; both empty means global scope.
type Scope struct {
	Organization string `form:"organization" json:"organization,omitempty" binding:"max=255"`
	Project      string `form:"project" json:"project,omitempty" binding:"max=400"`
}

// IsGlobal reports whether neither organization nor project is set
func (s Scope) IsGlobal() bool {
	return s.Organization == "" && s.Project == ""
}

// CacheKey returns a stable key identifying the scope
func (s Scope) CacheKey() string {
	return "org=" + s.Organization + "|project=" + s.Project
}

// Organization is the organization a screen may be scoped to
type Organization struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// Component is the project a screen may be scoped to
type Component struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// SearchWebhooksResponse is the body of GET /api/webhooks/list
type SearchWebhooksResponse struct {
	Webhooks []Webhook `json:"webhooks"`
}

// CreateWebhookRequest is the body of POST /api/webhooks/create
type CreateWebhookRequest struct {
	Name         string `form:"name" json:"name" binding:"required,max=100"`
	URL          string `form:"url" json:"url" binding:"required,max=512,url"`
	Organization string `form:"organization" json:"organization,omitempty" binding:"max=255"`
	Project      string `form:"project" json:"project,omitempty" binding:"max=400"`
}

// Scope returns the scope the webhook is created in
func (r *CreateWebhookRequest) Scope() Scope {
	return Scope{Organization: r.Organization, Project: r.Project}
}

// CreateWebhookResponse is the body returned by POST /api/webhooks/create
type CreateWebhookResponse struct {
	Webhook Webhook `json:"webhook"`
}

// UpdateWebhookRequest is the body of POST /api/webhooks/update
type UpdateWebhookRequest struct {
	Key  string `form:"key" json:"key" binding:"required,max=40"`
	Name string `form:"name" json:"name" binding:"required,max=100"`
	URL  string `form:"url" json:"url" binding:"required,max=512,url"`
}

// DeleteWebhookRequest is the body of POST /api/webhooks/delete
type DeleteWebhookRequest struct {
	Key string `form:"key" json:"key" binding:"required,max=40"`
}
