// Package screen implements the webhook administration screen: it owns the list
// of webhooks for one scope and reconciles it with the remote API after every
// create, update and delete.
//
// Completions of remote calls are applied only while the screen is mounted and
// only for the mount generation they were dispatched in. In-flight requests are
// never aborted; their effects are dropped.
package screen

import (
	"context"
	"sync"

	"github.com/getmentor/webhook-admin/internal/models"
	"github.com/getmentor/webhook-admin/pkg/logger"
	"go.uber.org/zap"
)

// API is the remote webhooks API the screen reads from and writes to.
type API interface {
	SearchWebhooks(ctx context.Context, scope models.Scope) (*models.SearchWebhooksResponse, error)
	CreateWebhook(ctx context.Context, req models.CreateWebhookRequest) (*models.CreateWebhookResponse, error)
	UpdateWebhook(ctx context.Context, req models.UpdateWebhookRequest) error
	DeleteWebhook(ctx context.Context, req models.DeleteWebhookRequest) error
}

// Props is the scoping context supplied by the application shell.
// A nil Organization or Component means the screen is not scoped to it.
type Props struct {
	Organization *models.Organization
	Component    *models.Component
}

// State is a snapshot of the screen state.
type State struct {
	Loading  bool
	Webhooks []models.Webhook
}

// CreateData is what the create form submits
type CreateData struct {
	Name string
	URL  string
}

// UpdateData is what a list row submits when edited
type UpdateData struct {
	Key  string
	Name string
	URL  string
}

// Screen is the webhook administration screen.
type Screen struct {
	api   API
	props Props
	view  View

	mu         sync.Mutex
	state      State
	mounted    bool
	generation uint64

	renderMu sync.Mutex
}

// New creates an unmounted screen. view may be nil.
func New(api API, props Props, view View) *Screen {
	return &Screen{
		api:   api,
		props: props,
		view:  view,
		state: State{Loading: true, Webhooks: []models.Webhook{}},
	}
}

// Mount activates the screen and starts loading the webhook list.
// The returned channel is closed once the initial fetch has settled.
func (s *Screen) Mount(ctx context.Context) <-chan struct{} {
	s.mu.Lock()
	s.mounted = true
	s.generation++
	s.state = State{Loading: true, Webhooks: []models.Webhook{}}
	s.mu.Unlock()

	s.Render()

	done := make(chan struct{})
	go func() {
		defer close(done)
		s.FetchWebhooks(ctx)
	}()
	return done
}

// Unmount deactivates the screen. Pending completions become no-ops.
func (s *Screen) Unmount() {
	s.mu.Lock()
	s.mounted = false
	s.mu.Unlock()
}

// Mounted reports whether the screen is active
func (s *Screen) Mounted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mounted
}

// State returns a copy of the current state
func (s *Screen) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return State{
		Loading:  s.state.Loading,
		Webhooks: append([]models.Webhook(nil), s.state.Webhooks...),
	}
}

// ScopeParams derives the API scope from the screen props
func (s *Screen) ScopeParams() models.Scope {
	return ScopeParamsFor(s.props)
}

// ScopeParamsFor derives the API scope from explicit props
func ScopeParamsFor(props Props) models.Scope {
	var scope models.Scope
	if props.Organization != nil {
		scope.Organization = props.Organization.Key
	}
	if props.Component != nil {
		scope.Project = props.Component.Key
	}
	return scope
}

// FetchWebhooks loads the webhook list for the current scope.
// A failed load only ends the loading state.
func (s *Screen) FetchWebhooks(ctx context.Context) {
	gen := s.currentGeneration()
	scope := s.ScopeParams()

	resp, err := s.api.SearchWebhooks(ctx, scope)
	if err != nil {
		logger.Warn("Failed to load webhooks",
			zap.String("organization", scope.Organization),
			zap.String("project", scope.Project),
			zap.Error(err))
		s.apply(gen, func(st State) State {
			st.Loading = false
			return st
		})
		return
	}

	webhooks := make([]models.Webhook, 0, len(resp.Webhooks))
	webhooks = append(webhooks, resp.Webhooks...)
	s.apply(gen, func(State) State {
		return State{Loading: false, Webhooks: webhooks}
	})
}

// HandleCreate creates a webhook in the current scope and appends it to the list.
func (s *Screen) HandleCreate(ctx context.Context, data CreateData) error {
	gen := s.currentGeneration()
	scope := s.ScopeParams()

	resp, err := s.api.CreateWebhook(ctx, models.CreateWebhookRequest{
		Name:         data.Name,
		URL:          data.URL,
		Organization: scope.Organization,
		Project:      scope.Project,
	})
	if err != nil {
		return err
	}

	created := resp.Webhook
	s.apply(gen, func(st State) State {
		// the initial fetch may already have returned this key
		if i := indexOf(st.Webhooks, created.Key); i >= 0 {
			st.Webhooks = replaceAt(st.Webhooks, i, created)
			return st
		}
		next := make([]models.Webhook, 0, len(st.Webhooks)+1)
		next = append(next, st.Webhooks...)
		st.Webhooks = append(next, created)
		return st
	})
	return nil
}

// HandleDelete deletes the webhook with key and removes it from the list.
func (s *Screen) HandleDelete(ctx context.Context, key string) error {
	gen := s.currentGeneration()

	if err := s.api.DeleteWebhook(ctx, models.DeleteWebhookRequest{Key: key}); err != nil {
		return err
	}

	s.apply(gen, func(st State) State {
		next := make([]models.Webhook, 0, len(st.Webhooks))
		for _, w := range st.Webhooks {
			if w.Key != key {
				next = append(next, w)
			}
		}
		st.Webhooks = next
		return st
	})
	return nil
}

// HandleUpdate updates name and url of the webhook with data.Key in place.
func (s *Screen) HandleUpdate(ctx context.Context, data UpdateData) error {
	gen := s.currentGeneration()

	err := s.api.UpdateWebhook(ctx, models.UpdateWebhookRequest{
		Key:  data.Key,
		Name: data.Name,
		URL:  data.URL,
	})
	if err != nil {
		return err
	}

	s.apply(gen, func(st State) State {
		i := indexOf(st.Webhooks, data.Key)
		if i < 0 {
			return st
		}
		updated := st.Webhooks[i]
		updated.Name = data.Name
		updated.URL = data.URL
		st.Webhooks = replaceAt(st.Webhooks, i, updated)
		return st
	})
	return nil
}

// Render hands the current frame to the view.
func (s *Screen) Render() {
	if s.view == nil {
		return
	}
	s.renderMu.Lock()
	defer s.renderMu.Unlock()
	s.view.Render(s.Frame())
}

// Frame builds the props passed down to the header, actions and list views.
func (s *Screen) Frame() Frame {
	st := s.State()

	frame := Frame{
		Header: HeaderFrame{Loading: st.Loading},
		Actions: ActionsFrame{
			Loading:       st.Loading,
			WebhooksCount: len(st.Webhooks),
			OnCreate:      s.HandleCreate,
		},
	}
	if !st.Loading {
		frame.List = &ListFrame{
			Webhooks: st.Webhooks,
			OnDelete: s.HandleDelete,
			OnUpdate: s.HandleUpdate,
		}
	}
	return frame
}

func (s *Screen) currentGeneration() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// apply runs fn against the latest state if the screen is still mounted in
// generation gen, then re-renders.
func (s *Screen) apply(gen uint64, fn func(State) State) bool {
	s.mu.Lock()
	if !s.mounted || gen != s.generation {
		s.mu.Unlock()
		return false
	}
	s.state = fn(s.state)
	s.mu.Unlock()

	s.Render()
	return true
}

func indexOf(webhooks []models.Webhook, key string) int {
	for i, w := range webhooks {
		if w.Key == key {
			return i
		}
	}
	return -1
}

func replaceAt(webhooks []models.Webhook, i int, w models.Webhook) []models.Webhook {
	next := append([]models.Webhook(nil), webhooks...)
	next[i] = w
	return next
}
