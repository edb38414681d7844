package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/getmentor/webhook-admin/internal/cache"
	"github.com/getmentor/webhook-admin/internal/models"
	"github.com/getmentor/webhook-admin/internal/services"
	"github.com/getmentor/webhook-admin/pkg/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var org1 = models.Scope{Organization: "org1"}

func newService(store *MockWebhookStore) *services.WebhookService {
	return services.NewWebhookService(store, cache.NewWebhookListCache(time.Minute), models.MaxWebhooksPerScope)
}

func stored(key, name, url string, scope models.Scope) *models.StoredWebhook {
	return &models.StoredWebhook{
		Webhook:      models.Webhook{Key: key, Name: name, URL: url},
		Organization: scope.Organization,
		Project:      scope.Project,
	}
}

func TestWebhookService_ListUsesCache(t *testing.T) {
	store := new(MockWebhookStore)
	store.On("List", mock.Anything, org1).Return([]models.StoredWebhook{
		*stored("a", "n1", "https://a.example.com", org1),
		*stored("b", "n2", "https://b.example.com", org1),
	}, nil).Once()

	svc := newService(store)

	for i := 0; i < 2; i++ {
		resp, err := svc.List(context.Background(), org1)
		require.NoError(t, err)
		assert.Equal(t, []models.Webhook{
			{Key: "a", Name: "n1", URL: "https://a.example.com"},
			{Key: "b", Name: "n2", URL: "https://b.example.com"},
		}, resp.Webhooks)
	}

	store.AssertExpectations(t)
}

func TestWebhookService_ListEmptyIsNotNil(t *testing.T) {
	store := new(MockWebhookStore)
	store.On("List", mock.Anything, models.Scope{}).Return([]models.StoredWebhook{}, nil)

	resp, err := newService(store).List(context.Background(), models.Scope{})
	require.NoError(t, err)
	assert.NotNil(t, resp.Webhooks)
	assert.Empty(t, resp.Webhooks)
}

func TestWebhookService_ListStoreError(t *testing.T) {
	store := new(MockWebhookStore)
	store.On("List", mock.Anything, org1).Return(nil, fmt.Errorf("connection refused"))

	_, err := newService(store).List(context.Background(), org1)
	assert.EqualError(t, err, "connection refused")
}

func TestWebhookService_Create(t *testing.T) {
	store := new(MockWebhookStore)
	store.On("List", mock.Anything, org1).Return([]models.StoredWebhook{}, nil).Once()
	store.On("Count", mock.Anything, org1).Return(0, nil).Once()
	store.On("Create", mock.Anything, mock.MatchedBy(func(w *models.StoredWebhook) bool {
		return w.Name == "n1" && w.URL == "https://hooks.example.com/x" && w.Organization == "org1" && w.Project == ""
	})).Return(nil).Once()
	store.On("List", mock.Anything, org1).Return([]models.StoredWebhook{
		*stored("k", "n1", "https://hooks.example.com/x", org1),
	}, nil).Once()

	svc := newService(store)

	// warm the cache so the create has something to invalidate
	_, err := svc.List(context.Background(), org1)
	require.NoError(t, err)

	resp, err := svc.Create(context.Background(), &models.CreateWebhookRequest{
		Name:         "  n1 ",
		URL:          "https://hooks.example.com/x",
		Organization: "org1",
	})
	require.NoError(t, err)
	assert.Equal(t, "n1", resp.Webhook.Name)
	_, parseErr := uuid.Parse(resp.Webhook.Key)
	assert.NoError(t, parseErr)

	list, err := svc.List(context.Background(), org1)
	require.NoError(t, err)
	assert.Len(t, list.Webhooks, 1)

	store.AssertExpectations(t)
}

func TestWebhookService_ListReadBeforeCreateIsNotCached(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})

	store := new(MockWebhookStore)
	store.On("List", mock.Anything, org1).Return([]models.StoredWebhook{}, nil).Run(func(mock.Arguments) {
		close(started)
		<-release
	}).Once()
	store.On("Count", mock.Anything, org1).Return(0, nil).Once()
	store.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
	store.On("List", mock.Anything, org1).Return([]models.StoredWebhook{
		*stored("k", "n1", "https://hooks.example.com/x", org1),
	}, nil).Once()

	svc := newService(store)

	done := make(chan error, 1)
	go func() {
		_, err := svc.List(context.Background(), org1)
		done <- err
	}()

	<-started
	_, err := svc.Create(context.Background(), &models.CreateWebhookRequest{
		Name:         "n1",
		URL:          "https://hooks.example.com/x",
		Organization: "org1",
	})
	require.NoError(t, err)
	close(release)
	require.NoError(t, <-done)

	list, err := svc.List(context.Background(), org1)
	require.NoError(t, err)
	assert.Len(t, list.Webhooks, 1)

	store.AssertExpectations(t)
}

func TestWebhookService_CreateLimitReached(t *testing.T) {
	store := new(MockWebhookStore)
	store.On("Count", mock.Anything, org1).Return(models.MaxWebhooksPerScope, nil)

	_, err := newService(store).Create(context.Background(), &models.CreateWebhookRequest{
		Name:         "n",
		URL:          "https://example.com",
		Organization: "org1",
	})
	assert.ErrorIs(t, err, errors.ErrConflict)
	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestWebhookService_CreateValidation(t *testing.T) {
	tests := []struct {
		name string
		req  models.CreateWebhookRequest
	}{
		{name: "blank name", req: models.CreateWebhookRequest{Name: "   ", URL: "https://example.com"}},
		{name: "ftp scheme", req: models.CreateWebhookRequest{Name: "n", URL: "ftp://example.com"}},
		{name: "relative url", req: models.CreateWebhookRequest{Name: "n", URL: "/hooks"}},
		{name: "no host", req: models.CreateWebhookRequest{Name: "n", URL: "https://"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(MockWebhookStore)
			_, err := newService(store).Create(context.Background(), &tt.req)
			assert.ErrorIs(t, err, errors.ErrInvalidInput)
			store.AssertNotCalled(t, "Count", mock.Anything, mock.Anything)
		})
	}
}

func TestWebhookService_Update(t *testing.T) {
	store := new(MockWebhookStore)
	store.On("Get", mock.Anything, "b").Return(stored("b", "n2", "https://b.example.com", org1), nil)
	store.On("Update", mock.Anything, "b", "n3", "https://c.example.com").Return(nil)

	err := newService(store).Update(context.Background(), &models.UpdateWebhookRequest{
		Key:  "b",
		Name: "n3",
		URL:  "https://c.example.com",
	})
	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestWebhookService_UpdateUnknownKey(t *testing.T) {
	store := new(MockWebhookStore)
	store.On("Get", mock.Anything, "zzz").Return(nil, errors.NotFoundError("webhook"))

	err := newService(store).Update(context.Background(), &models.UpdateWebhookRequest{
		Key:  "zzz",
		Name: "n",
		URL:  "https://example.com",
	})
	assert.ErrorIs(t, err, errors.ErrNotFound)
	store.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestWebhookService_Delete(t *testing.T) {
	store := new(MockWebhookStore)
	store.On("Get", mock.Anything, "a").Return(stored("a", "n1", "https://a.example.com", org1), nil)
	store.On("Delete", mock.Anything, "a").Return(nil)

	require.NoError(t, newService(store).Delete(context.Background(), "a"))
	store.AssertExpectations(t)
}

func TestWebhookService_DeleteUnknownKey(t *testing.T) {
	store := new(MockWebhookStore)
	store.On("Get", mock.Anything, "zzz").Return(nil, errors.NotFoundError("webhook"))

	err := newService(store).Delete(context.Background(), "zzz")
	assert.ErrorIs(t, err, errors.ErrNotFound)
}
