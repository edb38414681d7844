package services_test

import (
	"context"

	"github.com/getmentor/webhook-admin/internal/models"
	"github.com/stretchr/testify/mock"
)

// MockWebhookStore is a mock implementation of repository.WebhookStore
type MockWebhookStore struct {
	mock.Mock
}

func (m *MockWebhookStore) List(ctx context.Context, scope models.Scope) ([]models.StoredWebhook, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.StoredWebhook), args.Error(1)
}

func (m *MockWebhookStore) Count(ctx context.Context, scope models.Scope) (int, error) {
	args := m.Called(ctx, scope)
	return args.Int(0), args.Error(1)
}

func (m *MockWebhookStore) Get(ctx context.Context, key string) (*models.StoredWebhook, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StoredWebhook), args.Error(1)
}

func (m *MockWebhookStore) Create(ctx context.Context, webhook *models.StoredWebhook) error {
	args := m.Called(ctx, webhook)
	return args.Error(0)
}

func (m *MockWebhookStore) Update(ctx context.Context, key, name, url string) error {
	args := m.Called(ctx, key, name, url)
	return args.Error(0)
}

func (m *MockWebhookStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
