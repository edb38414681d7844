package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/getmentor/webhook-admin/internal/handlers"
	"github.com/getmentor/webhook-admin/internal/models"
	"github.com/getmentor/webhook-admin/pkg/errors"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockWebhookService implements services.WebhookServiceInterface for testing
type MockWebhookService struct {
	mock.Mock
}

func (m *MockWebhookService) List(ctx context.Context, scope models.Scope) (*models.SearchWebhooksResponse, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SearchWebhooksResponse), args.Error(1)
}

func (m *MockWebhookService) Create(ctx context.Context, req *models.CreateWebhookRequest) (*models.CreateWebhookResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CreateWebhookResponse), args.Error(1)
}

func (m *MockWebhookService) Update(ctx context.Context, req *models.UpdateWebhookRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockWebhookService) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(svc *MockWebhookService) *gin.Engine {
	handler := handlers.NewWebhookHandler(svc)
	router := gin.New()
	router.GET("/api/webhooks/list", handler.List)
	router.POST("/api/webhooks/create", handler.Create)
	router.POST("/api/webhooks/update", handler.Update)
	router.POST("/api/webhooks/delete", handler.Delete)
	return router
}

func postForm(router *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestWebhookHandler_List(t *testing.T) {
	svc := new(MockWebhookService)
	svc.On("List", mock.Anything, models.Scope{Organization: "org1", Project: "proj"}).
		Return(&models.SearchWebhooksResponse{Webhooks: []models.Webhook{{Key: "a", Name: "n1", URL: "u1"}}}, nil)

	w := httptest.NewRecorder()
	router := newRouter(svc)
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/webhooks/list?organization=org1&project=proj", http.NoBody))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"webhooks":[{"key":"a","name":"n1","url":"u1"}]}`, w.Body.String())
	svc.AssertExpectations(t)
}

func TestWebhookHandler_ListInternalError(t *testing.T) {
	svc := new(MockWebhookService)
	svc.On("List", mock.Anything, models.Scope{}).Return(nil, errors.InternalError("db down"))

	w := httptest.NewRecorder()
	newRouter(svc).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/webhooks/list", http.NoBody))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, w.Body.String())
}

func TestWebhookHandler_Create(t *testing.T) {
	svc := new(MockWebhookService)
	svc.On("Create", mock.Anything, &models.CreateWebhookRequest{
		Name:         "n2",
		URL:          "https://example.com/hook",
		Organization: "org1",
	}).Return(&models.CreateWebhookResponse{Webhook: models.Webhook{Key: "b", Name: "n2", URL: "https://example.com/hook"}}, nil)

	w := postForm(newRouter(svc), "/api/webhooks/create", url.Values{
		"name":         {"n2"},
		"url":          {"https://example.com/hook"},
		"organization": {"org1"},
	})

	assert.Equal(t, http.StatusOK, w.Code)
	var resp models.CreateWebhookResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "b", resp.Webhook.Key)
	svc.AssertExpectations(t)
}

func TestWebhookHandler_CreateValidation(t *testing.T) {
	svc := new(MockWebhookService)

	w := postForm(newRouter(svc), "/api/webhooks/create", url.Values{
		"name": {strings.Repeat("x", 101)},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var body struct {
		Error   string                     `json:"error"`
		Details []handlers.ValidationError `json:"details"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Validation failed", body.Error)
	assert.Contains(t, body.Details, handlers.ValidationError{Field: "Name", Message: "Name must not exceed 100 characters"})
	assert.Contains(t, body.Details, handlers.ValidationError{Field: "URL", Message: "URL is required"})
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestWebhookHandler_CreateErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{name: "invalid", err: errors.InvalidInputError("url", "must use http or https"), wantCode: http.StatusBadRequest},
		{name: "limit", err: errors.ConflictError("maximum number of webhooks reached for this scope"), wantCode: http.StatusConflict},
		{name: "internal", err: errors.InternalError("boom"), wantCode: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockWebhookService)
			svc.On("Create", mock.Anything, mock.Anything).Return(nil, tt.err)

			w := postForm(newRouter(svc), "/api/webhooks/create", url.Values{
				"name": {"n"},
				"url":  {"https://example.com"},
			})
			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}

func TestWebhookHandler_Update(t *testing.T) {
	svc := new(MockWebhookService)
	svc.On("Update", mock.Anything, &models.UpdateWebhookRequest{Key: "b", Name: "n3", URL: "https://example.com/3"}).Return(nil)

	w := postForm(newRouter(svc), "/api/webhooks/update", url.Values{
		"key":  {"b"},
		"name": {"n3"},
		"url":  {"https://example.com/3"},
	})

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
	svc.AssertExpectations(t)
}

func TestWebhookHandler_DeleteNotFound(t *testing.T) {
	svc := new(MockWebhookService)
	svc.On("Delete", mock.Anything, "zzz").Return(errors.NotFoundError("webhook"))

	w := postForm(newRouter(svc), "/api/webhooks/delete", url.Values{"key": {"zzz"}})

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Webhook not found"}`, w.Body.String())
}

func TestWebhookHandler_DeleteMissingKey(t *testing.T) {
	svc := new(MockWebhookService)

	w := postForm(newRouter(svc), "/api/webhooks/delete", url.Values{})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
