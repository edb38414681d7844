package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestHealthHandler_Healthcheck(t *testing.T) {
	tests := []struct {
		name     string
		pingErr  error
		wantCode int
		wantBody string
	}{
		{name: "healthy", wantCode: http.StatusOK, wantBody: `{"status":"ok"}`},
		{
			name:     "database down",
			pingErr:  errors.New("connection refused"),
			wantCode: http.StatusServiceUnavailable,
			wantBody: `{"status":"unavailable","reason":"database unreachable"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHealthHandler(func(context.Context) error { return tt.pingErr })
			router := gin.New()
			router.GET("/healthcheck", handler.Healthcheck)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/healthcheck", http.NoBody)
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Equal(t, "no-cache, no-store, max-age=0, must-revalidate", w.Header().Get("Cache-Control"))
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}
