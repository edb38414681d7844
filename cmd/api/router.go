package main

import (
	"context"
	"time"

	"github.com/getmentor/webhook-admin/config"
	"github.com/getmentor/webhook-admin/internal/handlers"
	"github.com/getmentor/webhook-admin/internal/middleware"
	"github.com/getmentor/webhook-admin/pkg/jwt"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// routerDeps are the collaborators the HTTP router is built from
type routerDeps struct {
	cfg            *config.Config
	tokenManager   *jwt.TokenManager
	webhookHandler *handlers.WebhookHandler
	healthHandler  *handlers.HealthHandler
}

// newRouter builds the gin engine. Rate limiters stop cleaning up when ctx is done.
func newRouter(ctx context.Context, deps routerDeps) *gin.Engine {
	cfg := deps.cfg

	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(cfg.Observability.ServiceName))
	router.Use(middleware.ObservabilityMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	allowedOrigins := append([]string(nil), cfg.Server.AllowedOrigins...)
	if cfg.IsDevelopment() {
		allowedOrigins = append(allowedOrigins, "http://localhost:3000", "http://127.0.0.1:3000")
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "traceparent", "tracestate"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	generalRateLimiter := middleware.NewRateLimiter(ctx, 100, 200) // 100 req/sec, burst of 200
	mutationRateLimiter := middleware.NewRateLimiter(ctx, 5, 10)   // 5 req/sec, burst of 10

	api := router.Group("/api")
	api.GET("/healthcheck", generalRateLimiter.Middleware(), deps.healthHandler.Healthcheck)
	api.GET("/metrics", generalRateLimiter.Middleware(), gin.WrapH(promhttp.Handler()))

	// Viewers may read, only admins may mutate
	webhooks := api.Group("/webhooks")
	webhooks.GET("/list",
		middleware.AdminAuthMiddleware(deps.tokenManager, jwt.RoleAdmin, jwt.RoleViewer),
		generalRateLimiter.Middleware(),
		deps.webhookHandler.List)

	mutations := webhooks.Group("",
		middleware.AdminAuthMiddleware(deps.tokenManager, jwt.RoleAdmin),
		mutationRateLimiter.Middleware(),
		middleware.BodySizeLimitMiddleware(middleware.DefaultMaxBodySize))
	mutations.POST("/create", deps.webhookHandler.Create)
	mutations.POST("/update", deps.webhookHandler.Update)
	mutations.POST("/delete", deps.webhookHandler.Delete)

	return router
}
