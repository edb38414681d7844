package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/getmentor/webhook-admin/config"
	"github.com/getmentor/webhook-admin/internal/cache"
	"github.com/getmentor/webhook-admin/internal/handlers"
	"github.com/getmentor/webhook-admin/internal/repository"
	"github.com/getmentor/webhook-admin/internal/services"
	"github.com/getmentor/webhook-admin/pkg/db"
	"github.com/getmentor/webhook-admin/pkg/jwt"
	"github.com/getmentor/webhook-admin/pkg/logger"
	"github.com/getmentor/webhook-admin/pkg/metrics"
	"github.com/getmentor/webhook-admin/pkg/profiling"
	"github.com/getmentor/webhook-admin/pkg/retry"
	"github.com/getmentor/webhook-admin/pkg/tracing"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		LogDir:      cfg.Logging.Dir,
		Environment: cfg.Server.AppEnv,
		ServiceName: cfg.Observability.ServiceName,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting webhooks API",
		zap.String("version", cfg.Observability.ServiceVersion),
		zap.String("environment", cfg.Server.AppEnv),
	)

	// Initialize distributed tracing
	tracerShutdown, err := tracing.InitTracer(tracing.Config{
		ServiceName:       cfg.Observability.ServiceName,
		ServiceNamespace:  cfg.Observability.ServiceNamespace,
		ServiceVersion:    cfg.Observability.ServiceVersion,
		ServiceInstanceID: cfg.Observability.ServiceInstanceID,
		Environment:       cfg.Server.AppEnv,
		Endpoint:          cfg.Observability.ExporterEndpoint,
	})
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tracerShutdown(ctx); shutdownErr != nil {
			logger.LogError(shutdownErr, "Failed to shutdown tracer")
		}
	}()

	// Continuous profiling is optional
	stopProfiler, err := profiling.InitProfiler(cfg.Profiling, cfg.Observability, cfg.Server.AppEnv)
	if err != nil {
		logger.Error("Failed to start profiler", zap.Error(err))
	} else {
		defer stopProfiler()
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	metrics.RecordInfrastructureMetrics(15*time.Second, ctx.Done())

	// The database may still be starting when the container comes up
	pool, err := retry.DoWithResult(ctx, retry.DatabaseConfig(), "db.connect", func() (*pgxpool.Pool, error) {
		return db.NewPool(ctx, db.PoolConfig{
			URL:        cfg.Database.URL,
			CACertPath: cfg.Database.CACertPath,
			MaxConns:   cfg.Database.MaxConns,
			MinConns:   cfg.Database.MinConns,
		})
	})
	if err != nil {
		logger.Fatal("Failed to initialize database connection pool", zap.Error(err))
	}
	defer db.Close(pool)

	// NOTE: migrations run separately via the migrate command

	listCache := cache.NewWebhookListCache(time.Duration(cfg.Webhooks.ListCacheTTLSeconds) * time.Second)
	webhookRepo := repository.NewWebhookRepository(pool)
	webhookService := services.NewWebhookService(webhookRepo, listCache, cfg.Webhooks.MaxPerScope)

	gin.SetMode(cfg.Server.GinMode)
	router := newRouter(ctx, routerDeps{
		cfg:            cfg,
		tokenManager:   jwt.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.TokenTTLHours),
		webhookHandler: handlers.NewWebhookHandler(webhookService),
		healthHandler:  handlers.NewHealthHandler(pool.Ping),
	})

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		logger.Info("Server started", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
