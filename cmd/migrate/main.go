package main

import (
	"context"
	"fmt"
	"net/url"
	"os"

	"github.com/getmentor/webhook-admin/config"
	"github.com/getmentor/webhook-admin/pkg/db"
	"github.com/getmentor/webhook-admin/pkg/logger"
	"github.com/getmentor/webhook-admin/pkg/retry"
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
		ServiceName: "webhooks-migrate",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting database migrations",
		zap.String("database", maskDatabaseURL(cfg.Database.URL)))

	// the database container may not accept connections yet
	err = retry.Do(context.Background(), retry.DatabaseConfig(), "db.migrate", func() error {
		return db.RunMigrations(cfg.Database.URL, cfg.Database.CACertPath, "file://migrations")
	})
	if err != nil {
		logger.Error("Failed to run migrations", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("Database migrations completed successfully")
}

// maskDatabaseURL hides the password and query, keeping host and database name
func maskDatabaseURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "***"
	}
	u.RawQuery = ""
	return u.Redacted()
}
