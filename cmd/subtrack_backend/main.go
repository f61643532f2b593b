package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/adapters/cache"
	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/adapters/database/pgsql"
	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/adapters/notify"
	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/adapters/ratesapi"
	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/core/ports/providers"
	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/core/services"
	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/handlers"
	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/middleware"
	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/platform/config"
	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/utils"
	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// alertWebhookTimeout bounds a single alert delivery attempt.
const alertWebhookTimeout = 10 * time.Second

// @title SubTrack API
// @version 1.0
// @description Subscription tracker backend with multi-currency conversion, budgets and rate alerts.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection pool (for application use)
	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(dbPool)
	logger.Info("Database connection pool established.")

	if err := runMigrations(cfg.DatabaseURL, logger); err != nil {
		logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	rateCache, err := buildRateCache(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize rate cache", slog.String("backend", cfg.CacheBackend), slog.String("error", err.Error()))
		os.Exit(1)
	}

	rateSource := ratesapi.NewClient(cfg.RatesAPIBaseURL, cfg.RatesAPIKey, cfg.RatesAPITimeout, logger)
	notifier := buildAlertNotifier(cfg, logger)

	posthogClient := utils.InitializePosthogClient(cfg.PosthogAPIKey, logger)
	defer posthogClient.Close()

	repos := pgsql.NewRepositoryProvider(dbPool)
	container := services.NewServiceContainer(cfg, repos, rateSource, rateCache, notifier)

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, CORS, analytics)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(cors.New(corsConfig(cfg)))
	r.Use(middleware.PosthogMiddleware(posthogClient))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, container)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

// runMigrations applies all pending migrations from the migrations directory.
// It opens a temporary database/sql connection through the pgx stdlib driver
// so the migration tooling stays compatible with the main pool.
func runMigrations(databaseURL string, logger *slog.Logger) error {
	logger.Info("Running database migrations...")

	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return fmt.Errorf("open migration connection: %w", err)
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()

	if err := migrationDB.Ping(); err != nil {
		return fmt.Errorf("ping database for migrations: %w", err)
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create postgres driver instance: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}

	err = m.Up()
	if err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return fmt.Errorf("migration source: %w", sourceErr)
	}
	if dbErr != nil {
		return fmt.Errorf("migration database: %w", dbErr)
	}

	if err == migrate.ErrNoChange {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}

// buildRateCache selects the cache backend. Redis is shared across instances,
// the in-memory cache is per-process and needs no extra infrastructure.
func buildRateCache(cfg *config.Config, logger *slog.Logger) (providers.RateCache, error) {
	if cfg.CacheBackend == "redis" {
		return cache.NewRedisCache(cfg.RedisURL, "subtrack:", logger)
	}
	return cache.NewMemoryCache(), nil
}

// buildAlertNotifier picks where fired rate alerts are delivered. Without a
// webhook URL alerts are only logged.
func buildAlertNotifier(cfg *config.Config, logger *slog.Logger) providers.AlertNotifier {
	if cfg.AlertWebhookURL != "" {
		return notify.NewWebhookNotifier(cfg.AlertWebhookURL, alertWebhookTimeout, logger)
	}
	return notify.NewSlogNotifier(logger)
}

// corsConfig allows the configured frontend origin. Credentials are on
// because the refresh token travels in a cookie.
func corsConfig(cfg *config.Config) cors.Config {
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowOrigins = []string{cfg.FrontendBaseURL}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	corsCfg.AllowCredentials = true
	return corsCfg
}
