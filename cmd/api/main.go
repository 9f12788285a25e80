package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vendor-settlement-service/config"
	eventAdapter "vendor-settlement-service/internal/adapter/event"
	httpHandler "vendor-settlement-service/internal/adapter/http/handler"
	pgStorage "vendor-settlement-service/internal/adapter/storage/postgres"
	redisStorage "vendor-settlement-service/internal/adapter/storage/redis"
	"vendor-settlement-service/internal/core/ports"
	"vendor-settlement-service/internal/service"
	"vendor-settlement-service/pkg/logger"
)

const settingsCacheTTL = 5 * time.Minute

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting Vendor Settlement Service")

	ctx := context.Background()

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	// Apply pending schema migrations
	if err := pgStorage.RunMigrations(cfg.Database.DSN(), cfg.Database.MigrationsPath, log); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	// Initialize repositories
	vendorRepo := pgStorage.NewVendorRepo(pool)
	orderRepo := pgStorage.NewOrderRepo(pool)
	withdrawalRepo := pgStorage.NewWithdrawalRepo(pool)
	settingsRepo := pgStorage.NewSettingsRepo(pool)
	transactor := pgStorage.NewTransactor(pool)

	// Initialize Redis stores
	settingsCache := redisStorage.NewSettingsCache(rdb, settingsCacheTTL)
	rateLimitStore := redisStorage.NewRateLimitStore(rdb)

	// Initialize event publisher
	var publisher ports.EventPublisher
	if cfg.Kafka.Enabled {
		kafkaPublisher := eventAdapter.NewKafkaPublisher(cfg.Kafka, log)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("Kafka publisher enabled")
	} else {
		publisher = eventAdapter.NewNoopPublisher()
	}

	// Initialize core services
	tokenSvc := service.NewTokenService(cfg.JWT)
	notifier := service.NewMailNotifier(cfg.Mailer, &http.Client{Timeout: cfg.Mailer.Timeout}, log)

	// Initialize business services
	settingsSvc := service.NewSettingsService(settingsRepo, settingsCache, log)
	ledgerSvc := service.NewLedgerService(vendorRepo, orderRepo, withdrawalRepo, settingsSvc, log)
	withdrawalSvc := service.NewWithdrawalService(
		vendorRepo,
		orderRepo,
		withdrawalRepo,
		settingsSvc,
		transactor,
		notifier,
		publisher,
		log,
	)
	reportingSvc := service.NewReportingService(orderRepo, log)
	ingestSvc := service.NewOrderIngestService(orderRepo, vendorRepo, log)

	// Initialize health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		LedgerSvc:      ledgerSvc,
		WithdrawalSvc:  withdrawalSvc,
		ReportingSvc:   reportingSvc,
		SettingsSvc:    settingsSvc,
		IngestSvc:      ingestSvc,
		TokenSvc:       tokenSvc,
		RateLimitStore: rateLimitStore,
		HealthCheckers: []ports.HealthChecker{pgHealth, redisHealth},
		WebhookSecret:  cfg.Settlement.WebhookSecret,
		Logger:         log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
