package handler

import (
	"vendor-settlement-service/internal/adapter/http/middleware"
	redisStore "vendor-settlement-service/internal/adapter/storage/redis"
	"vendor-settlement-service/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	LedgerSvc      ports.LedgerService
	WithdrawalSvc  ports.WithdrawalService
	ReportingSvc   ports.ReportingService
	SettingsSvc    ports.SettingsService
	IngestSvc      ports.OrderIngestService
	TokenSvc       ports.TokenService
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	WebhookSecret  string
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check (deep — verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// Prometheus scrape endpoint
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Rate limit rules
	rules := middleware.DefaultRateLimitRules

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	// API v1 routes
	v1 := r.Group("/api/v1")

	// --- Public routes (no auth) ---
	settingsHandler := NewSettingsHandler(deps.SettingsSvc)
	v1.GET("/platform-settings", rl("ledger_read"), settingsHandler.GetPlatformSettings)

	// --- Signed gateway webhooks (no JWT) ---
	webhookHandler := NewWebhookHandler(deps.IngestSvc)
	webhooks := v1.Group("/webhooks", middleware.WebhookSignature(deps.WebhookSecret))
	{
		webhooks.POST("/payment", rl("webhook"), webhookHandler.PaymentEvent)
	}

	// --- JWT-authenticated routes ---
	jwtAuth := middleware.JWTAuth(deps.TokenSvc)

	// Vendor routes
	ledgerHandler := NewLedgerHandler(deps.LedgerSvc)
	withdrawalHandler := NewWithdrawalHandler(deps.WithdrawalSvc)

	vendor := v1.Group("", jwtAuth, middleware.RequireRole("vendor"))
	{
		vendor.GET("/ledger", rl("ledger_read"), ledgerHandler.GetLedger)
		vendor.GET("/withdrawals", rl("ledger_read"), withdrawalHandler.List)
		vendor.POST("/withdrawals", rl("withdrawal_submit"), withdrawalHandler.Submit)
	}

	// Admin routes
	adminHandler := NewAdminHandler(deps.WithdrawalSvc, deps.ReportingSvc)

	admin := v1.Group("/admin", jwtAuth, middleware.RequireRole("admin"))
	{
		admin.GET("/withdrawals", rl("admin"), adminHandler.ListWithdrawals)
		admin.PATCH("/withdrawals/:id", rl("admin"), adminHandler.ReviewWithdrawal)
		admin.GET("/reports", rl("admin"), adminHandler.GetRevenueReport)
	}

	return r
}
