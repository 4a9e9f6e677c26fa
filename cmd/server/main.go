// @title           Chatman Ops Backend API
// @version         1.0.0
// @description     Business-operations backend for a fire alarm and security services company. Handles tokenized customer links (quote approval, job status, payment), quote acceptance with Stripe Checkout, access logging, and marketing-site chat and callback requests.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /api

package main

import (
	"log"
	"net/http"
	"net/url"
	"time"

	"chatman-ops-backend/docs"
	"chatman-ops-backend/internal/app"
	"chatman-ops-backend/internal/config"
	"chatman-ops-backend/internal/database"
	"chatman-ops-backend/internal/handlers"
	"chatman-ops-backend/internal/llm"
	"chatman-ops-backend/internal/middleware"
	"chatman-ops-backend/internal/payments"
	"chatman-ops-backend/internal/qr"
	"chatman-ops-backend/internal/services"
	"chatman-ops-backend/internal/supabase"
	"chatman-ops-backend/internal/voice"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := app.NewLogger(cfg.Environment)
	defer logger.Sync()

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Update Swagger docs with dynamic base URL
	if cfg.BaseURL != "" {
		baseURL, err := url.Parse(cfg.BaseURL)
		if err == nil {
			docs.SwaggerInfo.Host = baseURL.Host
			if baseURL.Scheme == "https" {
				docs.SwaggerInfo.Schemes = []string{"https", "http"}
			} else {
				docs.SwaggerInfo.Schemes = []string{"http", "https"}
			}
		}
	}

	// Database connection and migrations
	dbClient, err := supabase.NewDatabaseClient(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("failed to initialize database client", zap.Error(err))
	}
	defer dbClient.Close()

	migrator, err := database.NewMigrator(cfg.DatabaseURL, logger)
	if err != nil {
		logger.Fatal("failed to initialize migrator", zap.Error(err))
	}
	if err := migrator.Run(); err != nil {
		migrator.Close()
		logger.Fatal("migration failed", zap.Error(err))
	}
	migrator.Close()

	// Supabase clients
	supabaseClient, err := supabase.NewClient(cfg)
	if err != nil {
		logger.Fatal("failed to initialize Supabase client", zap.Error(err))
	}

	storageClient, err := supabase.NewStorageClient(cfg.SupabaseURL, cfg.SupabasePublishableKey, cfg.SupabaseStorageBucket)
	if err != nil {
		logger.Fatal("failed to initialize storage client", zap.Error(err))
	}

	realtimeClient := supabase.NewRealtimeClient(supabaseClient.Supabase)

	// External service clients
	checkoutClient := payments.NewCheckoutClient(cfg.StripeSecretKey, cfg.BaseURL)
	chatClient := llm.NewClient(cfg.LLMAPIBaseURL, cfg.LLMAPIKey, cfg.LLMModel)
	voiceClient := voice.NewClient(cfg.VoiceAPIBaseURL, cfg.VoiceAccountSID, cfg.VoiceAuthToken, cfg.VoiceFromNumber)
	qrClient := qr.NewClient(cfg.QRAPIBaseURL)

	// Services
	acceptanceService := services.NewAcceptanceService(dbClient, checkoutClient, realtimeClient, logger)

	// Handlers
	linksHandler := handlers.NewLinksHandler(dbClient, storageClient, realtimeClient, logger, cfg.BaseURL)
	acceptHandler := handlers.NewAcceptHandler(acceptanceService)
	webhookHandler := handlers.NewWebhookHandler(cfg, dbClient, realtimeClient, logger)
	chatHandler := handlers.NewChatHandler(chatClient, logger)
	callbacksHandler := handlers.NewCallbacksHandler(dbClient, voiceClient, logger, cfg.BaseURL)
	qrHandler := handlers.NewQRHandler(dbClient, qrClient, cfg.BaseURL)

	// Rate limiting for the unauthenticated marketing-site endpoints
	limiter := middleware.NewRateLimiter()

	// Setup router
	router := gin.Default()

	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check (no auth)
	router.GET("/health", handlers.HealthHandler)

	api := router.Group("/api")

	// Public customer-facing routes. Staff sessions are honored when
	// present so link previews skip access logging.
	api.GET("/customer-links/:token", middleware.OptionalStaffAuth(cfg), linksHandler.GetLink)
	api.POST("/customer-links/:token/accept", acceptHandler.AcceptQuote)

	// Marketing site
	api.POST("/chat", middleware.RateLimit(limiter, 20, time.Minute), chatHandler.Chat)
	api.POST("/callback-requests", middleware.RateLimit(limiter, 5, time.Minute), callbacksHandler.CreateCallback)

	// Stripe webhook (no auth, signature-verified)
	api.POST("/webhooks/stripe", webhookHandler.HandleStripeWebhook)

	// Staff routes
	staff := api.Group("")
	staff.Use(middleware.StaffAuth(cfg))
	staff.POST("/customer-links", linksHandler.CreateLink)
	staff.GET("/customer-links", linksHandler.ListLinks)
	staff.PATCH("/customer-links/:token", linksHandler.UpdateLink)
	staff.DELETE("/customer-links/:token", linksHandler.DeleteLink)
	staff.GET("/customer-links/:token/access-logs", linksHandler.ListAccessLogs)
	staff.GET("/customer-links/:token/qr", qrHandler.GetLinkQR)

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8080"
	}

	logger.Info("server starting", zap.String("port", port))
	if err := http.ListenAndServe(":"+port, router); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}
