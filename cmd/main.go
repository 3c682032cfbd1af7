package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/asifshaikgit/workforce-sub006/internal/config"
	"github.com/asifshaikgit/workforce-sub006/internal/events"
	"github.com/asifshaikgit/workforce-sub006/internal/handlers"
	"github.com/asifshaikgit/workforce-sub006/internal/jobs"
	"github.com/asifshaikgit/workforce-sub006/internal/middleware"
	"github.com/asifshaikgit/workforce-sub006/internal/models"
	"github.com/asifshaikgit/workforce-sub006/internal/repository"
	"github.com/asifshaikgit/workforce-sub006/internal/seeders"
	"github.com/asifshaikgit/workforce-sub006/internal/services"
)

// @title Workforce Workflow API
// @version 1.0.0
// @description Approval workflow, audit trail and recurrence service for workforce records

// @contact.name API Support
// @contact.url http://www.example.com/support
// @contact.email support@example.com

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8099
// @BasePath /api/v1

// @securityDefinitions.bearer BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)
	logger.SetLevel(logrus.InfoLevel)

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		logger.Info("No .env file found, using system environment variables")
	}

	// Initialize configuration
	cfg := config.Load()

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database:", err)
	}

	// Run database migrations
	logger.Info("Running database migrations...")
	if err := db.AutoMigrate(
		&models.ApprovalSetting{},
		&models.ApprovalLevel{},
		&models.ApprovalApprover{},
		&models.ApprovalAction{},
		&models.ActivityTrack{},
		&models.FieldChange{},
		&models.Timesheet{},
		&models.Ledger{},
		&models.Expense{},
		&models.SelfServiceRequest{},
		&models.RecurringConfiguration{},
	); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}
	logger.Info("Database migrations completed")

	// Initialize repository
	repo := repository.NewRepository(db)

	// Initialize event publisher (optional - service works without NATS)
	var publisher *events.Publisher
	if cfg.NATSURL != "" {
		publisher, err = events.NewPublisher(cfg.NATSURL, logger)
		if err != nil {
			logger.Warnf("Failed to initialize event publisher: %v. Events will not be published.", err)
		} else {
			logger.Info("Event publisher initialized")
			defer publisher.Close()
		}
	} else {
		logger.Info("NATS_URL not configured, event publishing disabled")
	}

	// Initialize services
	resolver := services.NewConfigResolver(repo)
	audit := services.NewAuditRecorder()
	chainService := services.NewChainService(repo, publisher)
	entityService := services.NewEntityService(repo, audit)
	workflowService := services.NewWorkflowService(repo, resolver, audit, publisher, logger)

	// Seed default global chains, then verify every module resolves.
	seedTenants(db, cfg, logger)
	verifyTenantDefaults(resolver, cfg, logger)

	// Initialize handlers
	chainHandler := handlers.NewChainHandler(chainService)
	entityHandler := handlers.NewEntityHandler(entityService, workflowService)
	workflowHandler := handlers.NewWorkflowHandler(workflowService, entityService)
	recurrenceHandler := handlers.NewRecurrenceHandler(repo)

	// Start recurrence job
	recurrenceJob := jobs.NewRecurrenceJob(repo, entityService, publisher, logger)
	jobCtx, jobCancel := context.WithCancel(context.Background())
	go recurrenceJob.Start(jobCtx)

	// Initialize Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORS())

	// Health check endpoints (no auth required)
	router.GET("/health", handlers.HealthCheck)
	router.GET("/ready", handlers.ReadinessCheck)

	// Protected API routes
	api := router.Group("/api/v1")
	api.Use(middleware.AuthMiddleware(cfg.JWTSecret))
	api.Use(middleware.TenantMiddleware())

	// Chain configuration endpoints (admin)
	chainAdmin := api.Group("", middleware.RequireRole("admin"))
	{
		chainAdmin.POST("/approval-settings", chainHandler.CreateSetting)
		chainAdmin.GET("/approval-settings", chainHandler.ListSettings)
		chainAdmin.GET("/approval-settings/:id", chainHandler.GetSetting)
		chainAdmin.DELETE("/approval-settings/:id", chainHandler.DeleteSetting)
		chainAdmin.POST("/approval-settings/:id/levels", chainHandler.AddLevel)
		chainAdmin.DELETE("/approval-levels/:id", chainHandler.RemoveLevel)
		chainAdmin.POST("/approval-levels/:id/approvers", chainHandler.AddApprover)
		chainAdmin.DELETE("/approval-approvers/:id", chainHandler.RemoveApprover)
	}

	// Entity CRUD endpoints
	{
		api.POST("/timesheets", entityHandler.CreateTimesheet)
		api.PUT("/timesheets/:id", entityHandler.UpdateTimesheet)
		api.POST("/ledgers", entityHandler.CreateLedger)
		api.PUT("/ledgers/:id", entityHandler.UpdateLedger)
		api.POST("/ledgers/:id/void", entityHandler.VoidLedger)
		api.POST("/expenses", entityHandler.CreateExpense)
		api.PUT("/expenses/:id", entityHandler.UpdateExpense)
		api.POST("/self-service-requests", entityHandler.CreateSelfServiceRequest)
		api.PUT("/self-service-requests/:id", entityHandler.UpdateSelfServiceRequest)
		api.POST("/self-service-requests/:id/close", entityHandler.CloseRequest)
		api.POST("/self-service-requests/:id/reopen", entityHandler.ReopenRequest)
		api.POST("/self-service-requests/:id/cancel", entityHandler.CancelRequest)
	}

	// Shared lifecycle endpoints across entity kinds
	{
		api.GET("/:kind/:id", entityHandler.Get)
		api.DELETE("/:kind/:id", entityHandler.Delete)
		api.POST("/:kind/:id/submit", workflowHandler.Submit)
		api.POST("/:kind/:id/approve", workflowHandler.Approve)
		api.POST("/:kind/:id/reject", workflowHandler.Reject)
		api.GET("/:kind/:id/decisions", workflowHandler.Decisions)
		api.GET("/:kind/:id/history", workflowHandler.History)
	}

	// Recurrence endpoints
	{
		api.POST("/recurring-configurations", recurrenceHandler.Create)
		api.GET("/recurring-configurations/:id", recurrenceHandler.Get)
	}

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Start server
	port := cfg.Port
	if port == "" {
		port = "8099"
	}

	// Setup graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Infof("Workflow service starting on port %s", port)
		if err := router.Run(":" + port); err != nil {
			logger.Fatal("Failed to start server:", err)
		}
	}()

	// Wait for interrupt signal
	<-quit
	logger.Info("Shutting down server...")

	jobCancel()
	recurrenceJob.Stop()
	logger.Info("Recurrence job stopped")

	logger.Info("Server shutdown complete")
}

// seedTenants creates missing global default chains for the configured
// tenants. Entries are "tenantID:defaultApproverUUID".
func seedTenants(db *gorm.DB, cfg *config.Config, logger *logrus.Logger) {
	for _, entry := range strings.Split(cfg.SeedTenants, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		parts := strings.SplitN(entry, ":", 2)
		if len(parts) != 2 {
			logger.Warnf("Skipping malformed SEED_TENANTS entry %q, want tenantID:approverUUID", entry)
			continue
		}
		approverID, err := uuid.Parse(parts[1])
		if err != nil {
			logger.Warnf("Skipping SEED_TENANTS entry %q: invalid approver id", entry)
			continue
		}
		if err := seeders.SeedGlobalChains(db, parts[0], approverID); err != nil {
			logger.Fatalf("Failed to seed global chains for tenant %s: %v", parts[0], err)
		}
	}
}

// verifyTenantDefaults fails startup when a configured tenant is missing a
// global default for any module.
func verifyTenantDefaults(resolver *services.ConfigResolver, cfg *config.Config, logger *logrus.Logger) {
	for _, tenantID := range seedTenantIDs(cfg) {
		if err := resolver.VerifyGlobalDefaults(context.Background(), tenantID); err != nil {
			logger.Fatalf("Tenant %s is missing a global default approval chain: %v", tenantID, err)
		}
	}
}

func seedTenantIDs(cfg *config.Config) []string {
	var ids []string
	for _, entry := range strings.Split(cfg.SeedTenants, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		ids = append(ids, strings.SplitN(entry, ":", 2)[0])
	}
	return ids
}
