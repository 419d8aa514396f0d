package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	_ "github.com/joho/godotenv/autoload"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/gearbook/gearbook-api/docs" // Swagger docs
	"github.com/gearbook/gearbook-api/internal/config"
	"github.com/gearbook/gearbook-api/internal/database"
	"github.com/gearbook/gearbook-api/internal/handlers"
	"github.com/gearbook/gearbook-api/internal/jobs"
	"github.com/gearbook/gearbook-api/internal/middleware"
	"github.com/gearbook/gearbook-api/internal/repository"
	"github.com/gearbook/gearbook-api/internal/services"
	"github.com/gearbook/gearbook-api/internal/watch"
	"github.com/gearbook/gearbook-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// @title Gearbook API
// @version 1.0
// @description REST API for vehicle ownership tracking: maintenance obligations, expense ledger and loans

// @host localhost:8080
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Setup(cfg.Environment)

	// Initialize Sentry when DSN is configured
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			TracesSampleRate: 0.2,
			Environment:      cfg.Environment,
		}); err != nil {
			logger.Error("Sentry initialization failed", "error", err)
		} else {
			logger.Info("Sentry initialized")
		}
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Connect to database
	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to database")

	if err := database.Migrate(db); err != nil {
		logger.Error("Failed to migrate database", "error", err)
		os.Exit(1)
	}

	// Initialize repositories
	repos := repository.NewRepositories(db)

	// Change-notification hub: mutations publish, read paths re-derive
	hub := watch.NewHub()
	subscribeWatchers(hub)

	// Initialize background worker
	worker := jobs.NewWorker(cfg.WorkerCount)
	logger.Info("Started background worker", "goroutines", cfg.WorkerCount)

	// Initialize services
	svcs := services.NewServices(repos, db, cfg, hub)

	// Schedule recurring scans
	scheduleJobs(worker, svcs)

	// Initialize handlers
	h := handlers.NewHandlers(svcs, worker)

	// Setup router
	router := setupRouter(h, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	worker.Shutdown()
	logger.Info("Background worker stopped")

	if cfg.SentryDSN != "" {
		sentry.Flush(5 * time.Second)
	}

	logger.Info("Server exited gracefully")
}

func setupRouter(h *handlers.Handlers, cfg *config.Config) *gin.Engine {
	router := gin.New()

	// Global middleware
	if cfg.SentryDSN != "" {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.CORS(cfg.AllowedOrigins))
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	// Redirect root to swagger
	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := router.Group("/api/v1")
	{
		// Health check (public)
		v1.GET("/health", h.Health.Check)

		// Protected routes (requires authentication)
		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTSecret))
		{
			vehicles := protected.Group("/vehicles")
			{
				vehicles.GET("", h.Vehicle.Index)
				vehicles.POST("", h.Vehicle.Create)
				vehicles.GET("/:id", h.Vehicle.Show)
				vehicles.PUT("/:id", h.Vehicle.Update)
				vehicles.DELETE("/:id", h.Vehicle.Destroy)
				vehicles.POST("/:id/activate", h.Vehicle.Activate)
				vehicles.POST("/:id/archive", h.Vehicle.Archive)

				vehicles.GET("/:id/obligations", h.Obligation.Index)
				vehicles.GET("/:id/entries", h.Entry.Index)
				vehicles.GET("/:id/entries/latest", h.Entry.Latest)
				vehicles.GET("/:id/loans", h.Loan.Index)
				vehicles.GET("/:id/stats", h.Stats.Stats)
				vehicles.GET("/:id/risks", h.Stats.Risks)
			}

			obligations := protected.Group("/obligations")
			{
				obligations.POST("", h.Obligation.Create)
				obligations.GET("/:id", h.Obligation.Show)
				obligations.DELETE("/:id", h.Obligation.Destroy)
				obligations.POST("/:id/complete", h.Obligation.Complete)
			}

			entries := protected.Group("/entries")
			{
				entries.POST("", h.Entry.Create)
				entries.DELETE("/:id", h.Entry.Destroy)
			}

			loans := protected.Group("/loans")
			{
				loans.POST("", h.Loan.Create)
				loans.GET("/:id", h.Loan.Show)
				loans.DELETE("/:id", h.Loan.Destroy)
				loans.GET("/:id/status", h.Loan.Status)
				loans.GET("/:id/schedule", h.Loan.Schedule)
				loans.POST("/:id/payments", h.Loan.RecordPayment)
				loans.POST("/:id/simulate_prepayment", h.Loan.SimulatePrepayment)
			}

			protected.GET("/audit_logs", h.Audit.Index)

			jobsGroup := protected.Group("/jobs")
			{
				jobsGroup.GET("/stats", h.Job.Stats)
				jobsGroup.POST("/scan_obligations", h.Job.ScanObligations)
				jobsGroup.POST("/scan_loans", h.Job.ScanLoans)
			}
		}
	}

	return router
}

// subscribeWatchers attaches debug-level observers to the mutation streams.
// Derived views recompute on read, so observers only need to trace churn.
func subscribeWatchers(hub *watch.Hub) {
	for _, collection := range []string{
		watch.CollectionVehicles,
		watch.CollectionObligations,
		watch.CollectionEntries,
		watch.CollectionLoans,
	} {
		hub.Subscribe(collection, func(e watch.Event) {
			logger.Debug("Collection changed",
				"collection", e.Collection, "op", e.Op, "record_id", e.RecordID, "vehicle_id", e.VehicleID)
		})
	}
}

func scheduleJobs(worker *jobs.Worker, svcs *services.Services) {
	// Flag overdue obligations every hour, starting at boot
	worker.ScheduleEveryImmediate(1*time.Hour, jobs.Task{
		Name: "overdue_obligation_scan",
		Run: func(ctx context.Context) error {
			_, err := svcs.Job.ScanOverdueObligations(ctx)
			return err
		},
	})

	// Check loan delinquency every 6 hours
	worker.ScheduleEvery(6*time.Hour, jobs.Task{
		Name: "loan_delinquency_scan",
		Run: func(ctx context.Context) error {
			_, err := svcs.Job.ScanDelinquentLoans(ctx)
			return err
		},
	})

	logger.Info("Scheduled recurring jobs")
}
