package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	billingapp "github.com/propman/backend/internal/application/billing"
	meteringapp "github.com/propman/backend/internal/application/metering"
	payoutapp "github.com/propman/backend/internal/application/payout"
	propertyapp "github.com/propman/backend/internal/application/property"
	"github.com/propman/backend/internal/infrastructure/cache"
	"github.com/propman/backend/internal/infrastructure/config"
	"github.com/propman/backend/internal/infrastructure/logger"
	"github.com/propman/backend/internal/infrastructure/persistence"
	"github.com/propman/backend/internal/infrastructure/telemetry"
	"github.com/propman/backend/internal/interfaces/http/handler"
	"github.com/propman/backend/internal/interfaces/http/middleware"
	"github.com/propman/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting billing engine",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize tracing before the database so queries can attach spans
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Initialize database connection with gorm logs routed through zap
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, log, logger.MapGormLogLevel(cfg.Log.Level))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		if err := db.EnableTracing(); err != nil {
			log.Fatal("Failed to enable database tracing", zap.Error(err))
		}
	}

	// Run lock serializes generation runs across instances
	lockFactory := cache.NewRunLockFactory(cfg.Redis, cache.WithLogger(log))
	runLock, err := lockFactory.CreateLock()
	if err != nil {
		log.Fatal("Failed to create run lock", zap.Error(err))
	}

	// Initialize repositories
	ownerRepo := persistence.NewGormOwnerRepository(db.DB)
	tenantRepo := persistence.NewGormTenantRepository(db.DB)
	apartmentRepo := persistence.NewGormApartmentRepository(db.DB)
	contractRepo := persistence.NewGormContractRepository(db.DB)
	chargeRepo := persistence.NewGormApartmentChargeRepository(db.DB)
	linkRepo := persistence.NewGormContractLinkRepository(db.DB)
	meterRepo := persistence.NewGormMeterRepository(db.DB)
	readingRepo := persistence.NewGormReadingRepository(db.DB)
	billRepo := persistence.NewGormBillRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	payoutRepo := persistence.NewGormOwnerPayoutRepository(db.DB)

	// Transaction scopes bind multi-repository operations to one transaction
	billingTxScope := persistence.NewGormBillingTransactionScope(db.DB)
	payoutTxScope := persistence.NewGormPayoutTransactionScope(db.DB)
	propertyTxScope := persistence.NewGormPropertyTransactionScope(db.DB)

	// Initialize application services
	directoryService := propertyapp.NewDirectoryService(ownerRepo, tenantRepo, apartmentRepo, meterRepo, log)
	contractService := propertyapp.NewContractService(propertyTxScope, contractRepo, tenantRepo, chargeRepo, linkRepo, log)
	readingService := meteringapp.NewReadingService(meterRepo, readingRepo, cfg.Billing.AllowNegativeConsumption)
	billService := billingapp.NewBillService(
		billingTxScope, billRepo, contractRepo, chargeRepo, linkRepo,
		meterRepo, readingRepo, runLock, cfg.Billing.GenerationLockTTL, log,
	)
	paymentService := billingapp.NewPaymentService(billingTxScope, billRepo, paymentRepo, log)
	payoutService := payoutapp.NewPayoutService(
		payoutTxScope, payoutRepo, billRepo, chargeRepo, apartmentRepo,
		runLock, cfg.Billing.GenerationLockTTL, log,
	)

	// Initialize HTTP handlers
	directoryHandler := handler.NewDirectoryHandler(directoryService)
	contractHandler := handler.NewContractHandler(contractService)
	readingHandler := handler.NewReadingHandler(readingService)
	billHandler := handler.NewBillHandler(billService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	payoutHandler := handler.NewPayoutHandler(payoutService)
	systemHandler := handler.NewSystemHandler(db, cfg.App.Name)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.HTTP.CORSAllowOrigins,
		AllowMethods: cfg.HTTP.CORSAllowMethods,
		AllowHeaders: cfg.HTTP.CORSAllowHeaders,
		MaxAge:       12 * time.Hour,
	}))

	// Health check endpoint outside API versioning, for load balancer probes
	engine.GET("/health", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(directoryHandler).
		Register(contractHandler).
		Register(readingHandler).
		Register(billHandler).
		Register(paymentHandler).
		Register(payoutHandler).
		Register(systemHandler)
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
