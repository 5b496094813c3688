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
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	wmsevent "github.com/wms/backend/internal/application/event"
	"github.com/wms/backend/internal/application/inventory"
	"github.com/wms/backend/internal/domain/location"
	"github.com/wms/backend/internal/domain/movement"
	"github.com/wms/backend/internal/domain/restock"
	"github.com/wms/backend/internal/domain/stockitem"
	"github.com/wms/backend/internal/domain/threshold"
	"github.com/wms/backend/internal/infrastructure/auth"
	"github.com/wms/backend/internal/infrastructure/config"
	"github.com/wms/backend/internal/infrastructure/event"
	"github.com/wms/backend/internal/infrastructure/logger"
	"github.com/wms/backend/internal/infrastructure/persistence"
	"github.com/wms/backend/internal/infrastructure/scheduler"
	"github.com/wms/backend/internal/infrastructure/telemetry"
	"github.com/wms/backend/internal/interfaces/http/handler"
	"github.com/wms/backend/internal/interfaces/http/middleware"
	"github.com/wms/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

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

	log.Info("Starting WMS Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	bgCtx, cancelBackground := context.WithCancel(context.Background())
	defer cancelBackground()

	tracerProvider, err := telemetry.NewTracerProvider(bgCtx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		_ = tracerProvider.Shutdown(context.Background())
	}()

	meterProvider, err := telemetry.NewMeterProvider(bgCtx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() {
		_ = meterProvider.Shutdown(context.Background())
	}()

	db, err := persistence.NewDatabaseWithTracing(&cfg.Database, gormLog, &cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Error closing redis client", zap.Error(err))
		}
	}()

	// Every domain event this module publishes to the outbox must be
	// registered here so the serializer can deserialize it back off the
	// outbox for dispatch to the in-memory bus.
	serializer := event.NewEventSerializer()
	registerDomainEvents(serializer)

	tenantRepo := persistence.NewGormTenantRepository(db.DB)
	scope := inventory.NewGormTransactionScope(db.DB, tenantRepo, serializer, log).
		WithRepositoryCache(redisClient, 5*time.Minute)

	eventBus := event.NewInMemoryEventBus(log)
	restockService := inventory.NewRestockService(scope, log)
	restockReactor := wmsevent.NewRestockReactor(restockService, wmsevent.NewLoggingStockAlertNotifier(log), log)
	eventBus.Subscribe(restockReactor, restockReactor.EventTypes()...)

	outboxRepo := event.NewGormOutboxRepository(db.DB)
	outboxProcessorCfg := event.OutboxProcessorConfig{
		BatchSize:        cfg.Event.BatchSize,
		PollInterval:     cfg.Event.PollInterval,
		CleanupEnabled:   cfg.Event.CleanupEnabled,
		CleanupRetention: cfg.Event.CleanupRetention,
		CleanupInterval:  1 * time.Hour,
	}
	outboxProcessor := event.NewOutboxProcessor(outboxRepo, eventBus, serializer, outboxProcessorCfg, log)
	outboxService := wmsevent.NewOutboxService(outboxRepo, log)

	if cfg.Event.ProcessorEnabled {
		if err := outboxProcessor.Start(bgCtx); err != nil {
			log.Fatal("Failed to start outbox processor", zap.Error(err))
		}
		defer func() {
			_ = outboxProcessor.Stop(context.Background())
		}()
	}

	// Sweep scheduler walks every active tenant on a cron interval and
	// reclassifies stock items whose shelf-life window has moved on.
	reclassificationExecutor := inventory.NewReclassificationJobExecutor(scope, tenantRepo, log)
	sweepJobRepo := scheduler.NewSchedulerJobRepository(db.DB)
	sweepScheduler := scheduler.NewSweepCronScheduler(
		scheduler.DefaultSweepSchedulerConfig(),
		reclassificationExecutor,
		tenantRepo,
		sweepJobRepo,
		log,
	)
	if err := sweepScheduler.Start(bgCtx); err != nil {
		log.Fatal("Failed to start sweep scheduler", zap.Error(err))
	}
	defer func() {
		_ = sweepScheduler.Stop(context.Background())
	}()

	locationService := inventory.NewLocationService(scope, log)
	fefoService := inventory.NewFEFOService(scope, log)
	movementService := inventory.NewMovementService(scope, log)
	stockItemService := inventory.NewStockItemService(scope, log)
	thresholdService := inventory.NewThresholdService(scope, log)
	productMetadata := inventory.NewNoOpProductMetadataProvider(log)
	queryService := inventory.NewQueryService(scope, productMetadata, log)

	locationHandler := handler.NewLocationHandler(locationService, queryService)
	stockItemHandler := handler.NewStockItemHandler(stockItemService, fefoService, queryService)
	movementHandler := handler.NewMovementHandler(movementService)
	restockHandler := handler.NewRestockHandler(restockService, queryService)
	thresholdHandler := handler.NewThresholdHandler(thresholdService)
	outboxHandler := handler.NewOutboxHandler(outboxService)

	jwtService := auth.NewJWTService(cfg.JWT)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	middleware.SetupValidator()

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.CORS())
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(limiter))
	}

	engine.GET("/health", func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	})

	// Authenticated requests resolve JWT claims, then the tenant they
	// belong to, then bridge both into the domain tenantctx used by every
	// application service.
	authenticated := []gin.HandlerFunc{
		middleware.JWTAuthMiddleware(jwtService),
		middleware.TenantMiddleware(),
		middleware.WMSTenantContextMiddleware(log),
	}

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(&router.InventoryRoutes{
		Locations:  locationHandler,
		StockItems: stockItemHandler,
		Movements:  movementHandler,
		Restocks:   restockHandler,
		Thresholds: thresholdHandler,
		Middleware: authenticated,
	})
	r.Register(&outboxRoutes{handler: outboxHandler, middleware: authenticated})
	r.Setup()

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// outboxRoutes adapts the pre-existing OutboxHandler to router.RouteRegistrar
// under /system/outbox.
type outboxRoutes struct {
	handler    *handler.OutboxHandler
	middleware []gin.HandlerFunc
}

func (o *outboxRoutes) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group("/system/outbox")
	if len(o.middleware) > 0 {
		group.Use(o.middleware...)
	}
	group.GET("/dead", o.handler.GetDeadLetterEntries)
	group.GET("/stats", o.handler.GetStats)
	group.GET("/:id", o.handler.GetEntry)
	group.POST("/:id/retry", o.handler.RetryDeadEntry)
	group.POST("/dead/retry-all", o.handler.RetryAllDeadEntries)
}

func registerDomainEvents(s *event.EventSerializer) {
	s.Register(location.EventTypeLocationCreated, &location.CreatedEvent{})
	s.Register(location.EventTypeLocationStatusChanged, &location.StatusChangedEvent{})
	s.Register(location.EventTypeLocationAssigned, &location.AssignedEvent{})
	s.Register(location.EventTypeLocationReleased, &location.ReleasedEvent{})

	s.Register(stockitem.EventTypeStockItemCreated, &stockitem.CreatedEvent{})
	s.Register(stockitem.EventTypeStockClassified, &stockitem.ClassifiedEvent{})
	s.Register(stockitem.EventTypeStockExpired, &stockitem.ExpiredEvent{})
	s.Register(stockitem.EventTypeStockExpiringAlert, &stockitem.ExpiringAlertEvent{})
	s.Register(stockitem.EventTypeLocationAssignedToStockItem, &stockitem.LocationAssignedToStockItemEvent{})
	s.Register(stockitem.EventTypeStockAdjusted, &stockitem.AdjustedEvent{})
	s.Register(stockitem.EventTypeStockAllocated, &stockitem.AllocatedEvent{})
	s.Register(stockitem.EventTypeStockAllocationReleased, &stockitem.AllocationReleasedEvent{})

	s.Register(movement.EventTypeStockMovementInitiated, &movement.InitiatedEvent{})
	s.Register(movement.EventTypeStockMovementCompleted, &movement.CompletedEvent{})
	s.Register(movement.EventTypeStockMovementCancelled, &movement.CancelledEvent{})

	s.Register(restock.EventTypeRestockRequestGenerated, &restock.GeneratedEvent{})
	s.Register(restock.EventTypeRestockRequestSent, &restock.SentEvent{})
	s.Register(restock.EventTypeRestockRequestFulfilled, &restock.FulfilledEvent{})
	s.Register(restock.EventTypeRestockRequestCancelled, &restock.CancelledEvent{})

	s.Register(threshold.EventTypeThresholdConfigured, &threshold.ThresholdConfiguredEvent{})
	s.Register(threshold.EventTypeStockLevelBelowMinimum, &threshold.StockLevelBelowMinimumEvent{})
	s.Register(threshold.EventTypeStockLevelAboveMaximum, &threshold.StockLevelAboveMaximumEvent{})
}
