package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	catalogapp "github.com/vclothes/backend/internal/application/catalog"
	engagementapp "github.com/vclothes/backend/internal/application/engagement"
	identityapp "github.com/vclothes/backend/internal/application/identity"
	inventoryapp "github.com/vclothes/backend/internal/application/inventory"
	orderapp "github.com/vclothes/backend/internal/application/order"
	paymentapp "github.com/vclothes/backend/internal/application/payment"
	storeapp "github.com/vclothes/backend/internal/application/store"
	supplyapp "github.com/vclothes/backend/internal/application/supply"
	"github.com/vclothes/backend/internal/infrastructure/auth"
	"github.com/vclothes/backend/internal/infrastructure/config"
	"github.com/vclothes/backend/internal/infrastructure/event"
	"github.com/vclothes/backend/internal/infrastructure/logger"
	infrapayment "github.com/vclothes/backend/internal/infrastructure/payment"
	"github.com/vclothes/backend/internal/infrastructure/persistence"
	"github.com/vclothes/backend/internal/infrastructure/storage"
	"github.com/vclothes/backend/internal/infrastructure/telemetry"
	"github.com/vclothes/backend/internal/interfaces/http/handler"
	"github.com/vclothes/backend/internal/interfaces/http/middleware"
	"github.com/vclothes/backend/internal/interfaces/http/router"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

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
		_ = log.Sync()
	}()

	log.Info("Starting shop backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	ctx := context.Background()

	// Telemetry providers. Disabled configs yield no-op providers so the
	// rest of the wiring is unconditional.
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer shutdownWithTimeout(tracerProvider.Shutdown, log, "tracer provider")

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer shutdownWithTimeout(meterProvider.Shutdown, log, "meter provider")

	loggerProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	defer shutdownWithTimeout(loggerProvider.Shutdown, log, "logger provider")

	if loggerProvider.IsEnabled() {
		otelCore := telemetry.NewZapOTELCore(telemetry.ZapBridgeConfig{
			ServiceName:    cfg.Telemetry.ServiceName,
			LoggerProvider: loggerProvider,
			Level:          zap.InfoLevel,
		})
		log = telemetry.NewBridgedLogger(log.Core(), otelCore)
	}

	// Database with the zap-backed GORM logger
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabase(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Database tracing and metrics plugins
	if cfg.Telemetry.DBTraceEnabled {
		dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
			Enabled:         true,
			LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
			SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
			DBSystem:        "postgresql",
		}, log)
		if err := dbTracing.RegisterOtelGorm(db.DB); err != nil {
			log.Warn("Failed to register database tracing", zap.Error(err))
		}
	}
	if meterProvider.IsEnabled() {
		dbMetrics, err := telemetry.NewDBMetrics(meterProvider.Meter("db"), telemetry.DefaultDBMetricsConfig(), log)
		if err != nil {
			log.Warn("Failed to create database metrics", zap.Error(err))
		} else if err := db.DB.Use(telemetry.NewDBMetricsPlugin(dbMetrics, log)); err != nil {
			log.Warn("Failed to register database metrics plugin", zap.Error(err))
		} else {
			if sqlDB, err := db.DB.DB(); err == nil {
				dbMetrics.SetSQLDB(sqlDB)
				dbMetrics.StartPoolStatsCollection(ctx)
				defer dbMetrics.Stop()
			}
		}
	}

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	brandRepo := persistence.NewGormBrandRepository(db.DB)
	storeRepo := persistence.NewGormStoreRepository(db.DB)
	supplyRepo := persistence.NewGormSupplyRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	wishlistRepo := persistence.NewGormWishlistRepository(db.DB)
	notificationRepo := persistence.NewGormNotificationRepository(db.DB)

	// Multi-item supply receipts and order placements run in one database
	// transaction when atomic mutations are enabled. The fallback persists
	// per item with no all-or-nothing guarantee.
	var scope inventoryapp.TransactionScope
	if cfg.Inventory.AtomicMutations {
		scope = persistence.NewGormTransactionScope(db.DB)
	} else {
		log.Warn("Atomic multi-item mutations are disabled; partial failures will not roll back")
		scope = inventoryapp.NewNoOpTransactionScope(productRepo, supplyRepo, orderRepo)
	}

	// Token blacklist: Redis when configured, otherwise a process-local one
	var blacklist auth.TokenBlacklist
	if cfg.Redis.Host != "" {
		redisBlacklist, err := auth.NewRedisTokenBlacklist(auth.RedisTokenBlacklistConfig{
			Host:     cfg.Redis.Host,
			Port:     cfg.Redis.Port,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		blacklist = redisBlacklist
	} else {
		log.Warn("Redis not configured; using in-memory token blacklist")
		blacklist = auth.NewInMemoryTokenBlacklist()
	}

	// Object storage for product images
	var objectStorage catalogapp.ObjectStorageService
	if cfg.Storage.Enabled {
		s3Storage, err := storage.NewS3ObjectStorage(&cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		if err := s3Storage.EnsureBucket(ctx); err != nil {
			log.Fatal("Failed to ensure storage bucket", zap.Error(err))
		}
		objectStorage = s3Storage
	} else {
		log.Warn("Object storage disabled; image uploads will be rejected")
		objectStorage = storage.NewStubObjectStorage()
	}

	// Payment gateway
	var gateway infrapayment.Gateway
	if cfg.Payment.Enabled {
		stripeGateway, err := infrapayment.NewStripeGateway(&cfg.Payment, log)
		if err != nil {
			log.Fatal("Failed to initialize payment gateway", zap.Error(err))
		}
		gateway = stripeGateway
	} else {
		log.Warn("Payments disabled; checkout endpoints will be rejected")
		gateway = infrapayment.NewDisabledGateway()
	}

	// In-process event bus: order lifecycle events fan out to notification
	// handlers after their transactions commit
	eventBus := event.NewInMemoryEventBus(log)
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer shutdownWithTimeout(eventBus.Stop, log, "event bus")

	// Application services
	retryAttempts := cfg.Inventory.SaveRetryAttempts
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, log)
	userService := identityapp.NewUserService(userRepo, log)
	productService := catalogapp.NewProductService(productRepo, categoryRepo, brandRepo, retryAttempts, log)
	categoryService := catalogapp.NewCategoryService(categoryRepo, log)
	brandService := catalogapp.NewBrandService(brandRepo, log)
	uploadService := catalogapp.NewUploadService(productRepo, objectStorage, log)
	storeService := storeapp.NewStoreService(storeRepo, log)
	supplyService := supplyapp.NewSupplyService(scope, supplyRepo, storeRepo, retryAttempts, log)
	orderService := orderapp.NewOrderService(scope, orderRepo, eventBus, retryAttempts, log)
	paymentService := paymentapp.NewPaymentService(gateway, orderRepo, orderService, log)
	wishlistService := engagementapp.NewWishlistService(wishlistRepo, productRepo, log)
	notificationService := engagementapp.NewNotificationService(notificationRepo, log)
	eventBus.Subscribe(engagementapp.NewOrderNotificationHandler(notificationService, log))

	// Stock-level gauges sampled in the background
	var businessMetrics *telemetry.BusinessMetrics
	if meterProvider.IsEnabled() {
		businessMetrics, err = telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
			Meter:         meterProvider.Meter("business"),
			Logger:        log,
			StockProvider: telemetry.NewGormStockMetricsProvider(db.DB),
		})
		if err != nil {
			log.Warn("Failed to create business metrics", zap.Error(err))
		} else {
			businessMetrics.StartPeriodicCollection(ctx, time.Minute)
			defer businessMetrics.Stop()
		}
	}

	// HTTP layer
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	router.Setup(engine, router.Dependencies{
		Config:         cfg,
		Logger:         log,
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		MeterProvider:  meterProvider,
	}, router.Handlers{
		System:       handler.NewSystemHandler(db, version),
		Auth:         handler.NewAuthHandler(authService),
		User:         handler.NewUserHandler(userService),
		Product:      handler.NewProductHandler(productService),
		Category:     handler.NewCategoryHandler(categoryService),
		Brand:        handler.NewBrandHandler(brandService),
		Store:        handler.NewStoreHandler(storeService),
		Supply:       handler.NewSupplyHandler(supplyService),
		Order:        handler.NewOrderHandler(orderService),
		Payment:      handler.NewPaymentHandler(paymentService),
		Wishlist:     handler.NewWishlistHandler(wishlistService),
		Notification: handler.NewNotificationHandler(notificationService),
		Upload:       handler.NewUploadHandler(uploadService),
	})

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

// shutdownWithTimeout flushes a telemetry provider with a bounded wait
func shutdownWithTimeout(shutdown func(context.Context) error, log *zap.Logger, name string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := shutdown(ctx); err != nil {
		log.Error("Error shutting down "+name, zap.Error(err))
	}
}
