package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	addressapp "github.com/storefront/backend/internal/application/address"
	cartapp "github.com/storefront/backend/internal/application/cart"
	orderapp "github.com/storefront/backend/internal/application/order"
	paymentapp "github.com/storefront/backend/internal/application/payment"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/cache"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/event"
	"github.com/storefront/backend/internal/infrastructure/logger"
	infrapayment "github.com/storefront/backend/internal/infrastructure/payment"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/internal/infrastructure/scheduler"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/storefront/backend/internal/interfaces/http/router"

	_ "github.com/storefront/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const appVersion = "1.0.0"

//	@title			Storefront API
//	@version		1.0
//	@description	Cart, address book, checkout and payment reconciliation for the storefront.

//	@contact.name	Storefront Backend Team

//	@host		localhost:8080
//	@BasePath	/api

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := &logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	}

	// Telemetry reports its own startup through a logger without the OTLP core
	bootLog, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	rootCtx, stopRoot := context.WithCancel(context.Background())
	defer stopRoot()

	providers, err := telemetry.Setup(rootCtx, cfg.Telemetry, cfg.Profiling, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize telemetry", zap.Error(err))
	}

	log, err := logger.New(logCfg, providers.LogCore(logger.ParseLevel(cfg.Log.Level)))
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting storefront backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("payment_provider", cfg.Payment.Provider),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh),
	)
	db, err := persistence.NewDatabase(&cfg.Database, persistence.WithGormLogger(gormLog))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := providers.InstrumentDB(db.DB); err != nil {
		log.Warn("Database tracing disabled", zap.Error(err))
	}
	log.Info("Database connected successfully")

	idempotency, err := cache.NewIdempotencyStoreFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(cfg.App.Env != "production"),
	).CreateStore()
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}
	defer closeIfCloser(idempotency, log)

	gateway, err := infrapayment.NewGateway(infrapayment.GatewayOptions{
		Provider:  cfg.Payment.Provider,
		KeyID:     cfg.Payment.KeyID,
		KeySecret: cfg.Payment.KeySecret,
		BaseURL:   cfg.Payment.BaseURL,
		Timeout:   cfg.Payment.Timeout,
	})
	if err != nil {
		log.Fatal("Failed to create payment gateway", zap.Error(err))
	}

	// Repositories and transaction scope
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Application services
	cartService := cartapp.NewCartService(persistence.NewGormCartRepository(db.DB), txScope.Cart(), log)
	addressService := addressapp.NewAddressService(persistence.NewGormAddressRepository(db.DB), txScope.Address(), log)
	orderService := orderapp.NewOrderService(orderRepo, txScope.Checkout(), nil, orderapp.Config{
		DeliveryLeadTime:  cfg.Order.DeliveryLeadTime,
		TotalEpsilon:      orderapp.DefaultConfig().TotalEpsilon,
		MaxNumberAttempts: cfg.Order.MaxNumberAttempts,
	}, log)
	paymentService := paymentapp.NewPaymentService(orderRepo, txScope.Payment(), gateway, idempotency, paymentapp.Config{
		Currency:       cfg.Payment.Currency,
		IdempotencyTTL: cfg.Payment.IdempotencyTTL,
		ExpiryBatch:    cfg.Scheduler.BatchSize,
	}, log)

	checkoutMetrics, err := telemetry.NewCheckoutMetrics(telemetry.CheckoutMetricsConfig{
		Meter:          providers.Meter.Meter("storefront.checkout"),
		Logger:         log,
		StatusProvider: orderRepo,
	})
	if err != nil {
		log.Warn("Checkout metrics disabled", zap.Error(err))
	} else {
		orderService.SetCheckoutMetrics(checkoutMetrics)
		paymentService.SetCheckoutMetrics(checkoutMetrics)
		if providers.Meter.IsEnabled() {
			checkoutMetrics.StartPeriodicCollection(rootCtx, cfg.Telemetry.MetricsInterval)
		}
		defer checkoutMetrics.Stop()
	}

	// Event bus: committed order and payment events fan out to observers
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(event.NewCheckoutMetricsHandler(checkoutMetrics))
	eventBus.Subscribe(event.NewOrderActivityLogger(log))
	if err := eventBus.Start(rootCtx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	orderService.SetEventPublisher(eventBus)
	paymentService.SetEventPublisher(eventBus)

	var expiry *scheduler.PaymentExpiryScheduler
	if cfg.Scheduler.Enabled {
		expiry, err = scheduler.NewPaymentExpiryScheduler(scheduler.PaymentExpiryConfig{
			Interval:   cfg.Scheduler.SweepInterval,
			IntentTTL:  cfg.Payment.IntentTTL,
			JobTimeout: cfg.Scheduler.JobTimeout,
		}, paymentService, log)
		if err != nil {
			log.Fatal("Failed to create payment expiry scheduler", zap.Error(err))
		}
		if err := expiry.Start(rootCtx); err != nil {
			log.Fatal("Failed to start payment expiry scheduler", zap.Error(err))
		}
	}

	// HTTP layer
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := middleware.SetupValidator(); err != nil {
		log.Fatal("Failed to register validators", zap.Error(err))
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Invalid trusted proxies", zap.Error(err))
	}

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsCfg.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsCfg.AllowHeaders = cfg.HTTP.CORSAllowHeaders

	tracingCfg := middleware.DefaultTracingConfig()
	tracingCfg.ServiceName = cfg.Telemetry.ServiceName
	tracingCfg.Enabled = providers.Tracer.IsEnabled()

	profilingCfg := middleware.DefaultProfilingConfig()
	profilingCfg.Enabled = providers.Profiler.IsEnabled()

	engine.Use(
		middleware.RequestID(),
		logger.Recovery(log),
		middleware.TracingWithConfig(tracingCfg),
		middleware.SpanErrorMarker(),
		logger.GinMiddleware(log),
		middleware.Secure(),
		middleware.CORSWithConfig(corsCfg),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
		middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
			MeterProvider: providers.Meter,
			Enabled:       cfg.Telemetry.MetricsEnabled,
			Logger:        log,
		}),
		middleware.ProfilingWithConfig(profilingCfg),
	)

	jwtService := auth.NewJWTService(cfg.JWT)
	jwtCfg := middleware.DefaultJWTConfig(jwtService)
	jwtCfg.Logger = log
	jwtAuth := middleware.JWTAuthMiddlewareWithConfig(jwtCfg)

	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(cfg.Swagger, middleware.JWTAuthMiddleware(jwtService)),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)

	apiMiddleware := []gin.HandlerFunc{jwtAuth, middleware.TracingAttributeInjector()}
	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		defer limiter.Stop()
		apiMiddleware = append(apiMiddleware, middleware.RateLimit(limiter))
	}

	systemHandler := handler.NewSystemHandler("Storefront API", appVersion)
	systemHandler.AddCheck("database", db.Ping)
	if pinger, ok := idempotency.(interface{ Ping(context.Context) error }); ok {
		systemHandler.AddCheck("redis", pinger.Ping)
	}

	r := router.NewRouter(engine, router.WithMiddleware(apiMiddleware...))
	for _, registrar := range router.StorefrontRoutes(router.StorefrontHandlers{
		System:     systemHandler,
		Cart:       handler.NewCartHandler(cartService),
		Address:    handler.NewAddressHandler(addressService),
		Order:      handler.NewOrderHandler(orderService),
		AdminOrder: handler.NewAdminOrderHandler(orderService, paymentService),
		Payment:    handler.NewPaymentHandler(paymentService),
	}, middleware.RequireAdmin()) {
		r.Register(registrar)
	}
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
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
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
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if expiry != nil {
		if err := expiry.Stop(ctx); err != nil {
			log.Error("Payment expiry scheduler did not stop cleanly", zap.Error(err))
		}
	}
	if err := eventBus.Stop(ctx); err != nil {
		log.Error("Event bus did not stop cleanly", zap.Error(err))
	}
	stopRoot()
	if err := providers.Shutdown(ctx); err != nil {
		log.Error("Telemetry shutdown failed", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// closeIfCloser releases stores that hold connections or janitor goroutines
func closeIfCloser(store shared.IdempotencyStore, log *zap.Logger) {
	closer, ok := store.(interface{ Close() error })
	if !ok {
		return
	}
	if err := closer.Close(); err != nil {
		log.Error("Error closing idempotency store", zap.Error(err))
	}
}
