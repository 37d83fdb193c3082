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

	"github.com/possync/backend/internal/application/activity"
	"github.com/possync/backend/internal/application/mutation"
	syncapp "github.com/possync/backend/internal/application/sync"
	"github.com/possync/backend/internal/domain/document"
	"github.com/possync/backend/internal/domain/exchange"
	"github.com/possync/backend/internal/infrastructure/auth"
	"github.com/possync/backend/internal/infrastructure/cache"
	"github.com/possync/backend/internal/infrastructure/config"
	"github.com/possync/backend/internal/infrastructure/logger"
	"github.com/possync/backend/internal/infrastructure/persistence"
	"github.com/possync/backend/internal/infrastructure/rates"
	"github.com/possync/backend/internal/infrastructure/scheduler"
	"github.com/possync/backend/internal/infrastructure/telemetry"
	"github.com/possync/backend/internal/interfaces/http/handler"
	"github.com/possync/backend/internal/interfaces/http/middleware"
	"github.com/possync/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting POS sync backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Tracing
	tracer, err := telemetry.NewTracerProvider(context.Background(), cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		if err := tracer.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer", zap.Error(err))
		}
	}()

	// Database
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, log, gormLogLevel)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	caps := persistence.ProbeCapabilities(db.DB)
	log.Info("Schema capabilities probed", zap.String("schema_version", caps.SchemaVersion))

	// Replay guard: Redis when configured, in-process otherwise.
	var guard mutation.ReplayGuard
	if cfg.Redis.Enabled {
		redisGuard, err := cache.NewRedisReplayGuard(&cfg.Redis)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			if err := redisGuard.Close(); err != nil {
				log.Error("Error closing Redis", zap.Error(err))
			}
		}()
		guard = redisGuard
		log.Info("Replay guard backed by Redis", zap.String("addr", cfg.Redis.Addr()))
	} else {
		guard = cache.NewInMemoryReplayGuard()
		log.Info("Replay guard in-process; run a single instance or enable Redis")
	}

	// Settings
	settingsStore := persistence.NewGormSettingsStore(db.DB)
	settings, err := config.NewSettingsProvider(context.Background(), settingsStore)
	if err != nil {
		log.Fatal("Failed to load settings", zap.Error(err))
	}

	// Idempotency and mutation services
	idempotencyStore := persistence.NewGormIdempotencyStore(db.DB)
	executor := mutation.NewExecutor(idempotencyStore, guard, log)

	docs := persistence.NewGormDocumentStore(db.DB)
	perms := auth.NewRolePermissionChecker(nil)
	// External rate provider is optional; without it the resolver relies
	// on the stored quote table alone.
	var rateSource exchange.RateSource
	if cfg.Exchange.ProviderURL != "" {
		rateSource = rates.NewHTTPSource(cfg.Exchange.ProviderURL, cfg.Exchange.Timeout)
	}
	resolver := exchange.NewResolver(rateSource, persistence.NewGormQuoteRepository(db.DB))

	invoiceService := mutation.NewInvoiceService(executor, docs, perms, resolver, cfg.Sync.BaseCurrency)
	paymentService := mutation.NewPaymentService(executor, docs, perms, resolver)
	sessionService := mutation.NewSessionService(executor, docs, perms)
	customerService := mutation.NewCustomerService(executor, docs, perms)
	settingsService := mutation.NewSettingsService(executor, settings, perms)

	// Sync planner. Deploy-time config seeds the windows; operator settings
	// saved in the database override them.
	opts := syncapp.Options{
		OpenInvoiceWindowDays: cfg.Sync.OpenInvoiceWindowDays,
		PaidInvoiceWindowDays: cfg.Sync.PaidInvoiceWindowDays,
		PaymentWindowDays:     cfg.Sync.PaymentWindowDays,
		AlertLimit:            cfg.Sync.AlertLimit,
		DefaultPageLimit:      cfg.Sync.DefaultPageLimit,
		MaxPageLimit:          cfg.Sync.MaxPageLimit,
	}
	if snapshot, _ := settings.Get(); snapshot.OpenInvoiceWindowDays > 0 {
		opts.OpenInvoiceWindowDays = snapshot.OpenInvoiceWindowDays
		opts.PaidInvoiceWindowDays = snapshot.PaidInvoiceWindowDays
		opts.AlertLimit = snapshot.AlertLimit
	}

	customerReader := persistence.NewGormCustomerReader(db.DB)
	planner := syncapp.NewPlanner(
		opts,
		persistence.NewGormInventoryReader(db.DB),
		customerReader,
		persistence.NewGormSupplierReader(db.DB),
		persistence.NewGormInvoiceReader(db.DB),
		persistence.NewGormPaymentReader(db.DB),
		persistence.NewGormProfileReader(db.DB),
		persistence.NewGormSessionReader(db.DB),
		persistence.NewGormReferenceReader(db.DB),
		persistence.NewGormStubReader(db.DB),
		persistence.NewGormAlertRuleReader(db.DB),
		resolver,
		perms,
		caps,
		log,
	)

	// Activity feed, disabled when the schema lacks the table.
	var activityLog activity.Log
	if caps.Supports(document.FeatureActivityLog) {
		activityLog = persistence.NewGormActivityLog(db.DB)
	}
	recorder := activity.NewRecorder(activityLog, log)
	feed := activity.NewFeed(activityLog, cfg.Activity.BatchSize, cfg.Activity.MaxScan)

	// Idempotency sweeper
	sweeper := scheduler.NewSweeper(scheduler.SweeperConfig{
		Enabled:  cfg.Idempotency.SweepEnabled,
		Interval: cfg.Idempotency.SweepInterval,
	}, idempotencyStore, log)
	if err := sweeper.Start(context.Background()); err != nil {
		log.Fatal("Failed to start idempotency sweeper", zap.Error(err))
	}
	defer func() {
		if err := sweeper.Stop(context.Background()); err != nil {
			log.Error("Error stopping sweeper", zap.Error(err))
		}
	}()

	jwtService := auth.NewJWTService(cfg.JWT)

	// HTTP surface
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

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-Trace-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))
	engine.Use(middleware.Tracing(cfg.Telemetry.ServiceName, tracer.IsEnabled()))
	engine.Use(middleware.TraceIDHeader())

	r := router.NewRouter(engine,
		router.WithAPIVersion("v1"),
		router.WithAuth(middleware.JWTAuth(jwtService)),
	)
	r.RegisterPublic(handler.NewSystemHandler(db, caps, log))
	r.Register(handler.NewSyncHandler(planner, log)).
		Register(handler.NewInvoiceHandler(invoiceService, recorder, log)).
		Register(handler.NewPaymentHandler(paymentService, recorder, log)).
		Register(handler.NewSessionHandler(sessionService, recorder, log)).
		Register(handler.NewCustomerHandler(customerService, customerReader, perms, recorder, log)).
		Register(handler.NewActivityHandler(feed, perms, caps, log)).
		Register(handler.NewSettingsHandler(settingsService, settings, perms, log))
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
