package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appidentity "github.com/facturator/backend/internal/application/identity"
	appinvoicing "github.com/facturator/backend/internal/application/invoicing"
	"github.com/facturator/backend/internal/domain/invoicing"
	"github.com/facturator/backend/internal/domain/shared"
	"github.com/facturator/backend/internal/infrastructure/auth"
	"github.com/facturator/backend/internal/infrastructure/cache"
	"github.com/facturator/backend/internal/infrastructure/config"
	"github.com/facturator/backend/internal/infrastructure/event"
	statementimport "github.com/facturator/backend/internal/infrastructure/import"
	"github.com/facturator/backend/internal/infrastructure/logger"
	"github.com/facturator/backend/internal/infrastructure/persistence"
	"github.com/facturator/backend/internal/infrastructure/printing"
	"github.com/facturator/backend/internal/infrastructure/storage"
	"github.com/facturator/backend/internal/infrastructure/telemetry"
	"github.com/facturator/backend/internal/interfaces/http/handler"
	"github.com/facturator/backend/internal/interfaces/http/middleware"
	"github.com/facturator/backend/internal/interfaces/http/router"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	_ "github.com/facturator/backend/docs"
)

//	@title			Facturator API
//	@version		1.0
//	@description	Invoicing back office: payers, invoice orders, bank statement import and PDF invoices.

//	@host		localhost:8080
//	@BasePath	/

//	@securityDefinitions.apikey	CookieAuth
//	@in							cookie
//	@name						token
//	@description				Session token set by POST /auth/login

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log := logger.New(cfg.Log)
	defer func() { _ = log.Sync() }()

	ctx := context.Background()

	providers, err := telemetry.Setup(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down telemetry", zap.Error(err))
		}
	}()
	if providers.Logs.IsEnabled() {
		minLevel := cfg.Telemetry.LogsMinLevel
		if minLevel == "" {
			minLevel = cfg.Log.Level
		}
		log = logger.New(cfg.Log, providers.Logs.ZapCore(logger.ParseLevel(minLevel)))
	}

	log.Info("Starting facturator",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Database.LogLevel),
		logger.WithSlowThreshold(cfg.Telemetry.DBSlowQueryThresh),
		logger.WithFullSQL(cfg.Telemetry.DBLogFullSQL),
	)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := telemetry.RegisterOtelGorm(db.DB, telemetry.DBTracingConfig{
		Enabled:    cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL: cfg.Telemetry.DBLogFullSQL,
		DBName:     cfg.Database.DBName,
	}, log); err != nil {
		log.Fatal("Failed to enable database tracing", zap.Error(err))
	}
	if providers.Meter.IsEnabled() {
		if err := db.RegisterPoolMetrics(otel.Meter("github.com/facturator/backend/persistence")); err != nil {
			log.Fatal("Failed to register database pool metrics", zap.Error(err))
		}
	}
	log.Info("Database connected successfully")

	uowFactory := persistence.NewGormUnitOfWorkFactory(db.DB)

	redisClient, err := cache.Connect(ctx, cfg.Redis, cfg.App.Env != "production", log)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }()
	}

	eventBus := event.NewInMemoryEventBus(log)
	event.RegisterInvoicingHandlers(eventBus, log)
	businessMetrics, err := telemetry.NewBusinessMetrics(otel.Meter("github.com/facturator/backend"))
	if err != nil {
		log.Fatal("Failed to create business metrics", zap.Error(err))
	}
	eventBus.Subscribe(businessMetrics, businessMetrics.EventTypes()...)
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() { _ = eventBus.Stop(context.Background()) }()

	matchPolicy, err := invoicing.ParseMatchPolicy(cfg.Invoicing.PayerMatchPolicy)
	if err != nil {
		log.Fatal("Invalid payer match policy", zap.Error(err))
	}
	numberingMode, err := appinvoicing.ParseNumberingMode(cfg.Invoicing.NumberingMode)
	if err != nil {
		log.Fatal("Invalid numbering mode", zap.Error(err))
	}

	var dedup shared.IdempotencyStore
	if cfg.Upload.DedupEnabled {
		dedup = cache.NewIdempotencyStore(redisClient)
	}
	uploader := appinvoicing.NewStatementUploader(statementimport.NewParser(log), dedup, cfg.Upload.DedupTTL, log)
	commandHandlers := appinvoicing.NewCommandHandlers(log,
		appinvoicing.WithMatchPolicy(matchPolicy),
		appinvoicing.WithNumbering(appinvoicing.NewNumberingService(numberingMode)),
		appinvoicing.WithStatementUploader(uploader),
	)
	bus := appinvoicing.NewMessageBus(uowFactory, commandHandlers, eventBus, log)
	queries := appinvoicing.NewQueryService(uowFactory)

	renderer, err := printing.NewRenderer(cfg.Printing, log)
	if err != nil {
		log.Fatal("Failed to create PDF renderer", zap.Error(err))
	}
	defer func() { _ = renderer.Close() }()
	archive, err := storage.NewArchive(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to initialize document storage", zap.Error(err))
	}
	issuer := cfg.Invoicing.Issuer
	invoices := appinvoicing.NewInvoiceService(uowFactory, appinvoicing.Issuer{
		Name:     issuer.Name,
		Address:  issuer.Address,
		ZipCode:  issuer.ZipCode,
		City:     issuer.City,
		Province: issuer.Province,
		NIF:      issuer.NIF,
		Email:    issuer.Email,
		LogoPath: issuer.LogoPath,
	}, printing.NewInvoiceDocument(renderer, cfg.Printing.Timeout, log), archive, log)

	jwtService := auth.NewJWTService(cfg.JWT)
	accounts := appidentity.NewAuthService(
		persistence.NewGormUserRepository(db.DB),
		jwtService,
		auth.NewTokenBlacklist(redisClient),
		eventBus,
		log,
	)

	middleware.SetupValidator()

	healthChecks := map[string]handler.HealthCheck{
		"database": db.PingContext,
	}
	if redisClient != nil {
		healthChecks["redis"] = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}
	}

	engineOpts := router.EngineOptions{
		Config:        cfg,
		Logger:        log,
		Authenticator: accounts,
	}
	if providers.Meter.IsEnabled() {
		engineOpts.Meter = otel.Meter("github.com/facturator/backend/http")
	}
	engine, err := router.NewEngine(engineOpts, router.Handlers{
		Health: handler.NewHealthHandler(healthChecks),
		Auth:   handler.NewAuthHandler(accounts, cfg.Cookie),
		Payers: handler.NewPayerHandler(bus, queries),
		Orders: handler.NewOrderHandler(bus, queries, handler.UploadSettings{
			CodePrefix:     cfg.Invoicing.CodePrefix,
			StartingNumber: cfg.Invoicing.StartingNumber,
			MaxFileSize:    cfg.Upload.MaxFileSize,
		}),
		Invoices: handler.NewInvoiceHandler(invoices),
	})
	if err != nil {
		log.Fatal("Failed to build HTTP router", zap.Error(err))
	}

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

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	log.Info("Server exited gracefully")
}
