package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	appdocument "github.com/primeapparel/backend/internal/application/document"
	appsettings "github.com/primeapparel/backend/internal/application/settings"
	"github.com/primeapparel/backend/internal/domain/shared"
	"github.com/primeapparel/backend/internal/infrastructure/auth"
	"github.com/primeapparel/backend/internal/infrastructure/cache"
	"github.com/primeapparel/backend/internal/infrastructure/config"
	"github.com/primeapparel/backend/internal/infrastructure/logger"
	"github.com/primeapparel/backend/internal/infrastructure/persistence"
	"github.com/primeapparel/backend/internal/infrastructure/rendering"
	"github.com/primeapparel/backend/internal/infrastructure/storage"
	"github.com/primeapparel/backend/internal/infrastructure/telemetry"
	"github.com/primeapparel/backend/internal/interfaces/http/handler"
	"github.com/primeapparel/backend/internal/interfaces/http/middleware"
	"github.com/primeapparel/backend/internal/interfaces/http/router"
	"go.uber.org/zap"

	_ "github.com/primeapparel/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

//	@title			PAE Backend API
//	@version		1.0
//	@description	Order document service for Prime Apparel Exports - proforma invoices, commercial invoices, packing lists and shipment tracking.

//	@contact.name	API Support
//	@contact.email	dev@primeapparel.in

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

// generationRateLimit caps how many renders a single user may trigger,
// since every render ties up a headless Chrome tab.
const (
	generationRateLimit  = 10
	generationRateWindow = time.Minute
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&cfg.Log)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Telemetry providers. Each one degrades to a no-op when disabled, so
	// the wiring below does not branch on cfg.Telemetry.Enabled.
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.Endpoint,
		SamplingRatio:     cfg.Telemetry.SampleRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          true,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer shutdownWithTimeout(tracerProvider.Shutdown, log, "tracer provider")

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.ExportMetric,
		CollectorEndpoint: cfg.Telemetry.Endpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          true,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer shutdownWithTimeout(meterProvider.Shutdown, log, "meter provider")

	loggerProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.Enabled && cfg.Telemetry.ExportLogs,
		CollectorEndpoint: cfg.Telemetry.Endpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          true,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize logger provider", zap.Error(err))
	}
	defer shutdownWithTimeout(loggerProvider.Shutdown, log, "logger provider")

	if loggerProvider.IsEnabled() {
		bridged, err := telemetry.CreateBridgedLoggerFromConfig(&telemetry.BaseLoggerConfig{
			Level:      cfg.Log.Level,
			Format:     cfg.Log.Format,
			Output:     cfg.Log.Output,
			TimeFormat: "2006-01-02T15:04:05.000Z07:00",
		}, loggerProvider, cfg.Telemetry.ServiceName)
		if err != nil {
			log.Warn("Failed to bridge logger to OTEL, keeping local logger", zap.Error(err))
		} else {
			log = bridged
		}
	}

	log.Info("Starting PAE Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabase(&cfg.Database, persistence.WithGormLogger(gormLog))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if cfg.Telemetry.Enabled {
		if err := db.EnableTracing(); err != nil {
			log.Warn("Failed to enable database tracing", zap.Error(err))
		}
	}
	log.Info("Database connected successfully")

	// Repositories
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	documentRepo := persistence.NewGormDocumentRepository(db.DB)
	settingsRepo := persistence.NewGormSettingsRepository(db.DB)
	numberAllocator := persistence.NewGormNumberAllocator(db.DB)

	// Idempotency store. The redis driver falls back to the in-memory
	// store when the connection cannot be established at startup.
	var idempotencyStore shared.IdempotencyStore
	storeFactory := cache.NewIdempotencyStoreFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(true),
	)
	switch cfg.Cache.Driver {
	case "redis":
		idempotencyStore, err = storeFactory.CreateStore()
		if err != nil {
			log.Fatal("Failed to create idempotency store", zap.Error(err))
		}
	default:
		idempotencyStore = storeFactory.CreateInMemoryStore()
	}
	defer func() {
		if err := idempotencyStore.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()

	// File storage
	var fileStorage storage.FileStorage
	switch cfg.Storage.Driver {
	case "s3":
		s3Storage, err := storage.NewS3Storage(&cfg.Storage,
			storage.WithLogger(log),
			storage.WithPresignExpiration(cfg.Storage.PresignExpiration),
		)
		if err != nil {
			log.Fatal("Failed to initialize S3 storage", zap.Error(err))
		}
		if err := s3Storage.EnsureBucket(ctx); err != nil {
			log.Fatal("Failed to ensure S3 bucket", zap.Error(err))
		}
		fileStorage = s3Storage
	default:
		fsStorage, err := storage.NewFileSystemStorage(&storage.FileSystemStorageConfig{
			BasePath: cfg.Storage.BasePath,
			BaseURL:  cfg.Storage.BaseURL,
			Logger:   log,
		})
		if err != nil {
			log.Fatal("Failed to initialize filesystem storage", zap.Error(err))
		}
		fileStorage = fsStorage
	}
	log.Info("File storage initialized", zap.String("driver", cfg.Storage.Driver))

	// PDF rendering
	pdfRenderer, err := rendering.NewChromedpRenderer(&rendering.ChromedpConfig{
		DefaultTimeout: cfg.PDF.Timeout,
		RemoteURL:      cfg.PDF.RemoteChromeURL,
		NoSandbox:      cfg.PDF.NoSandbox,
		Logger:         log,
	})
	if err != nil {
		log.Fatal("Failed to initialize PDF renderer", zap.Error(err))
	}
	defer func() {
		if err := pdfRenderer.Close(); err != nil {
			log.Error("Error closing PDF renderer", zap.Error(err))
		}
	}()

	templateEngine, err := rendering.NewTemplateEngine()
	if err != nil {
		log.Fatal("Failed to load document templates", zap.Error(err))
	}
	tradeRenderer := rendering.NewTradeDocumentRenderer(templateEngine)

	// Document metrics, fed by periodic status counts from the repository
	var documentMetrics *telemetry.DocumentMetrics
	if meterProvider.IsEnabled() {
		documentMetrics, err = telemetry.NewDocumentMetrics(telemetry.DocumentMetricsConfig{
			Provider:      meterProvider,
			Logger:        log,
			CountProvider: documentRepo,
		})
		if err != nil {
			log.Warn("Failed to initialize document metrics", zap.Error(err))
		} else {
			documentMetrics.StartPeriodicCollection(ctx, 5*time.Minute)
			defer documentMetrics.Stop()
		}
	}

	// Application services
	settingsService := appsettings.NewSettingsService(settingsRepo, log)
	documentService := appdocument.NewDocumentService(appdocument.DocumentServiceConfig{
		DocumentRepo:   documentRepo,
		OrderRepo:      orderRepo,
		Allocator:      numberAllocator,
		Company:        settingsService,
		Trade:          tradeRenderer,
		PDF:            pdfRenderer,
		Files:          fileStorage,
		Idempotency:    idempotencyStore,
		IdempotencyTTL: cfg.Cache.IdempotencyTTL,
		Metrics:        documentMetrics,
		DownloadExpiry: cfg.Storage.PresignExpiration,
		Logger:         log,
	})

	jwtService := auth.NewJWTService(cfg.JWT)

	// HTTP handlers
	documentHandler := handler.NewDocumentHandler(documentService)
	settingsHandler := handler.NewSettingsHandler(settingsService)
	systemHandler := handler.NewSystemHandler(db.DB)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORS())
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodyBytes))
	if cfg.Telemetry.Enabled {
		engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
		}))
		engine.Use(middleware.SpanErrorMarker())
	}
	engine.Use(middleware.HTTPMetricsWithMeter(
		meterProvider.Meter("http.server"), meterProvider.IsEnabled()))

	// Probes and docs sit outside the authenticated API
	engine.GET("/health", systemHandler.Health)
	engine.GET("/ready", systemHandler.Ready)
	engine.GET("/swagger/*any",
		middleware.SwaggerProtection(middleware.SwaggerConfig{Enabled: cfg.Swagger.Enabled}),
		ginSwagger.WrapHandler(swaggerFiles.Handler),
	)

	engine.Use(middleware.JWTAuthMiddlewareWithConfig(middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/health",
			"/ready",
			"/api/v1/system/info",
		},
		SkipPathPrefixes: []string{
			"/swagger",
			"/files",
		},
		Logger: log,
	}))
	if cfg.Telemetry.Enabled {
		engine.Use(middleware.TracingAttributeInjector())
	}

	// API routes
	generationLimiter := middleware.NewRateLimiter(generationRateLimit, generationRateWindow)

	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)

	documentRoutes := handler.DocumentRoutes(documentHandler, handler.DocumentRouteConfig{
		GenerationLimiter: middleware.RateLimit(generationLimiter),
	})

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(documentRoutes).
		Register(handler.DocumentQueryRoutes(documentHandler)).
		Register(handler.SettingsRoutes(settingsHandler)).
		Register(systemRoutes)
	r.Setup()

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

func shutdownWithTimeout(fn func(context.Context) error, log *zap.Logger, name string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := fn(ctx); err != nil {
		log.Error("Error shutting down "+name, zap.Error(err))
	}
}
