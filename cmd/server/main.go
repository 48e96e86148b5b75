package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	bridgeapp "github.com/partnerbridge/backend/internal/application/bridge"
	registryapp "github.com/partnerbridge/backend/internal/application/registry"
	syncapp "github.com/partnerbridge/backend/internal/application/sync"
	domregistry "github.com/partnerbridge/backend/internal/domain/registry"
	"github.com/partnerbridge/backend/internal/infrastructure/cache"
	"github.com/partnerbridge/backend/internal/infrastructure/config"
	"github.com/partnerbridge/backend/internal/infrastructure/erp"
	"github.com/partnerbridge/backend/internal/infrastructure/httpclient"
	"github.com/partnerbridge/backend/internal/infrastructure/logger"
	"github.com/partnerbridge/backend/internal/infrastructure/persistence"
	infraregistry "github.com/partnerbridge/backend/internal/infrastructure/registry"
	"github.com/partnerbridge/backend/internal/infrastructure/telemetry"
	"github.com/partnerbridge/backend/internal/interfaces/http/handler"
	"github.com/partnerbridge/backend/internal/interfaces/http/middleware"
	"github.com/partnerbridge/backend/internal/interfaces/http/router"
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

	log.Info("Starting Partner Bridge",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Tracing
	tracerProvider, err := telemetry.NewTracerProvider(context.Background(), cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracerProvider.Shutdown(ctx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Database connection with GORM logging through zap
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Registry lookup cache: Redis when reachable, in-memory otherwise
	cacheFactory := cache.NewLookupCacheFactory(cfg.Redis, cache.WithLogger(log))
	lookupCache, err := cacheFactory.CreateCache()
	if err != nil {
		log.Fatal("Failed to create lookup cache", zap.Error(err))
	}
	defer func() {
		if err := lookupCache.Close(); err != nil {
			log.Error("Error closing lookup cache", zap.Error(err))
		}
	}()

	// Outbound HTTP clients. The registry and the ERP each get their own
	// client so one upstream's rate budget never starves the other.
	outboundOpts := httpclient.Options{
		RPS:         cfg.Outbound.RPS,
		MaxRetries:  cfg.Outbound.MaxRetries,
		BackoffBase: cfg.Outbound.BackoffBase,
		BackoffCap:  cfg.Outbound.BackoffCap,
		Timeout:     cfg.Outbound.Timeout,
	}
	registryHTTP := httpclient.New(outboundOpts, httpclient.WithLogger(log))
	erpHTTP := httpclient.New(outboundOpts, httpclient.WithLogger(log))

	// National registry client with cached lookups
	var registryClient domregistry.Client = infraregistry.NewDecolectaClient(
		cfg.Registry.BaseURL, cfg.Registry.Token, registryHTTP, log,
	)
	if cfg.Registry.CacheTTL > 0 {
		registryClient = infraregistry.NewCachedClient(registryClient, lookupCache, cfg.Registry.CacheTTL, log)
	}

	// ERP JSON-RPC client, bulk bridge and geography resolver
	erpClient := erp.NewClient(cfg.ERP.JSONRPCEndpoint(), cfg.ERP.DB, cfg.ERP.Username, cfg.ERP.Password, erpHTTP, log)
	erpBridge := erp.NewBridge(erpClient, log)
	geoResolver := erp.NewGeoResolver(erpClient, log)

	// Repositories and application services
	partnerRepo := persistence.NewGormPartnerRepository(db.DB)
	partnerService := syncapp.NewPartnerService(partnerRepo, log)
	bridgeService := bridgeapp.NewService(partnerRepo, erpBridge, log)
	autocompleteService := registryapp.NewAutocompleteService(registryClient, geoResolver, erpClient, log)

	// HTTP handlers
	partnerHandler := handler.NewPartnerHandler(partnerService)
	rpcHandler := handler.NewRPCHandler(partnerService)
	bridgeHandler := handler.NewBridgeHandler(bridgeService)
	registryHandler := handler.NewRegistryHandler(autocompleteService)
	systemHandler := handler.NewSystemHandler(db)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware order: request ID, panic recovery, request logging,
	// tracing, CORS, then bearer auth for everything but the health probe.
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	if cfg.Telemetry.Enabled {
		engine.Use(otelgin.Middleware(cfg.Telemetry.ServiceName))
	}
	engine.Use(middleware.CORSWithConfig(middleware.DefaultCORSConfig()))

	// Health check endpoint (outside API versioning, unauthenticated)
	engine.GET("/health", systemHandler.Health)

	auth := middleware.BearerAuth(middleware.BearerAuthConfig{Token: cfg.Auth.APIToken})

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	partnerRoutes := router.NewDomainGroup("partners", "/partners")
	partnerRoutes.Use(auth)
	partnerRoutes.POST("", partnerHandler.Upsert)
	partnerRoutes.GET("", partnerHandler.List)
	partnerRoutes.GET("/:external_id", partnerHandler.Get)
	partnerRoutes.PUT("/:external_id", partnerHandler.Update)
	partnerRoutes.DELETE("/:external_id", partnerHandler.Delete)
	r.Register(partnerRoutes)

	rpcRoutes := router.NewDomainGroup("rpc", "/rpc")
	rpcRoutes.Use(auth)
	rpcRoutes.POST("", rpcHandler.Handle)
	r.Register(rpcRoutes)

	syncRoutes := router.NewDomainGroup("sync", "/sync")
	syncRoutes.Use(auth)
	syncRoutes.POST("/erp", bridgeHandler.SyncAll)
	r.Register(syncRoutes)

	registryRoutes := router.NewDomainGroup("registry", "/registry")
	registryRoutes.Use(auth)
	registryRoutes.GET("/ruc/:number", registryHandler.LookupRUC)
	registryRoutes.GET("/dni/:number", registryHandler.LookupDNI)
	registryRoutes.POST("/apply", registryHandler.Apply)
	r.Register(registryRoutes)

	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.Use(auth)
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	r.Register(systemRoutes)

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
