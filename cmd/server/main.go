package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	branchapp "github.com/cashdesk/backend/internal/application/branch"
	cashflowapp "github.com/cashdesk/backend/internal/application/cashflow"
	identityapp "github.com/cashdesk/backend/internal/application/identity"
	organizationapp "github.com/cashdesk/backend/internal/application/organization"
	"github.com/cashdesk/backend/internal/infrastructure/auth"
	"github.com/cashdesk/backend/internal/infrastructure/config"
	"github.com/cashdesk/backend/internal/infrastructure/logger"
	"github.com/cashdesk/backend/internal/infrastructure/persistence"
	"github.com/cashdesk/backend/internal/infrastructure/telemetry"
	"github.com/cashdesk/backend/internal/interfaces/http/handler"
	"github.com/cashdesk/backend/internal/interfaces/http/middleware"
	"github.com/cashdesk/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	_ "github.com/cashdesk/backend/docs"
)

//	@title			Cash Desk API
//	@version		1.0
//	@description	Multi-tenant cash movement back office

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		Output:      cfg.Log.Output,
		TimeFormat:  "2006-01-02T15:04:05.000Z07:00",
		Service:     cfg.App.Name,
		Environment: cfg.App.Env,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting cash desk backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx := context.Background()

	// Telemetry
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
	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := meterProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Database with zap-backed GORM logger
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Database.LogLevel))
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

	if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
		Enabled:    cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		LogFullSQL: cfg.Telemetry.DBLogFullSQL,
	}, log); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	// Session revocation store
	var sessions auth.SessionBlacklist
	if cfg.Redis.Enabled {
		client, err := auth.NewRedisClient(ctx, cfg.Redis.Addr(), cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			if err := client.Close(); err != nil {
				log.Error("Error closing Redis client", zap.Error(err))
			}
		}()
		sessions = auth.NewRedisSessionBlacklist(client)
		log.Info("Session blacklist backed by Redis", zap.String("addr", cfg.Redis.Addr()))
	} else {
		sessions = auth.NewInMemorySessionBlacklist()
		log.Warn("Redis disabled, revoked sessions are kept in memory")
	}

	// Repositories
	organizationRepo := persistence.NewGormOrganizationRepository(db.DB)
	branchRepo := persistence.NewGormBranchRepository(db.DB)
	movementRepo := persistence.NewGormCashMovementRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	roleRepo := persistence.NewGormRoleRepository(db.DB)

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	hasher := auth.BcryptHasher{}
	organizationService := organizationapp.NewService(organizationRepo, log)
	branchService := branchapp.NewService(branchRepo, log)
	movementService := cashflowapp.NewMovementService(movementRepo, branchRepo, log)
	statsService := cashflowapp.NewStatsService(movementRepo, branchRepo, log)
	authService := identityapp.NewAuthService(userRepo, jwtService, hasher, sessions, log)
	userService := identityapp.NewUserService(userRepo, roleRepo, branchService, hasher, log)
	resolver := identityapp.NewIdentityResolver(userRepo, log)
	authorizationService := identityapp.NewAuthorizationService(roleRepo)

	cashflowMetrics, err := telemetry.NewCashflowMetrics(meterProvider.Meter("cashdesk/cashflow"))
	if err != nil {
		log.Fatal("Failed to register cashflow metrics", zap.Error(err))
	}
	movementService.SetMetrics(cashflowMetrics)

	// Set Gin mode based on environment
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	security := middleware.DefaultSecurityConfig()
	security.HSTSEnabled = cfg.IsProduction()
	if cfg.Swagger.Enabled {
		// Swagger UI loads its own scripts and styles
		security.CSPDirective = "default-src 'self'; style-src 'self' 'unsafe-inline'; script-src 'self' 'unsafe-inline'; img-src 'self' data:"
	}

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders

	engine := router.NewEngine(router.EngineConfig{
		TrustedProxies: cfg.HTTP.TrustedProxies,
		MaxBodySize:    cfg.HTTP.MaxBodySize,
		CORS:           corsConfig,
		Security:       security,
		Tracing: middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     tracerProvider.IsEnabled(),
		},
		SwaggerEnabled: cfg.Swagger.Enabled,
	}, log)

	guards := router.Guards{
		Authenticate: middleware.JWTAuthMiddleware(middleware.JWTMiddlewareConfig{
			JWTService: jwtService,
			Resolver:   resolver,
			Sessions:   sessions,
			Logger:     log,
		}),
		Annotate: middleware.TracingAttributeInjector(),
		Authorization: middleware.AuthorizationConfig{
			Grants: authorizationService,
			Logger: log,
		},
	}

	handlers := router.Handlers{
		Auth:         handler.NewAuthHandler(authService),
		Organization: handler.NewOrganizationHandler(organizationService),
		Branch:       handler.NewBranchHandler(branchService),
		CashMovement: handler.NewCashMovementHandler(movementService),
		Cashflow:     handler.NewCashflowHandler(statsService),
		User:         handler.NewUserHandler(userService),
		Health:       handler.NewHealthHandler(db),
	}

	router.NewRouter(engine, router.WithAPIVersion("v1")).
		Register(router.APIRoutes(handlers, guards)...).
		Setup()

	// Create HTTP server with config
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	log.Info("Server exited gracefully")
}
