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
	catalogapp "github.com/menswear/backend/internal/application/catalog"
	identityapp "github.com/menswear/backend/internal/application/identity"
	legacyapp "github.com/menswear/backend/internal/application/legacy"
	partnerapp "github.com/menswear/backend/internal/application/partner"
	reportapp "github.com/menswear/backend/internal/application/report"
	schedulingapp "github.com/menswear/backend/internal/application/scheduling"
	tradeapp "github.com/menswear/backend/internal/application/trade"
	"github.com/menswear/backend/internal/domain/identity"
	"github.com/menswear/backend/internal/infrastructure/auth"
	"github.com/menswear/backend/internal/infrastructure/cache"
	"github.com/menswear/backend/internal/infrastructure/config"
	"github.com/menswear/backend/internal/infrastructure/logger"
	"github.com/menswear/backend/internal/infrastructure/payment"
	"github.com/menswear/backend/internal/infrastructure/persistence"
	"github.com/menswear/backend/internal/infrastructure/storage"
	"github.com/menswear/backend/internal/infrastructure/telemetry"
	"github.com/menswear/backend/internal/interfaces/http/handler"
	"github.com/menswear/backend/internal/interfaces/http/middleware"
	"github.com/menswear/backend/internal/interfaces/http/router"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/menswear/backend/docs"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

//	@title			Menswear API
//	@version		1.0
//	@description	Storefront and back-office API for a menswear retailer: catalog, customers, leads, orders, fittings and reporting.

//	@contact.name	API Support
//	@contact.email	support@menswear.example.com

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

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
		logger.Sync(log)
	}()

	log.Info("Starting Menswear API",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	tp, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			log.Warn("Tracer shutdown failed", zap.Error(err))
		}
	}()

	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	var plugins []gorm.Plugin
	if tp.IsEnabled() && cfg.Telemetry.DBTraceEnabled {
		plugins = append(plugins, telemetry.NewDBTracing(cfg.Database.DBName))
	}

	pool, err := persistence.OpenDBPool(&cfg.Database, gormLog, log, plugins...)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := pool.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if pool.HasReplica() {
		go pool.Monitor(ctx, 30*time.Second)
	}
	log.Info("Database connected", zap.Bool("replica", pool.HasReplica()))

	cacheBackend, backendName := cache.NewCache(ctx, cfg.Redis, cache.WithLogger(log))
	defer func() {
		if err := cacheBackend.Close(); err != nil {
			log.Warn("Error closing cache", zap.Error(err))
		}
	}()
	cacheService := cache.NewService(cacheBackend, cfg.Cache)
	log.Info("Cache ready", zap.String("backend", backendName))

	var revocations auth.RevocationStore
	if rc, ok := cacheBackend.(*cache.RedisCache); ok {
		revocations = auth.NewRedisRevocationStore(rc.Client(), cfg.Cache.Prefix+"revoked:")
	} else {
		revocations = auth.NewMemoryRevocationStore()
	}

	// Repositories
	writer := pool.Writer()
	userRepo := persistence.NewGormUserRepository(writer)
	customerRepo := persistence.NewGormCustomerRepository(writer)
	leadRepo := persistence.NewGormLeadRepository(writer)
	productRepo := persistence.NewGormProductRepository(writer)
	variantRepo := persistence.NewGormVariantRepository(writer)
	orderRepo := persistence.NewGormOrderRepository(writer)
	appointmentRepo := persistence.NewGormAppointmentRepository(writer)
	dashboardRepo := persistence.NewPooledDashboardRepository(pool)

	// Optional integrations stay untyped nil when disabled
	var images catalogapp.ImageStorage
	if cfg.Storage.Enabled {
		store, err := storage.NewS3ImageStore(ctx, &cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to initialize image storage", zap.Error(err))
		}
		images = store
	}

	var gateway tradeapp.PaymentGateway
	if cfg.Payment.Enabled() {
		stripeGateway, err := payment.NewStripeGateway(cfg.Payment, log)
		if err != nil {
			log.Fatal("Failed to initialize payments", zap.Error(err))
		}
		gateway = stripeGateway
	}

	pricing, err := tradeapp.PricingFromConfig(cfg.Shop)
	if err != nil {
		log.Fatal("Invalid shop pricing configuration", zap.Error(err))
	}

	// Application services
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, revocations, log)
	userService := identityapp.NewUserService(userRepo, revocations, cfg.JWT.RefreshTokenExpiration, log)
	customerService := partnerapp.NewCustomerService(customerRepo, cacheService)
	leadService := partnerapp.NewLeadService(leadRepo, customerRepo, cacheService, log)
	productService := catalogapp.NewProductService(productRepo, variantRepo, cacheService, images, log)
	orderService := tradeapp.NewOrderService(
		persistence.NewGormOrderScope(pool),
		orderRepo,
		customerRepo,
		gateway,
		cacheService,
		tradeapp.OrderServiceConfig{Currency: cfg.Shop.Currency, Pricing: pricing},
		log,
	)
	appointmentService := schedulingapp.NewAppointmentService(
		appointmentRepo, persistence.NewGormStaffScope(pool), customerRepo, userRepo, cacheService, log)
	dashboardService := reportapp.NewDashboardService(dashboardRepo, cacheService, log)
	legacyService := legacyapp.NewService(productService, customerService, leadService, appointmentService, cacheService, log)

	handlers := router.Handlers{
		Auth:        handler.NewAuthHandler(authService),
		User:        handler.NewUserHandler(userService),
		Customer:    handler.NewCustomerHandler(customerService, orderService),
		Lead:        handler.NewLeadHandler(leadService),
		Product:     handler.NewProductHandler(productService),
		Order:       handler.NewOrderHandler(orderService),
		Appointment: handler.NewAppointmentHandler(appointmentService),
		Dashboard:   handler.NewDashboardHandler(dashboardService),
		Legacy:      handler.NewLegacyHandler(legacyService),
		System: handler.NewSystemHandler(handler.SystemInfo{
			Name:        cfg.App.Name,
			Version:     version,
			Environment: cfg.App.Env,
			Currency:    cfg.Shop.Currency,
		}),
	}

	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService: jwtService,
		Revocation: authService,
		Logger:     log,
	}

	// Login attempts get their own, tighter budget
	loginLimiter := middleware.NewRateLimiter(10, time.Minute)
	defer loginLimiter.Stop()

	guards := router.Guards{
		Authenticate: middleware.JWTAuth(jwtConfig),
		OptionalAuth: middleware.OptionalJWTAuth(jwtConfig),
		Staff:        middleware.RequireRole(log, identity.RoleStaff, identity.RoleAdmin),
		Admin:        middleware.RequireRole(log, identity.RoleAdmin),
		LoginLimit:   middleware.RateLimit(loginLimiter),
	}

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Order matters: the request id must exist before logging, and tracing
	// wraps everything that can fail a request.
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     tp.IsEnabled(),
		SkipPaths:   []string{"/health", "/metrics"},
	}))
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(middleware.NewHTTPMetrics(prometheus.DefaultRegisterer).Middleware("/health", "/metrics"))
	engine.Use(middleware.Secure(middleware.DefaultSecurityConfig(cfg.App.IsProduction())))
	engine.Use(middleware.CORS(cfg.HTTP))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		defer rateLimiter.Stop()
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	engine.GET("/health", handler.NewHealthHandler(pool, cacheService).Health)
	engine.GET("/metrics", middleware.DefaultMetricsHandler())

	if cfg.Swagger.Enabled {
		engine.GET("/swagger/*any",
			middleware.SwaggerProtection(cfg.Swagger, guards.Authenticate),
			ginSwagger.WrapHandler(swaggerFiles.Handler),
		)
	}

	router.Install(router.NewRouter(engine), handlers, guards)

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
	}
	stop()

	log.Info("Server exited gracefully")
}
