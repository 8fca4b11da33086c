package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	cartapp "github.com/phonestore/backend/internal/application/cart"
	catalogapp "github.com/phonestore/backend/internal/application/catalog"
	identityapp "github.com/phonestore/backend/internal/application/identity"
	partnerapp "github.com/phonestore/backend/internal/application/partner"
	reportapp "github.com/phonestore/backend/internal/application/report"
	tradeapp "github.com/phonestore/backend/internal/application/trade"
	warrantyapp "github.com/phonestore/backend/internal/application/warranty"
	"github.com/phonestore/backend/internal/domain/identity"
	"github.com/phonestore/backend/internal/domain/warranty"
	"github.com/phonestore/backend/internal/infrastructure/auth"
	"github.com/phonestore/backend/internal/infrastructure/cache"
	"github.com/phonestore/backend/internal/infrastructure/config"
	"github.com/phonestore/backend/internal/infrastructure/event"
	"github.com/phonestore/backend/internal/infrastructure/export"
	"github.com/phonestore/backend/internal/infrastructure/logger"
	"github.com/phonestore/backend/internal/infrastructure/persistence"
	"github.com/phonestore/backend/internal/infrastructure/qrcode"
	"github.com/phonestore/backend/internal/infrastructure/scheduler"
	"github.com/phonestore/backend/internal/infrastructure/storage"
	"github.com/phonestore/backend/internal/infrastructure/telemetry"
	"github.com/phonestore/backend/internal/interfaces/http/handler"
	"github.com/phonestore/backend/internal/interfaces/http/middleware"
	"github.com/phonestore/backend/internal/interfaces/http/router"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// application holds the wired services and the resources that need closing
type application struct {
	cfg    *config.Config
	log    *zap.Logger
	tel    *telemetry.Telemetry
	bus    *event.InMemoryEventBus
	authn  *identityapp.AuthService
	stores *cache.Stores

	handlers    *router.Handlers
	metrics     *telemetry.BusinessMetrics
	apiLimiter  *middleware.RateLimiter
	authLimiter *middleware.RateLimiter
	jobs        *scheduler.Scheduler
	daily       *scheduler.DailyTrigger
}

func newApplication(
	ctx context.Context,
	cfg *config.Config,
	log *zap.Logger,
	db *persistence.Database,
	stores *cache.Stores,
	tel *telemetry.Telemetry,
) (*application, error) {
	app := &application{cfg: cfg, log: log, tel: tel, stores: stores}

	productRepo := persistence.NewGormProductRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	colorRepo := persistence.NewGormColorRepository(db.DB)
	discountRepo := persistence.NewGormDiscountRepository(db.DB)
	imageRepo := persistence.NewGormProductImageRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	addressRepo := persistence.NewGormAddressRepository(db.DB)
	membershipRepo := persistence.NewGormMembershipRepository(db.DB)
	couponRepo := persistence.NewGormCouponRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	warrantyRepo := persistence.NewGormWarrantyRepository(db.DB)
	claimRepo := persistence.NewGormClaimRepository(db.DB)
	revenueRepo := persistence.NewGormRevenueRepository(db.DB)
	adminRepo := persistence.NewGormAdminRepository(db.DB)
	roleRepo := persistence.NewGormRoleRepository(db.DB)
	permissionRepo := persistence.NewGormPermissionRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	imageStorage, err := storage.New(ctx, &cfg.Storage, log)
	if err != nil {
		return nil, err
	}

	var blacklist auth.TokenBlacklist = auth.NewInMemoryTokenBlacklist()
	if stores.Client != nil {
		blacklist = auth.NewRedisTokenBlacklist(stores.Client)
	}
	hasher := auth.NewBcryptHasher(0)
	jwtService := auth.NewJWTService(cfg.JWT)
	codes := warranty.NewCodeGenerator()

	productService := catalogapp.NewProductService(productRepo, categoryRepo, discountRepo, imageRepo, imageStorage, log)
	imageService := catalogapp.NewImageService(productRepo, colorRepo, imageRepo, imageStorage, log)
	categoryService := catalogapp.NewCategoryService(categoryRepo)
	colorService := catalogapp.NewColorService(colorRepo)
	discountService := catalogapp.NewDiscountService(discountRepo)
	cartService := cartapp.NewService(productRepo)
	customerService := partnerapp.NewCustomerService(customerRepo, addressRepo, membershipRepo, hasher, log)
	membershipService := partnerapp.NewMembershipService(membershipRepo)
	couponService := partnerapp.NewCouponService(couponRepo)
	checkoutService := tradeapp.NewCheckoutService(txScope, addressRepo, orderRepo, codes, log)
	checkoutService.SetIdempotencyStore(stores.Idempotency)
	orderService := tradeapp.NewOrderService(orderRepo, productRepo, txScope, checkoutService, log)
	warrantyService := warrantyapp.NewService(warrantyRepo, claimRepo, codes, qrcode.NewEncoder("M"), log)
	warrantyAdminService := warrantyapp.NewAdminService(warrantyRepo, claimRepo, orderRepo, productRepo, txScope, codes, log)
	reportService := reportapp.NewReportService(revenueRepo, export.NewXLSXExporter(), log)
	dashboardService := reportapp.NewDashboardService(productRepo, orderRepo, customerRepo, claimRepo, revenueRepo)
	authService := identityapp.NewAuthService(adminRepo, roleRepo, hasher, jwtService, blacklist, log)
	accountService := identityapp.NewAdminAccountService(adminRepo, roleRepo, blacklist, jwtService.Expiration(), log)
	roleService := identityapp.NewRoleService(roleRepo, permissionRepo, log)
	app.authn = authService

	if cfg.Seed.Enabled {
		seeder := identityapp.NewSeeder(adminRepo, roleRepo, permissionRepo, hasher, log)
		if err := seeder.Seed(ctx, identityapp.SeedOptions{
			AdminUsername: cfg.Seed.AdminUsername,
			AdminPassword: cfg.Seed.AdminPassword,
			AdminFullName: cfg.Seed.AdminFullName,
		}); err != nil {
			return nil, err
		}
	}

	app.bus = event.NewInMemoryEventBus(log)
	app.bus.Subscribe(event.NewAuditLogHandler(log))
	if tel.Meter.IsEnabled() {
		app.metrics, err = telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
			Meter:         tel.Meter.Meter("phonestore"),
			Logger:        log,
			StockProvider: telemetry.NewGormStockMetricsProvider(db.DB),
		})
		if err != nil {
			return nil, err
		}
		app.bus.Subscribe(event.NewBusinessMetricsHandler(app.metrics))
		app.metrics.StartPeriodicCollection(ctx, cfg.Telemetry.MetricsInterval)
	}
	if err := app.bus.Start(ctx); err != nil {
		return nil, err
	}
	productService.SetEventPublisher(app.bus)
	checkoutService.SetEventPublisher(app.bus)
	orderService.SetEventPublisher(app.bus)
	warrantyService.SetEventPublisher(app.bus)
	warrantyAdminService.SetEventPublisher(app.bus)

	if cfg.Scheduler.Enabled {
		if err := app.startScheduler(ctx, warrantyAdminService); err != nil {
			return nil, err
		}
	}

	app.handlers = &router.Handlers{
		System: handler.NewSystemHandler(telemetry.ServiceVersion, healthChecks(db, stores)),

		StoreCatalog:  handler.NewStoreCatalogHandler(productService, categoryService, imageService),
		StoreCustomer: handler.NewStoreCustomerHandler(customerService, orderService),
		Cart:          handler.NewCartHandler(cartService),
		Checkout:      handler.NewCheckoutHandler(checkoutService),
		StoreWarranty: handler.NewStoreWarrantyHandler(warrantyService),

		Auth:         handler.NewAuthHandler(authService, cfg.Cookie),
		AdminAccount: handler.NewAdminAccountHandler(accountService),
		Role:         handler.NewRoleHandler(roleService),
		Product:      handler.NewProductHandler(productService, imageService, cfg.Upload.MaxImageSize),
		Category:     handler.NewCategoryHandler(categoryService),
		Color:        handler.NewColorHandler(colorService),
		Discount:     handler.NewDiscountHandler(discountService),
		Order:        handler.NewOrderHandler(orderService),
		Customer:     handler.NewCustomerHandler(customerService),
		Membership:   handler.NewMembershipHandler(membershipService),
		Coupon:       handler.NewCouponHandler(couponService),
		Warranty:     handler.NewWarrantyHandler(warrantyAdminService),
		Report:       handler.NewReportHandler(reportService, dashboardService),
	}
	return app, nil
}

func healthChecks(db *persistence.Database, stores *cache.Stores) map[string]handler.HealthCheck {
	checks := map[string]handler.HealthCheck{"database": db.Ping}
	if stores.Client != nil {
		checks["redis"] = func(ctx context.Context) error {
			return stores.Client.Ping(ctx).Err()
		}
	}
	return checks
}

// Engine builds the gin engine with the global middleware chain and every route
func (a *application) Engine() *gin.Engine {
	cfg := a.cfg
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		a.log.Warn("Invalid trusted proxies, trusting none", zap.Error(err))
		_ = engine.SetTrustedProxies(nil)
	}

	engine.Use(
		logger.Recovery(a.log),
		middleware.RequestID(),
		logger.GinMiddleware(a.log),
		middleware.Tracing(middleware.TracingConfig{ServiceName: cfg.Telemetry.ServiceName, Enabled: a.tel.Tracer.IsEnabled()}),
		middleware.TracingAttributeInjector(),
		middleware.SpanErrorMarker(),
		middleware.HTTPMetrics(a.tel.Meter, a.log),
		middleware.Profiling(profilingConfig(a.tel.Profiler.IsEnabled())),
		middleware.SecureWithConfig(middleware.DefaultSecurityConfig()),
		middleware.CORSWithConfig(corsConfig(cfg.HTTP)),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
	)
	if cfg.HTTP.RateLimitEnabled {
		a.apiLimiter = middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(a.apiLimiter))
		a.log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	engine.GET("/health", a.handlers.System.Health)
	engine.GET("/swagger/*any", middleware.SwaggerProtection(cfg.Swagger), ginSwagger.WrapHandler(swaggerFiles.Handler))

	guards := router.Guards{
		Session: middleware.Session(a.stores.Sessions, middleware.SessionConfig{Cookie: cfg.Cookie, TTL: cfg.Session.TTL}, a.log),
		Admin: func(policies ...identity.Policy) gin.HandlerFunc {
			return middleware.AdminAuth(a.authn, middleware.AdminAuthConfig{CookieName: cfg.Cookie.AdminName, Logger: a.log}, policies...)
		},
	}
	if cfg.HTTP.AuthRateLimitEnabled {
		a.authLimiter = middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		guards.AuthRateLimit = middleware.AuthRateLimit(a.authLimiter)
	}

	router.NewRouter(engine, router.WithAPIVersion("v1")).
		Register(
			router.SystemRoutes(a.handlers),
			router.StoreRoutes(a.handlers, guards),
			router.AdminRoutes(a.handlers, guards),
		).
		Setup()
	return engine
}

// Close stops background work started by newApplication and Engine
// startScheduler runs the nightly maintenance tasks on the job scheduler
func (a *application) startScheduler(ctx context.Context, warranties *warrantyapp.AdminService) error {
	sc := a.cfg.Scheduler
	a.jobs = scheduler.New(scheduler.Config{
		Workers:       sc.Workers,
		JobTimeout:    sc.JobTimeout,
		RetryAttempts: sc.RetryAttempts,
		RetryDelay:    sc.RetryDelay,
	}, a.log.Named("scheduler"))

	daily, err := scheduler.NewDailyTrigger(scheduler.DailyTriggerConfig{
		Hour:          sc.DailyHour,
		Minute:        sc.DailyMinute,
		CheckInterval: time.Minute,
	}, a.jobs, a.log.Named("scheduler"))
	if err != nil {
		return err
	}
	daily.Register("warranty.expire", func(ctx context.Context) error {
		_, err := warranties.ExpireOverdue(ctx)
		return err
	})
	a.daily = daily

	if err := a.jobs.Start(ctx); err != nil {
		return err
	}
	return a.daily.Start(ctx)
}

func (a *application) Close(ctx context.Context) {
	if a.apiLimiter != nil {
		a.apiLimiter.Stop()
	}
	if a.authLimiter != nil {
		a.authLimiter.Stop()
	}
	if a.metrics != nil {
		a.metrics.Stop()
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if a.daily != nil {
		if err := a.daily.Stop(ctx); err != nil {
			a.log.Error("Error stopping daily trigger", zap.Error(err))
		}
	}
	if a.jobs != nil {
		if err := a.jobs.Stop(ctx); err != nil {
			a.log.Error("Error stopping job scheduler", zap.Error(err))
		}
	}
	if err := a.bus.Stop(ctx); err != nil {
		a.log.Error("Error stopping event bus", zap.Error(err))
	}
}

func profilingConfig(enabled bool) middleware.ProfilingConfig {
	cfg := middleware.DefaultProfilingConfig()
	cfg.Enabled = enabled
	return cfg
}

func corsConfig(httpCfg config.HTTPConfig) middleware.CORSConfig {
	cfg := middleware.DefaultCORSConfig()
	if len(httpCfg.CORSAllowOrigins) > 0 {
		cfg.AllowOrigins = httpCfg.CORSAllowOrigins
	}
	if len(httpCfg.CORSAllowMethods) > 0 {
		cfg.AllowMethods = httpCfg.CORSAllowMethods
	}
	if len(httpCfg.CORSAllowHeaders) > 0 {
		cfg.AllowHeaders = httpCfg.CORSAllowHeaders
	}
	return cfg
}
