// Command server runs the phone store HTTP API.
package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	_ "github.com/phonestore/backend/docs"
	"github.com/phonestore/backend/internal/infrastructure/cache"
	"github.com/phonestore/backend/internal/infrastructure/config"
	"github.com/phonestore/backend/internal/infrastructure/logger"
	"github.com/phonestore/backend/internal/infrastructure/migration"
	"github.com/phonestore/backend/internal/infrastructure/persistence"
	"github.com/phonestore/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

//go:generate swag init -g main.go -d ./,../../internal/interfaces/http/handler -o ../../docs --v3.1

//	@title			Phone Store API
//	@version		1.0
//	@description	Storefront and back-office API of the phone store

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

const migrationsRoot = "migrations"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tel, err := telemetry.Setup(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer func() {
		if err := tel.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down telemetry", zap.Error(err))
		}
	}()
	if tel.Logs.IsEnabled() {
		level, _ := logger.ParseLevel(cfg.Log.Level)
		log = tel.Logs.Bridge(log, level)
	}

	log.Info("Starting phone store backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	db, err := openDatabase(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to prepare database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	stores, err := cache.NewStoreFactory(cfg.Redis, cfg.Session,
		cache.WithLogger(log),
		cache.WithInMemoryFallback(!cfg.App.IsProduction()),
	).Create(ctx)
	if err != nil {
		log.Fatal("Failed to create session stores", zap.Error(err))
	}
	defer func() {
		if err := stores.Close(); err != nil {
			log.Error("Error closing session stores", zap.Error(err))
		}
	}()

	app, err := newApplication(ctx, cfg, log, db, stores, tel)
	if err != nil {
		log.Fatal("Failed to wire application", zap.Error(err))
	}
	defer app.Close(context.Background())

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := app.Engine()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			log.Error("Server failed", zap.Error(err))
		}
	case <-ctx.Done():
		log.Info("Shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}
	log.Info("Server exited gracefully")
}

// openDatabase connects and brings the schema up to date. SQLite, used for
// local runs, is migrated from the models; the other drivers run the SQL
// migrations for their dialect.
func openDatabase(ctx context.Context, cfg *config.Config, log *zap.Logger) (*persistence.Database, error) {
	gormLog := logger.NewGormLogger(log, logger.GormLevel(cfg.Log.Level), cfg.Telemetry.DBSlowQueryThresh, cfg.Telemetry.DBLogFullSQL)
	db, err := persistence.NewDatabase(&cfg.Database, persistence.WithLogger(gormLog))
	if err != nil {
		return nil, err
	}
	log.Info("Database connected", zap.String("driver", db.Driver))

	if err := telemetry.NewDBTracing(cfg.Telemetry, db.Driver, log).Register(db.DB); err != nil {
		_ = db.Close()
		return nil, err
	}

	if db.Driver == "sqlite" || cfg.Database.AutoMigrate {
		if err := db.AutoMigrate(ctx); err != nil {
			_ = db.Close()
			return nil, err
		}
		return db, nil
	}

	sqlDB, err := db.DB.DB()
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	m, err := migration.New(sqlDB, db.Driver, migrationsRoot, log)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := m.Up(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
