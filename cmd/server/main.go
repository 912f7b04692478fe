package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/maxviazov/billing-admin-service/internal/config"
	"github.com/maxviazov/billing-admin-service/internal/handler"
	"github.com/maxviazov/billing-admin-service/internal/logger"
	"github.com/maxviazov/billing-admin-service/internal/repository"
	"github.com/maxviazov/billing-admin-service/internal/repository/sqlstore"
	"github.com/maxviazov/billing-admin-service/internal/service"
	"github.com/maxviazov/billing-admin-service/internal/view"
	"github.com/maxviazov/billing-admin-service/migrations"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	// Load application config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Config loading failed: %v", err)
	}

	// Initialize logger
	cfg.Logger.ServiceName = cfg.App.Name
	cfg.Logger.ServiceVersion = cfg.App.Version
	appLogger, err := logger.New(&cfg.Logger)
	if err != nil {
		log.Fatalf("❌ Logger initialization failed: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, appLogger); err != nil {
		appLogger.Fatal().Err(err).Msg("service stopped with error")
	}
	appLogger.Info().Msg("service stopped")
}

func run(ctx context.Context, cfg *config.Config, appLogger zerolog.Logger) error {
	db, err := repository.Open(ctx, cfg, &appLogger)
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.Database.Migrate {
		if err := migrate(ctx, db, cfg.Database.Driver, appLogger); err != nil {
			return err
		}
	}

	store, err := sqlstore.NewStore(db.DB, cfg.Pagination.Strategy, appLogger)
	if err != nil {
		return err
	}
	staffSvc := service.NewStaffService(
		sqlstore.NewStaffRepository(store),
		sqlstore.NewGroupRepository(store),
		sqlstore.NewLoginHistoryRepository(store),
		sqlstore.NewTxManager(store),
		appLogger,
	)
	balanceSvc := service.NewBalanceService(
		sqlstore.NewBalanceRepository(store),
		sqlstore.NewClientRepository(store),
		appLogger,
	)

	loader, err := view.NewLoader(view.Options{
		ModulesDir: cfg.Views.ModulesDir,
		ThemeDir:   cfg.Views.ThemeDir,
		Type:       cfg.Views.Type,
		CacheSize:  cfg.Views.CacheSize,
	}, appLogger)
	if err != nil {
		return err
	}
	renderer, err := view.NewRenderer(loader)
	if err != nil {
		return err
	}
	if cfg.Views.Watch {
		go func() {
			if err := loader.Watch(ctx, renderer.Purge); err != nil {
				appLogger.Warn().Err(err).Msg("template watcher stopped")
			}
		}()
	}

	if cfg.App.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery(), handler.RequestID(), handler.AccessLog(appLogger))
	handler.Register(engine, handler.Deps{
		Pinger:      sqlstore.NewPinger(store),
		Staff:       staffSvc,
		Balance:     balanceSvc,
		Views:       renderer,
		PerPage:     cfg.Pagination.PerPage,
		OpenAPIPath: "api/openapi.yaml",
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.App.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		appLogger.Info().
			Str("addr", srv.Addr).
			Str("driver", cfg.Database.Driver).
			Str("pagination", cfg.Pagination.Strategy).
			Msg("🚀 Service started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	appLogger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.App.ShutdownTimeout)*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func migrate(ctx context.Context, db *repository.Database, driver string, logger zerolog.Logger) error {
	mdb, release, err := db.MigrationDB()
	if err != nil {
		return err
	}
	defer func() { _ = release() }()
	return migrations.Up(ctx, mdb, driver, logger)
}
