package app

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/petrolea/pedidos-api/internal/api"
	"github.com/petrolea/pedidos-api/internal/config"
	"github.com/petrolea/pedidos-api/internal/pkg/health"
	"github.com/petrolea/pedidos-api/internal/pkg/logger"
	"github.com/petrolea/pedidos-api/internal/service"
	"github.com/petrolea/pedidos-api/internal/store"
)

// App holds the core components of the application.
type App struct {
	cfg    *config.Config
	logger logger.Logger
	db     *sql.DB
	server *api.Server
	hc     *health.DBHealthChecker
}

// New wires the whole service together: config, logger, database, store,
// services and the HTTP server.
func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	appLogger, err := logger.New(cfg.Env)
	if err != nil {
		return nil, fmt.Errorf("failed to create a logger: %w", err)
	}

	db, err := sql.Open("pgx", cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)

	dbStore := store.NewDBStore(db, appLogger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := dbStore.InitSchema(ctx); err != nil {
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}
	// The resolvers assume fixed catalog ids; refuse to start if the live
	// tables disagree.
	if err := dbStore.VerifyCatalog(ctx); err != nil {
		return nil, fmt.Errorf("catalog verification failed: %w", err)
	}

	pedidoService := service.New(dbStore, appLogger)
	authService := service.NewAuth(dbStore, appLogger)

	hc := health.NewDBHealthChecker(db, appLogger, cfg.Health.CheckInterval, cfg.Health.CheckTimeout)
	server := api.NewServer(pedidoService, authService, appLogger, cfg.Auth, cfg.HTTPServer, hc)

	return &App{
		cfg:    cfg,
		logger: appLogger,
		db:     db,
		server: server,
		hc:     hc,
	}, nil
}

// Run starts the health checker and the HTTP server, then blocks until
// SIGINT/SIGTERM and shuts everything down.
func (a *App) Run() {
	defer func() {
		if err := a.logger.Sync(); err != nil {
			log.Printf("failed to sync logger: %v\n", err)
		}
		a.db.Close()
	}()

	ctx, cancel := context.WithCancel(context.Background())
	a.hc.Start(ctx)

	go func() {
		if err := a.server.Start(":" + a.cfg.HTTPServer.Port); err != nil {
			a.logger.Errorw("server failed", "error", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	a.logger.Infow("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Errorw("server shutdown failed", "error", err)
	}
}
