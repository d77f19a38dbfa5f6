// Package server wires the PLMS server together: configuration, storage,
// services, and the HTTP and gRPC health listeners, plus graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/plms/internal/logging"
	"github.com/dmitrijs2005/plms/internal/server/auth"
	"github.com/dmitrijs2005/plms/internal/server/config"
	"github.com/dmitrijs2005/plms/internal/server/metrics"
	"github.com/dmitrijs2005/plms/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/plms/internal/server/rest"
	"github.com/dmitrijs2005/plms/internal/server/services"
	"github.com/gin-gonic/gin"

	gs "github.com/dmitrijs2005/plms/internal/server/grpc"
)

const dbConnectTimeout = 5 * time.Second

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	metrics *metrics.Metrics
	http    *rest.Server
}

// NewApp connects to the database, applies migrations and builds the
// services. The session secret must be set.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, slog.LevelInfo)

	codec, err := auth.NewCodec([]byte(c.SecretKey), c.SessionValidityDuration)
	if err != nil {
		return nil, fmt.Errorf("session codec: %w", err)
	}

	db, rm, err := repomanager.Open(ctx, c.DatabaseDSN, dbConnectTimeout)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	repomanager.SetMigrationLogger(logger)
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	if c.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	m := metrics.New()
	as := services.NewAuthService(db, rm, codec, logger)
	ts := services.NewToolService(db, rm, logger)
	ds := services.NewDocumentService(db, rm, c, logger)

	hs := rest.NewServer(c.EndpointAddrHTTP, logger, as, ts, ds, m, c.IsProduction())

	return &App{config: c, logger: logger, db: db, metrics: m, http: hs}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.db, app.config.HealthCheckInterval, app.metrics)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, "grpc server failed", "error", err)
		cancelFunc()
	}
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.http.Run(ctx); err != nil {
		app.logger.Error(ctx, "http server failed", "error", err)
		cancelFunc()
	}
}

// Run serves until a termination signal arrives or a listener fails.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "environment", app.config.Environment)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "closing database failed", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
