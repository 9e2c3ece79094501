// Package server assembles the bookapi server: it opens the store, runs
// migrations, builds the services and runs the HTTP API and the gRPC health
// endpoint until a termination signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/bookapi/internal/logging"
	"github.com/dmitrijs2005/bookapi/internal/server/auth"
	"github.com/dmitrijs2005/bookapi/internal/server/config"
	"github.com/dmitrijs2005/bookapi/internal/server/httpapi"
	"github.com/dmitrijs2005/bookapi/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/bookapi/internal/server/services"
	"golang.org/x/sync/errgroup"

	gs "github.com/dmitrijs2005/bookapi/internal/server/grpc"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	http   *httpapi.Server
	grpc   *gs.GRPCServer
}

// openStore picks PostgreSQL when a DSN is configured and the in-memory
// stores otherwise. Overridden in tests.
var openStore = func(ctx context.Context, dsn string) (*sql.DB, repomanager.RepositoryManager, error) {
	if dsn == "" {
		return nil, repomanager.NewInMemoryRepositoryManager(), nil
	}
	db, err := repomanager.OpenPostgres(ctx, dsn)
	if err != nil {
		return nil, nil, err
	}
	return db, repomanager.NewPostgresRepositoryManager(), nil
}

// NewApp validates c and builds every component. It fails fast on a bad
// configuration or an unreachable database.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	tokenCfg := auth.TokenConfig{Key: []byte(c.JWTKey), Issuer: c.JWTIssuer, Audience: c.JWTAudience}
	issuer, err := auth.NewIssuer(tokenCfg)
	if err != nil {
		return nil, err
	}
	validator, err := auth.NewValidator(tokenCfg)
	if err != nil {
		return nil, err
	}

	db, rm, err := openStore(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := rm.RunMigrations(ctx, db); err != nil {
		closeDB(db)
		return nil, fmt.Errorf("migration error: %w", err)
	}
	if db == nil {
		logger.Warn(ctx, "no database configured, using in-memory stores")
	}

	var ready func(ctx context.Context) error
	if db != nil {
		ready = db.PingContext
	}

	metrics := httpapi.NewMetrics()
	handler := httpapi.NewHandler(httpapi.HandlerConfig{
		Auth: services.NewAuthService(db, rm, auth.NewHasher(c.KDFConcurrency), issuer, logger,
			services.NewAuthMetrics(metrics.Registry())),
		Books:        services.NewBookService(db, rm, logger),
		Covers:       services.NewCoverService(db, rm, c, logger),
		Tokens:       validator,
		Logger:       logger,
		Metrics:      metrics,
		Ready:        ready,
		MaxBodyBytes: c.MaxBodyBytes,
	})

	app := &App{
		config: c,
		logger: logger,
		db:     db,
		http:   httpapi.NewServer(c.EndpointAddrHTTP, handler.Routes(), c.RequestTimeout, c.ShutdownTimeout, logger),
	}
	if c.EndpointAddrGRPC != "" {
		app.grpc = gs.NewGRPCServer(c.EndpointAddrGRPC, logger, ready)
	}
	return app, nil
}

// Run serves until SIGINT/SIGTERM or until one of the servers fails.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()
	defer closeDB(app.db)

	app.logger.Info(ctx, "Starting app...")

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return app.http.Run(ctx) })
	if app.grpc != nil {
		g.Go(func() error { return app.grpc.Run(ctx) })
	}

	err := g.Wait()
	app.logger.Info(context.WithoutCancel(ctx), "App stopped")
	return err
}

func closeDB(db *sql.DB) {
	if db != nil {
		_ = db.Close()
	}
}
