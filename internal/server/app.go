// Package server wires the stores, services and transports together and
// runs them until the process is signalled to stop.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/songkeeper/internal/logging"
	"github.com/dmitrijs2005/songkeeper/internal/server/auth"
	"github.com/dmitrijs2005/songkeeper/internal/server/config"
	"github.com/dmitrijs2005/songkeeper/internal/server/httpapi"
	"github.com/dmitrijs2005/songkeeper/internal/server/objectstore"
	"github.com/dmitrijs2005/songkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/songkeeper/internal/server/repositories/users"
	"github.com/dmitrijs2005/songkeeper/internal/server/services"
	"github.com/gin-gonic/gin"

	gs "github.com/dmitrijs2005/songkeeper/internal/server/grpc"
)

type runner interface {
	Run(ctx context.Context) error
}

type App struct {
	config  *config.Config
	logger  logging.Logger
	http    runner
	grpc    runner
	closers []func(ctx context.Context) error
}

// NewApp connects to every store and builds the servers. On error the
// connections opened so far are closed.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	if err := validate(c); err != nil {
		return nil, err
	}

	logger, syncLog, err := logging.New(c.LogBackend, os.Stdout)
	if err != nil {
		return nil, err
	}

	app := &App{config: c, logger: logger}
	app.closers = append(app.closers, func(context.Context) error { syncLog(); return nil })

	ready := false
	defer func() {
		if !ready {
			app.close(ctx)
		}
	}()

	db, err := repomanager.OpenPostgres(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	app.closers = append(app.closers, func(context.Context) error { return db.Close() })

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	userRepo, err := app.openDocumentStore(ctx)
	if err != nil {
		return nil, fmt.Errorf("document store init error: %w", err)
	}
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("document store init error: %w", err)
	}

	store, err := objectstore.NewS3Store(ctx, objectstore.Config{
		AccessKey: c.S3RootUser,
		SecretKey: c.S3RootPassword,
		Bucket:    c.S3Bucket,
		Region:    c.S3Region,
		Endpoint:  c.S3BaseEndpoint,
	})
	if err != nil {
		return nil, fmt.Errorf("object store init error: %w", err)
	}

	tokens := auth.NewTokenService([]byte(c.SecretKey), c.TokenValidityDuration)
	coordinator := services.NewCoordinator(userRepo, logger)

	gin.SetMode(gin.ReleaseMode)
	app.http = httpapi.NewServer(c.EndpointAddrHTTP, logger, auth.NewGuard(tokens), httpapi.Services{
		Songs:   services.NewSongService(db, rm, coordinator, c.PageSize),
		Reviews: services.NewReviewService(db, rm, coordinator),
		Photos:  services.NewPhotoService(db, rm, coordinator, store),
		Users:   services.NewUserService(userRepo, services.NewArgon2Hasher(), tokens, logger),
	})

	app.grpc = gs.NewHealthServer(c.EndpointAddrGRPC, logger, 15*time.Second,
		gs.Check{Name: "postgres", Ping: pingSQL(db)},
		gs.Check{Name: c.DocumentBackend, Ping: userRepo.Ping},
	)

	ready = true
	return app, nil
}

func validate(c *config.Config) error {
	switch c.DocumentBackend {
	case config.BackendMongo, config.BackendSurreal:
	default:
		return fmt.Errorf("unknown document backend %q", c.DocumentBackend)
	}
	if c.SecretKey == "" {
		return fmt.Errorf("secret key must not be empty")
	}
	return nil
}

func (app *App) openDocumentStore(ctx context.Context) (users.Repository, error) {
	c := app.config

	if c.DocumentBackend == config.BackendSurreal {
		sdb, err := users.ConnectSurreal(ctx, c.SurrealURL, c.SurrealNamespace, c.SurrealDatabase, c.SurrealUser, c.SurrealPassword)
		if err != nil {
			return nil, err
		}
		repo := users.NewSurrealRepository(sdb)
		app.closers = append(app.closers, repo.Close)
		return repo, nil
	}

	client, err := users.ConnectMongo(ctx, c.MongoURI)
	if err != nil {
		return nil, err
	}
	app.closers = append(app.closers, client.Disconnect)
	return users.NewMongoRepository(client.Database(c.MongoDatabase)), nil
}

func pingSQL(db *sql.DB) func(ctx context.Context) error {
	return db.PingContext
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

func (app *App) start(ctx context.Context, cancelFunc context.CancelFunc, name string, r runner) {
	if err := r.Run(ctx); err != nil {
		app.logger.Error(ctx, "server failed", "server", name, "error", err)
		cancelFunc()
	}
}

// Run blocks until a signal arrives or a server fails, then releases
// every connection.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.start(ctx, cancelFunc, "http", app.http)
	}()
	go func() {
		defer wg.Done()
		app.start(ctx, cancelFunc, "grpc", app.grpc)
	}()

	wg.Wait()

	app.logger.Info(ctx, "Servers stopped, closing connections")
	app.close(context.Background())
}

// close runs the closers in reverse order of acquisition.
func (app *App) close(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i](ctx); err != nil {
			app.logger.Error(ctx, "close error", "error", err)
		}
	}
	app.closers = nil
}
