// Package runtime wires configuration, storage, services and the HTTP server
// into a runnable blog server.
package runtime

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	_ "github.com/lib/pq"

	"github.com/inkwell-labs/blog-server/internal/api/httpserver"
	"github.com/inkwell-labs/blog-server/internal/app"
	"github.com/inkwell-labs/blog-server/internal/app/blob"
	"github.com/inkwell-labs/blog-server/internal/app/httpapi"
	"github.com/inkwell-labs/blog-server/internal/app/storage/postgres"
	"github.com/inkwell-labs/blog-server/internal/config"
	"github.com/inkwell-labs/blog-server/internal/middleware"
	"github.com/inkwell-labs/blog-server/internal/platform/migrations"
	"github.com/inkwell-labs/blog-server/pkg/logger"
)

// Application wires core dependencies and manages the HTTP server lifecycle.
type Application struct {
	cfg        *config.Config
	log        *logger.Logger
	httpServer *httpserver.Server
	db         *sql.DB
}

// NewApplication constructs an application from the given configuration.
// A nil config loads config/config.yaml, falling back to defaults.
func NewApplication(cfg *config.Config) (*Application, error) {
	if cfg == nil {
		cfg = config.LoadOrDefault()
	}

	log := logger.New(cfg.Logging)

	stores, db, err := buildStores(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("configure stores: %w", err)
	}

	blobs, err := blob.NewDiskStore(cfg.Uploads.Dir, cfg.Uploads.URLPrefix)
	if err != nil {
		return nil, fmt.Errorf("configure uploads: %w", err)
	}

	secret := resolveAuthSecret(cfg)

	application := app.New(stores, app.Options{
		AuthSecret: secret,
		TokenTTL:   cfg.Auth.TokenTTL,
		Blobs:      blobs,
	}, log)

	handler := httpapi.NewHandler(application, httpapi.Config{
		UploadDir:  blobs.Dir(),
		AuthSecret: secret,
	}, log)

	var root http.Handler = middleware.NewCORSMiddleware(cfg.Server.AllowedOrigins).Handler(handler)
	httpSrv := httpserver.New(cfg.Server, log, root)

	return &Application{
		cfg:        cfg,
		log:        log,
		httpServer: httpSrv,
		db:         db,
	}, nil
}

// Run starts the HTTP server and blocks until the context is cancelled or the
// listener fails.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		if err := a.httpServer.Start(); err != nil {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}

// Shutdown gracefully shuts down the HTTP server and closes the database.
func (a *Application) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.log.WithError(err).Warn("error closing database connection")
		}
	}

	return nil
}

// resolveAuthSecret returns the secret used for both token signing and the
// verification middleware, so the middleware can always parse the tokens the
// server issues.
func resolveAuthSecret(cfg *config.Config) []byte {
	if cfg.Auth.Secret == "" {
		return []byte(app.DevAuthSecret)
	}
	return []byte(cfg.Auth.Secret)
}

// buildStores opens the configured database backend. An empty DSN selects the
// in-memory stores, which lose data on restart.
func buildStores(cfg *config.Config, log *logger.Logger) (app.Stores, *sql.DB, error) {
	if cfg.Database.DSN == "" {
		log.Warn("no database configured; using in-memory stores")
		return app.Stores{}, nil, nil
	}

	db, err := openDatabase(cfg.Database)
	if err != nil {
		return app.Stores{}, nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := migrations.Apply(ctx, db); err != nil {
		db.Close()
		return app.Stores{}, nil, fmt.Errorf("apply migrations: %w", err)
	}

	store := postgres.New(db)
	return app.Stores{Users: store, Posts: store, Comments: store}, db, nil
}

func openDatabase(cfg config.DatabaseConfig) (*sql.DB, error) {
	if cfg.Driver == "" {
		return nil, fmt.Errorf("database driver not configured")
	}

	db, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, err
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
