package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/httplog/v2"
	"github.com/jmoiron/sqlx"
	"github.com/vadimbarashkov/bookmarks/internal/config"
	"github.com/vadimbarashkov/bookmarks/internal/database/store"
	"github.com/vadimbarashkov/bookmarks/internal/service"
	"github.com/vadimbarashkov/bookmarks/migrations"
	"github.com/vadimbarashkov/bookmarks/pkg/postgres"
	"github.com/vadimbarashkov/bookmarks/pkg/sqlite"
	"golang.org/x/sync/errgroup"

	v1 "github.com/vadimbarashkov/bookmarks/internal/api/http/v1"
)

const serviceName = "bookmarks"

const shutdownTimeout = 10 * time.Second

// ErrUnknownDirection is returned by Migrate for anything but "up" or "down".
var ErrUnknownDirection = errors.New("unknown migration direction")

const (
	MigrateUp   = "up"
	MigrateDown = "down"
)

// NewLogger builds the request and process logger: JSON in prod, concise text elsewhere.
func NewLogger(cfg *config.Config) *httplog.Logger {
	return httplog.NewLogger(serviceName, httplog.Options{
		LogLevel:         cfg.Log.SlogLevel(),
		JSON:             cfg.Env == config.EnvProd,
		Concise:          cfg.Env != config.EnvProd,
		MessageFieldName: "message",
		Tags: map[string]string{
			"env": cfg.Env,
		},
		QuietDownRoutes: []string{"/health"},
		QuietDownPeriod: time.Minute,
	})
}

// openDatabase connects to the database selected by cfg.Database.Driver.
func openDatabase(ctx context.Context, cfg *config.Config) (*sqlx.DB, error) {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		return postgres.New(ctx, cfg.Postgres.DSN(), cfg.Postgres.Pool())
	case config.DriverSQLite:
		return sqlite.New(ctx, cfg.SQLite.Path)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}

func migrateDatabase(db *sqlx.DB, cfg *config.Config, direction string) error {
	switch {
	case direction != MigrateUp && direction != MigrateDown:
		return fmt.Errorf("%w: %q", ErrUnknownDirection, direction)
	case cfg.Database.Driver == config.DriverPostgres && direction == MigrateUp:
		return postgres.RunMigrations(migrations.Postgres, migrations.PostgresDir, cfg.Postgres.DSN())
	case cfg.Database.Driver == config.DriverPostgres:
		return postgres.RollbackMigrations(migrations.Postgres, migrations.PostgresDir, cfg.Postgres.DSN())
	case direction == MigrateUp:
		return sqlite.RunMigrations(db, migrations.SQLite, migrations.SQLiteDir)
	default:
		return sqlite.RollbackMigrations(db, migrations.SQLite, migrations.SQLiteDir)
	}
}

// Migrate applies ("up") or reverts ("down") the schema migrations of the configured database.
func Migrate(ctx context.Context, cfg *config.Config, direction string) error {
	const op = "app.Migrate"

	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return fmt.Errorf("%s: failed to connect to database: %w", op, err)
	}
	defer db.Close()

	if err := migrateDatabase(db, cfg, direction); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Run migrates the database and serves the HTTP API until ctx is cancelled.
func Run(ctx context.Context, cfg *config.Config, logger *httplog.Logger) error {
	const op = "app.Run"

	db, err := openDatabase(ctx, cfg)
	if err != nil {
		return fmt.Errorf("%s: failed to connect to database: %w", op, err)
	}
	defer db.Close()

	if err := migrateDatabase(db, cfg, MigrateUp); err != nil {
		return fmt.Errorf("%s: failed to run migrations: %w", op, err)
	}

	bookmarkStore := store.NewBookmarkStore(db)
	bookmarkSvc := service.NewBookmarkService(bookmarkStore)

	lis, err := net.Listen("tcp", cfg.HTTPServer.Addr())
	if err != nil {
		return fmt.Errorf("%s: failed to listen: %w", op, err)
	}

	server := &http.Server{
		Handler:        v1.NewRouter(logger, bookmarkSvc),
		ReadTimeout:    cfg.HTTPServer.ReadTimeout,
		WriteTimeout:   cfg.HTTPServer.WriteTimeout,
		IdleTimeout:    cfg.HTTPServer.IdleTimeout,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	logger.Info("starting server",
		"addr", lis.Addr().String(),
		"env", cfg.Env,
		"driver", cfg.Database.Driver,
	)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error

		switch cfg.Env {
		case config.EnvProd:
			err = server.ServeTLS(lis, cfg.HTTPServer.CertFile, cfg.HTTPServer.KeyFile)
		default:
			err = server.Serve(lis)
		}

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("%s: server error occurred: %w", op, err)
		}

		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		logger.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: failed to shutdown server: %w", op, err)
		}

		return nil
	})

	return g.Wait()
}
