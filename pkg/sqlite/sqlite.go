// Package sqlite opens sqlx handles on top of the mattn/go-sqlite3 driver
// and applies schema migrations to them.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jmoiron/sqlx"

	sqlite3migrate "github.com/golang-migrate/migrate/v4/database/sqlite3"
	sqlite3 "github.com/mattn/go-sqlite3"
)

// DriverName is the database/sql driver registered by this package. It is the
// stock sqlite3 driver with lower() replaced by a Unicode-aware version, so
// LOWER(column) folds the same way as strings.ToLower.
const DriverName = "sqlite3_unicode"

func init() {
	sql.Register(DriverName, &sqlite3.SQLiteDriver{
		ConnectHook: registerFuncs,
	})
	sqlx.BindDriver(DriverName, sqlx.QUESTION)
}

func registerFuncs(conn *sqlite3.SQLiteConn) error {
	if err := conn.RegisterFunc("lower", strings.ToLower, true); err != nil {
		return fmt.Errorf("failed to register lower: %w", err)
	}
	return nil
}

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

const dsnParams = "?_busy_timeout=5000&_journal_mode=WAL"

// New opens the SQLite database stored at path and verifies the connection.
//
// The pool is limited to a single connection: SQLite serializes writers anyway,
// and an in-memory database only lives as long as its connection.
func New(ctx context.Context, path string) (*sqlx.DB, error) {
	const op = "sqlite.New"

	db, err := sqlx.ConnectContext(ctx, DriverName, path+dsnParams)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to connect to database: %w", op, err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	return db, nil
}

// RunMigrations applies all pending migrations found in dir of fsys to db.
func RunMigrations(db *sqlx.DB, fsys fs.FS, dir string) error {
	const op = "sqlite.RunMigrations"

	m, src, err := newMigrate(db, fsys, dir)
	if err != nil {
		return fmt.Errorf("%s: failed to initialize migrations: %w", op, err)
	}
	// m.Close would close db as well, only the source is released here.
	defer src.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("%s: failed to run migrations: %w", op, err)
	}

	return nil
}

// RollbackMigrations reverts every applied migration found in dir of fsys.
func RollbackMigrations(db *sqlx.DB, fsys fs.FS, dir string) error {
	const op = "sqlite.RollbackMigrations"

	m, src, err := newMigrate(db, fsys, dir)
	if err != nil {
		return fmt.Errorf("%s: failed to initialize migrations: %w", op, err)
	}
	defer src.Close()

	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("%s: failed to rollback migrations: %w", op, err)
	}

	return nil
}

func newMigrate(db *sqlx.DB, fsys fs.FS, dir string) (*migrate.Migrate, source.Driver, error) {
	src, err := iofs.New(fsys, dir)
	if err != nil {
		return nil, nil, err
	}

	driver, err := sqlite3migrate.WithInstance(db.DB, &sqlite3migrate.Config{})
	if err != nil {
		src.Close()
		return nil, nil, err
	}

	m, err := migrate.NewWithInstance("iofs", src, DriverName, driver)
	if err != nil {
		src.Close()
		return nil, nil, err
	}

	return m, src, nil
}
