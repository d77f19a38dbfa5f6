// Package repomanager vends dialect-specific repositories and runs the
// embedded schema migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/dmitrijs2005/plms/internal/dbx"
	"github.com/dmitrijs2005/plms/internal/server/repositories/tools"
	"github.com/dmitrijs2005/plms/internal/server/repositories/users"
	"github.com/pressly/goose/v3"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Tools(db dbx.DBTX) tools.Repository
}

const sqliteScheme = "sqlite://"

var ErrUnsupportedDSN = errors.New("unsupported database DSN")

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// Open picks the driver from the DSN scheme, connects and returns the
// matching manager. postgres:// and postgresql:// go to pgx, sqlite://path
// goes to modernc's pure-Go SQLite.
func Open(ctx context.Context, dsn string, timeout time.Duration) (*sql.DB, RepositoryManager, error) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		db, err := dbx.Open(ctx, postgresDriver, dsn, timeout)
		if err != nil {
			return nil, nil, err
		}
		return db, NewPostgresRepositoryManager(), nil

	case strings.HasPrefix(dsn, sqliteScheme):
		db, err := dbx.Open(ctx, sqliteDriver, sqliteName(strings.TrimPrefix(dsn, sqliteScheme)), timeout)
		if err != nil {
			return nil, nil, err
		}
		// A single connection keeps :memory: databases shared and
		// serializes writers.
		db.SetMaxOpenConns(1)
		return db, NewSQLiteRepositoryManager(), nil
	}

	return nil, nil, ErrUnsupportedDSN
}

// sqliteName turns foreign-key enforcement on for every connection; SQLite
// leaves it off by default.
func sqliteName(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=foreign_keys(1)"
}
