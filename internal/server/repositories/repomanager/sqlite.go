package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/plms/internal/dbx"
	"github.com/dmitrijs2005/plms/internal/server/migrations"
	"github.com/dmitrijs2005/plms/internal/server/repositories/tools"
	"github.com/dmitrijs2005/plms/internal/server/repositories/users"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

const sqliteDriver = "sqlite"

// SQLiteRepositoryManager backs local development and tests. Passwords are
// verified in-process with bcrypt.
type SQLiteRepositoryManager struct{}

func NewSQLiteRepositoryManager() *SQLiteRepositoryManager {
	return &SQLiteRepositoryManager{}
}

func (m *SQLiteRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewSQLiteRepository(db)
}

func (m *SQLiteRepositoryManager) Tools(db dbx.DBTX) tools.Repository {
	return tools.NewSQLRepository(db)
}

// RunMigrations applies the embedded sqlite/ migrations.
func (m *SQLiteRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.SQLite)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, "sqlite")
}
