package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/plms/internal/dbx"
	"github.com/dmitrijs2005/plms/internal/server/migrations"
	"github.com/dmitrijs2005/plms/internal/server/repositories/tools"
	"github.com/dmitrijs2005/plms/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

const postgresDriver = "pgx"

// PostgresRepositoryManager vends PostgreSQL-backed repositories. Password
// checks run inside the database.
type PostgresRepositoryManager struct{}

func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}

func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Tools(db dbx.DBTX) tools.Repository {
	return tools.NewSQLRepository(db)
}

// RunMigrations applies the embedded postgres/ migrations.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Postgres)
	if err := goose.SetDialect("postgres"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, "postgres")
}
