package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/plms/internal/common"
	"github.com/dmitrijs2005/plms/internal/cryptox"
	"github.com/dmitrijs2005/plms/internal/dbx"
	"github.com/dmitrijs2005/plms/internal/server/models"
	"github.com/google/uuid"
)

// sqlRepository holds the queries both dialects share.
type sqlRepository struct {
	db dbx.DBTX
}

func (r *sqlRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	query :=
		`INSERT INTO users (id, name, password_hash, email, role, active, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 `

	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Name, user.PasswordHash, nullString(user.Email), string(user.Role), user.Active, user.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *sqlRepository) GetActiveUserByName(ctx context.Context, name string) (*models.User, error) {
	query :=
		`SELECT id, name, password_hash, email, role, active FROM users
		 WHERE name = $1 AND active = TRUE
		 `

	var (
		user  models.User
		email sql.NullString
		role  sql.NullString
	)
	err := r.db.QueryRowContext(ctx, query, name).Scan(&user.ID, &user.Name, &user.PasswordHash, &email, &role, &user.Active)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	user.Email = email.String
	user.Role = models.ParseRole(role.String)

	return &user, nil
}

// PostgresRepository delegates password checks to the verify_password
// database routine.
type PostgresRepository struct {
	sqlRepository
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{sqlRepository{db: db}}
}

func (r *PostgresRepository) VerifyPassword(ctx context.Context, candidate, hash string) (bool, error) {
	query := `SELECT verify_password($1, $2)`

	var ok sql.NullBool
	if err := r.db.QueryRowContext(ctx, query, candidate, hash).Scan(&ok); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return ok.Valid && ok.Bool, nil
}

// SQLiteRepository verifies passwords in process; SQLite has no stored
// routines. Hashes are the same bcrypt format pgcrypto produces.
type SQLiteRepository struct {
	sqlRepository
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{sqlRepository{db: db}}
}

func (r *SQLiteRepository) VerifyPassword(_ context.Context, candidate, hash string) (bool, error) {
	return cryptox.VerifyPassword([]byte(candidate), hash)
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
