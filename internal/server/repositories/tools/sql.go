package tools

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/plms/internal/common"
	"github.com/dmitrijs2005/plms/internal/dbx"
	"github.com/dmitrijs2005/plms/internal/server/models"
)

// SQLRepository works unchanged on PostgreSQL and SQLite.
type SQLRepository struct {
	db dbx.DBTX
}

func NewSQLRepository(db dbx.DBTX) *SQLRepository {
	return &SQLRepository{db: db}
}

const selectTools = `SELECT t.id, t.tool_number, t.designation, t.category,
		t.tool_type_id, tt.name, t.status_id, ts.name, t.assigned_user_id, u.name,
		t.application, t.order_number, t.length_mm, t.width_mm, t.height_mm,
		t.main_material, t.demand_quantity, t.price_estimate_eur, t.units_sold, t.stock,
		t.document_key, t.created_at, t.updated_at
	FROM tools t
	LEFT JOIN tool_types tt ON tt.id = t.tool_type_id
	LEFT JOIN tool_statuses ts ON ts.id = t.status_id
	LEFT JOIN users u ON u.id = t.assigned_user_id`

type scanner interface {
	Scan(dest ...any) error
}

func scanTool(s scanner) (*models.Tool, error) {
	var (
		t                                      models.Tool
		category, application, orderNumber     sql.NullString
		typeID, typeName, statusID, statusName sql.NullString
		userID, userName, material, docKey     sql.NullString
		length, width, height, price           sql.NullFloat64
		demand                                 sql.NullInt64
	)

	err := s.Scan(&t.ID, &t.Number, &t.Designation, &category,
		&typeID, &typeName, &statusID, &statusName, &userID, &userName,
		&application, &orderNumber, &length, &width, &height,
		&material, &demand, &price, &t.UnitsSold, &t.Stock,
		&docKey, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}

	t.Category = models.ParseToolCategory(category.String)
	t.Type = ref(typeID, typeName)
	t.StatusID = statusID.String
	t.Status = models.StatusUnknown
	if statusID.Valid {
		// Status rows are keyed by code; fall back to the display name.
		if t.Status = models.ParseToolStatus(statusID.String); t.Status == models.StatusUnknown {
			t.Status = models.ParseToolStatus(statusName.String)
		}
	}
	t.AssignedUser = ref(userID, userName)
	t.Application = application.String
	t.OrderNumber = orderNumber.String
	t.LengthMM = float(length)
	t.WidthMM = float(width)
	t.HeightMM = float(height)
	t.MainMaterial = material.String
	if demand.Valid {
		t.DemandQuantity = &demand.Int64
	}
	t.PriceEstimateEUR = float(price)
	t.DocumentKey = docKey.String
	t.HasDocument = docKey.String != ""

	return &t, nil
}

func (r *SQLRepository) List(ctx context.Context, limit, offset int) ([]models.Tool, error) {
	query := selectTools + `
	ORDER BY t.updated_at DESC, t.id
	LIMIT $1 OFFSET $2`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Tool, 0, limit)
	for rows.Next() {
		t, err := scanTool(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *SQLRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tools`).Scan(&n); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

func (r *SQLRepository) Get(ctx context.Context, id string) (*models.Tool, error) {
	query := selectTools + `
	WHERE t.id = $1`

	t, err := scanTool(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return t, nil
}

func (r *SQLRepository) Create(ctx context.Context, id string, t models.NewTool, now time.Time) error {
	query :=
		`INSERT INTO tools (id, tool_number, designation, category, tool_type_id, status_id,
			assigned_user_id, application, order_number, length_mm, width_mm, height_mm,
			main_material, demand_quantity, price_estimate_eur, units_sold, stock,
			created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
		 `

	_, err := r.db.ExecContext(ctx, query,
		id, t.Number, t.Designation, nullString(t.Category), nullString(t.TypeID), nullString(t.StatusID),
		nullString(t.AssignedUserID), nullString(t.Application), nullString(t.OrderNumber),
		t.LengthMM, t.WidthMM, t.HeightMM,
		nullString(t.MainMaterial), t.DemandQuantity, t.PriceEstimateEUR, t.UnitsSold, t.Stock,
		now, now)
	if err != nil {
		return constraintError(err)
	}
	return nil
}

func (r *SQLRepository) NumberExists(ctx context.Context, number string) (bool, error) {
	return r.exists(ctx, `SELECT 1 FROM tools WHERE tool_number = $1`, number)
}

// MissingReference names the first of type_id, status_id and
// assigned_user_id that is set but has no matching row. It returns "" when
// every set reference resolves.
func (r *SQLRepository) MissingReference(ctx context.Context, t models.NewTool) (string, error) {
	checks := []struct {
		field, query, id string
	}{
		{"type_id", `SELECT 1 FROM tool_types WHERE id = $1`, t.TypeID},
		{"status_id", `SELECT 1 FROM tool_statuses WHERE id = $1`, t.StatusID},
		{"assigned_user_id", `SELECT 1 FROM users WHERE id = $1`, t.AssignedUserID},
	}
	for _, c := range checks {
		if c.id == "" {
			continue
		}
		ok, err := r.exists(ctx, c.query, c.id)
		if err != nil {
			return "", err
		}
		if !ok {
			return c.field, nil
		}
	}
	return "", nil
}

func (r *SQLRepository) exists(ctx context.Context, query string, arg any) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, query, arg).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return true, nil
}

func (r *SQLRepository) SetDocumentKey(ctx context.Context, id, key string, now time.Time) error {
	query := `UPDATE tools SET document_key = $1, updated_at = $2 WHERE id = $3`

	res, err := r.db.ExecContext(ctx, query, key, now, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func ref(id, name sql.NullString) *models.Ref {
	if !id.Valid {
		return nil
	}
	return &models.Ref{ID: id.String, Name: name.String}
}

func float(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return &v.Float64
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
