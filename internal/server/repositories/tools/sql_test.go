package tools

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/dmitrijs2005/plms/internal/common"
	"github.com/dmitrijs2005/plms/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var toolColumns = []string{
	"id", "tool_number", "designation", "category",
	"tool_type_id", "tt_name", "status_id", "ts_name", "assigned_user_id", "u_name",
	"application", "order_number", "length_mm", "width_mm", "height_mm",
	"main_material", "demand_quantity", "price_estimate_eur", "units_sold", "stock",
	"document_key", "created_at", "updated_at",
}

var (
	t0 = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	t1 = t0.Add(time.Hour)
)

func newRepoWithMock(t *testing.T) (*SQLRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewSQLRepository(db), mock, db
}

func fullRow() []driver.Value {
	return []driver.Value{
		"t-1", "WZ-0001", "Drehmomentschlüssel", "mechanical",
		"ty-1", "Schlüssel", "in_use", "In Verwendung", "u-1", "tech1",
		"Radmontage", "B-77", 120.5, 30.0, 10.0,
		"Stahl", int64(4), 199.99, int64(12), int64(3),
		"tools/t-1/doc", t0, t1,
	}
}

func sparseRow(id string, updated time.Time) []driver.Value {
	return []driver.Value{
		id, "WZ-" + id, "Prüfadapter", nil,
		nil, nil, nil, nil, nil, nil,
		nil, nil, nil, nil, nil,
		nil, nil, nil, int64(0), int64(0),
		nil, t0, updated,
	}
}

func TestList_MapsRows(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows(toolColumns).AddRow(fullRow()...).AddRow(sparseRow("t-2", t0)...)
	mock.ExpectQuery(`(?s)^SELECT .* FROM tools t .* ORDER BY t\.updated_at DESC, t\.id\s+LIMIT \$1 OFFSET \$2$`).
		WithArgs(50, 0).
		WillReturnRows(rows)

	got, err := repo.List(context.Background(), 50, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)

	full := got[0]
	assert.Equal(t, "WZ-0001", full.Number)
	assert.Equal(t, models.CategoryMechanical, full.Category)
	assert.Equal(t, &models.Ref{ID: "ty-1", Name: "Schlüssel"}, full.Type)
	assert.Equal(t, models.StatusInUse, full.Status)
	assert.Equal(t, &models.Ref{ID: "u-1", Name: "tech1"}, full.AssignedUser)
	require.NotNil(t, full.LengthMM)
	assert.Equal(t, 120.5, *full.LengthMM)
	require.NotNil(t, full.DemandQuantity)
	assert.Equal(t, int64(4), *full.DemandQuantity)
	assert.Equal(t, int64(3), full.Stock)
	assert.True(t, full.HasDocument)
	assert.Equal(t, t1, full.UpdatedAt)

	sparse := got[1]
	assert.Equal(t, models.CategoryUnknown, sparse.Category)
	assert.Equal(t, models.StatusUnknown, sparse.Status)
	assert.Nil(t, sparse.Type)
	assert.Nil(t, sparse.AssignedUser)
	assert.Nil(t, sparse.LengthMM)
	assert.False(t, sparse.HasDocument)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestList_StatusFromDisplayName(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	row := sparseRow("t-3", t0)
	row[6], row[7] = "st-legacy", "Wartung"
	mock.ExpectQuery(`SELECT`).WillReturnRows(sqlmock.NewRows(toolColumns).AddRow(row...))

	got, err := repo.List(context.Background(), 10, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, models.StatusMaintenance, got[0].Status)
	assert.Equal(t, "st-legacy", got[0].StatusID)
}

func TestList_Empty(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT`).WithArgs(20, 40).WillReturnRows(sqlmock.NewRows(toolColumns))

	got, err := repo.List(context.Background(), 20, 40)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestList_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT`).WillReturnError(errors.New("connection reset"))

	_, err := repo.List(context.Background(), 50, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db error")
}

func TestCount(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`^SELECT COUNT\(\*\) FROM tools$`).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	n, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, n)
}

func TestGet(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()

		mock.ExpectQuery(`WHERE t\.id = \$1$`).WithArgs("t-1").
			WillReturnRows(sqlmock.NewRows(toolColumns).AddRow(fullRow()...))

		got, err := repo.Get(context.Background(), "t-1")
		require.NoError(t, err)
		assert.Equal(t, "tools/t-1/doc", got.DocumentKey)
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()

		mock.ExpectQuery(`WHERE t\.id = \$1$`).WithArgs("nope").WillReturnRows(sqlmock.NewRows(toolColumns))

		_, err := repo.Get(context.Background(), "nope")
		require.ErrorIs(t, err, common.ErrorNotFound)
	})
}

func TestCreate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	length := 12.5
	mock.ExpectExec(`(?s)^INSERT INTO tools`).
		WithArgs("t-9", "WZ-9", "Multimeter", "electrical", nil, "available",
			nil, nil, nil,
			length, nil, nil,
			nil, nil, nil, int64(0), int64(5),
			t0, t0).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), "t-9", models.NewTool{
		Number: "WZ-9", Designation: "Multimeter", Category: "electrical", StatusID: "available",
		LengthMM: &length, Stock: 5,
	}, t0)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_ConstraintViolations(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"duplicate number", &pgconn.PgError{Code: "23505", ConstraintName: "tools_tool_number_key"}, common.ErrorAlreadyExists},
		{"dangling reference", &pgconn.PgError{Code: "23503", ConstraintName: "tools_tool_type_id_fkey"}, common.ErrorValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, db := newRepoWithMock(t)
			defer db.Close()

			mock.ExpectExec(`(?s)^INSERT INTO tools`).WillReturnError(tt.err)

			err := repo.Create(context.Background(), "t-9", models.NewTool{Number: "WZ-9", Designation: "x"}, t0)
			require.ErrorIs(t, err, tt.want)
		})
	}

	t.Run("other errors stay db errors", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()

		mock.ExpectExec(`(?s)^INSERT INTO tools`).WillReturnError(&pgconn.PgError{Code: "57014"})

		err := repo.Create(context.Background(), "t-9", models.NewTool{Number: "WZ-9", Designation: "x"}, t0)
		require.Error(t, err)
		assert.NotErrorIs(t, err, common.ErrorValidation)
		assert.NotErrorIs(t, err, common.ErrorAlreadyExists)
		assert.Contains(t, err.Error(), "db error")
	})
}

func TestNumberExists(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`^SELECT 1 FROM tools WHERE tool_number = \$1$`).WithArgs("WZ-1").
		WillReturnRows(sqlmock.NewRows([]string{"one"}).AddRow(1))
	mock.ExpectQuery(`^SELECT 1 FROM tools`).WithArgs("WZ-2").
		WillReturnRows(sqlmock.NewRows([]string{"one"}))
	mock.ExpectQuery(`^SELECT 1 FROM tools`).WithArgs("WZ-3").
		WillReturnError(errors.New("conn reset"))

	ok, err := repo.NumberExists(context.Background(), "WZ-1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.NumberExists(context.Background(), "WZ-2")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = repo.NumberExists(context.Background(), "WZ-3")
	require.ErrorContains(t, err, "db error")
}

func TestMissingReference(t *testing.T) {
	t.Run("first unknown reference wins", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()

		mock.ExpectQuery(`^SELECT 1 FROM tool_types WHERE id = \$1$`).WithArgs("ty-1").
			WillReturnRows(sqlmock.NewRows([]string{"one"}).AddRow(1))
		mock.ExpectQuery(`^SELECT 1 FROM tool_statuses WHERE id = \$1$`).WithArgs("available").
			WillReturnRows(sqlmock.NewRows([]string{"one"}).AddRow(1))
		mock.ExpectQuery(`^SELECT 1 FROM users WHERE id = \$1$`).WithArgs("ghost").
			WillReturnRows(sqlmock.NewRows([]string{"one"}))

		field, err := repo.MissingReference(context.Background(), models.NewTool{
			TypeID: "ty-1", StatusID: "available", AssignedUserID: "ghost",
		})
		require.NoError(t, err)
		assert.Equal(t, "assigned_user_id", field)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unset references are skipped", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()

		field, err := repo.MissingReference(context.Background(), models.NewTool{})
		require.NoError(t, err)
		assert.Empty(t, field)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("db error", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()

		mock.ExpectQuery(`^SELECT 1 FROM tool_types`).WillReturnError(errors.New("conn reset"))

		_, err := repo.MissingReference(context.Background(), models.NewTool{TypeID: "ty-1"})
		require.ErrorContains(t, err, "db error")
	})
}

func TestSetDocumentKey(t *testing.T) {
	t.Run("updated", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()

		mock.ExpectExec(`^UPDATE tools SET document_key = \$1, updated_at = \$2 WHERE id = \$3$`).
			WithArgs("tools/t-1/x", t1, "t-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.SetDocumentKey(context.Background(), "t-1", "tools/t-1/x", t1))
	})

	t.Run("unknown tool", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()

		mock.ExpectExec(`^UPDATE tools`).WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.SetDocumentKey(context.Background(), "nope", "k", t1)
		require.ErrorIs(t, err, common.ErrorNotFound)
	})
}
