package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/plms/internal/common"
	"github.com/dmitrijs2005/plms/internal/dbx"
	"github.com/dmitrijs2005/plms/internal/server/models"
	"github.com/dmitrijs2005/plms/internal/server/repositories/tools"
	"github.com/dmitrijs2005/plms/internal/server/repositories/users"
)

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

// fakeUsersRepo records the order of calls so tests can check that lookup
// precedes verification.
type fakeUsersRepo struct {
	getOut *models.User
	getErr error

	verifyOK  bool
	verifyErr error

	calls []string
}

func (f *fakeUsersRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	f.calls = append(f.calls, "create")
	return u, nil
}

func (f *fakeUsersRepo) GetActiveUserByName(_ context.Context, name string) (*models.User, error) {
	f.calls = append(f.calls, "lookup:"+name)
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeUsersRepo) VerifyPassword(_ context.Context, candidate, hash string) (bool, error) {
	f.calls = append(f.calls, "verify")
	return f.verifyOK, f.verifyErr
}

type fakeToolsRepo struct {
	tools map[string]*models.Tool

	listErr   error
	countErr  error
	createErr error
	getErr    error
	setErr    error
	existsErr error

	// missing is returned by MissingReference.
	missing string

	listArgs [2]int
	created  *models.NewTool
	setKey   string
}

func (f *fakeToolsRepo) List(_ context.Context, limit, offset int) ([]models.Tool, error) {
	f.listArgs = [2]int{limit, offset}
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]models.Tool, 0, len(f.tools))
	for _, t := range f.tools {
		out = append(out, *t)
	}
	return out, nil
}

func (f *fakeToolsRepo) Count(context.Context) (int, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	return len(f.tools), nil
}

func (f *fakeToolsRepo) Get(_ context.Context, id string) (*models.Tool, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	t, ok := f.tools[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return t, nil
}

func (f *fakeToolsRepo) Create(_ context.Context, id string, in models.NewTool, now time.Time) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = &in
	if f.tools == nil {
		f.tools = map[string]*models.Tool{}
	}
	f.tools[id] = &models.Tool{
		ID: id, Number: in.Number, Designation: in.Designation,
		Category: models.ParseToolCategory(in.Category), StatusID: in.StatusID,
		Status: models.ParseToolStatus(in.StatusID), CreatedAt: now, UpdatedAt: now,
	}
	return nil
}

func (f *fakeToolsRepo) NumberExists(_ context.Context, number string) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	for _, t := range f.tools {
		if t.Number == number {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeToolsRepo) MissingReference(context.Context, models.NewTool) (string, error) {
	return f.missing, nil
}

func (f *fakeToolsRepo) SetDocumentKey(_ context.Context, id, key string, now time.Time) error {
	if f.setErr != nil {
		return f.setErr
	}
	t, ok := f.tools[id]
	if !ok {
		return common.ErrorNotFound
	}
	f.setKey = key
	t.DocumentKey, t.HasDocument, t.UpdatedAt = key, true, now
	return nil
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	t *fakeToolsRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository             { return m.u }
func (m *fakeRepoManager) Tools(dbx.DBTX) tools.Repository             { return m.t }
