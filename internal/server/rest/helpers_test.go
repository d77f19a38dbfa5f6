package rest

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/plms/internal/cryptox"
	"github.com/dmitrijs2005/plms/internal/dbx"
	"github.com/dmitrijs2005/plms/internal/logging"
	"github.com/dmitrijs2005/plms/internal/server/auth"
	"github.com/dmitrijs2005/plms/internal/server/config"
	"github.com/dmitrijs2005/plms/internal/server/metrics"
	"github.com/dmitrijs2005/plms/internal/server/models"
	"github.com/dmitrijs2005/plms/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/plms/internal/server/repositories/tools"
	"github.com/dmitrijs2005/plms/internal/server/repositories/users"
	"github.com/dmitrijs2005/plms/internal/server/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	server *Server
	codec  *auth.Codec
	db     *sql.DB
	rm     repomanager.RepositoryManager
}

func newTestEnv(t *testing.T, db *sql.DB, rm repomanager.RepositoryManager, secure bool) *testEnv {
	t.Helper()
	codec, err := auth.NewCodec([]byte(testSecret), 0)
	require.NoError(t, err)

	log := logging.Nop()
	// Presigning is local; nothing listens on the endpoint.
	cfg := &config.Config{
		S3Bucket: "plms-documents", S3Region: "us-east-1",
		S3RootUser: "minio", S3RootPassword: "minio-secret", S3BaseEndpoint: "http://127.0.0.1:9000",
	}
	s := NewServer("127.0.0.1:0", log,
		services.NewAuthService(db, rm, codec, log),
		services.NewToolService(db, rm, log),
		services.NewDocumentService(db, rm, cfg, log),
		metrics.New(), secure)

	return &testEnv{server: s, codec: codec, db: db, rm: rm}
}

// newSQLiteEnv returns an env over a migrated in-memory store seeded with
// tech1/correctpw (technician) and viewer/viewerpw (user).
func newSQLiteEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	db, rm, err := repomanager.Open(ctx, "sqlite://:memory:", time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, rm.RunMigrations(ctx, db))

	for _, u := range []struct {
		name, pw string
		role     models.Role
	}{
		{"tech1", "correctpw", models.RoleTechnician},
		{"viewer", "viewerpw", models.RoleUser},
	} {
		hash, err := cryptox.HashPassword([]byte(u.pw), cryptox.DefaultCost)
		require.NoError(t, err)
		_, err = rm.Users(db).Create(ctx, &models.User{
			Name: u.name, PasswordHash: hash, Email: u.name + "@example.com", Role: u.role, Active: true,
		})
		require.NoError(t, err)
	}

	return newTestEnv(t, db, rm, false)
}

func (e *testEnv) do(t *testing.T, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) sessionCookie(t *testing.T, claims auth.Claims) *http.Cookie {
	t.Helper()
	token, err := e.codec.Encode(claims)
	require.NoError(t, err)
	return &http.Cookie{Name: "auth-token", Value: token}
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func setCookieHeader(rec *httptest.ResponseRecorder) string {
	for _, h := range rec.Header().Values("Set-Cookie") {
		if strings.HasPrefix(h, "auth-token=") {
			return h
		}
	}
	return ""
}

// countingUsers counts store access.
type countingUsers struct {
	user      *models.User
	getErr    error
	verifyOK  bool
	verifyErr error
	calls     int
}

func (c *countingUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	c.calls++
	return u, nil
}

func (c *countingUsers) GetActiveUserByName(context.Context, string) (*models.User, error) {
	c.calls++
	if c.getErr != nil {
		return nil, c.getErr
	}
	return c.user, nil
}

func (c *countingUsers) VerifyPassword(context.Context, string, string) (bool, error) {
	c.calls++
	return c.verifyOK, c.verifyErr
}

type fakeManager struct {
	users users.Repository
	tools tools.Repository
}

func (m *fakeManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeManager) Users(dbx.DBTX) users.Repository             { return m.users }
func (m *fakeManager) Tools(dbx.DBTX) tools.Repository             { return m.tools }
