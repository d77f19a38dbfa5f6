package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorders(t *testing.T) {
	m := New()

	m.RecordLogin(LoginSuccess)
	m.RecordLogin(LoginUnauthorized)
	m.RecordLogin(LoginUnauthorized)
	m.RecordSessionCheck(true)
	m.RecordSessionCheck(false)
	m.RecordHTTPRequest("GET", "/api/auth/me", 401, 3*time.Millisecond)
	m.SetDatabaseUp(true)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.loginAttemptsTotal.WithLabelValues(LoginSuccess)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.loginAttemptsTotal.WithLabelValues(LoginUnauthorized)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sessionChecksTotal.WithLabelValues("invalid")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET", "/api/auth/me", "401")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.dbUp))

	m.SetDatabaseUp(false)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.dbUp))
}

func TestHandler_Exposes(t *testing.T) {
	m := New()
	m.RecordLogin(LoginInvalid)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, string(body), `plms_login_attempts_total{result="invalid"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}

func TestNilMetrics_NoOp(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordLogin(LoginSuccess)
		m.RecordSessionCheck(true)
		m.RecordHTTPRequest("GET", "/", 200, time.Millisecond)
		m.SetDatabaseUp(true)
		m.Handler()
	})
}
