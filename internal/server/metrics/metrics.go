// Package metrics provides Prometheus metrics for the PLMS server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Login outcomes.
const (
	LoginSuccess      = "success"
	LoginInvalid      = "invalid"
	LoginUnauthorized = "unauthorized"
	LoginError        = "error"
)

// Metrics holds the server's collectors on a private registry. A nil
// *Metrics is a valid no-op.
type Metrics struct {
	registry *prometheus.Registry

	loginAttemptsTotal  *prometheus.CounterVec
	sessionChecksTotal  *prometheus.CounterVec
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	dbUp                prometheus.Gauge
}

// New creates and registers the collectors, plus the Go runtime and process
// collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	f := promauto.With(reg)
	return &Metrics{
		registry: reg,

		loginAttemptsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "plms_login_attempts_total",
			Help: "Login attempts by result.",
		}, []string{"result"}),

		sessionChecksTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "plms_session_checks_total",
			Help: "Session cookie checks by result.",
		}, []string{"result"}),

		httpRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "plms_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),

		httpRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "plms_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),

		dbUp: f.NewGauge(prometheus.GaugeOpts{
			Name: "plms_database_up",
			Help: "Whether the last database ping succeeded (0 or 1).",
		}),
	}
}

func (m *Metrics) RecordLogin(result string) {
	if m == nil {
		return
	}
	m.loginAttemptsTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) RecordSessionCheck(valid bool) {
	if m == nil {
		return
	}
	result := "invalid"
	if valid {
		result = "valid"
	}
	m.sessionChecksTotal.WithLabelValues(result).Inc()
}

func (m *Metrics) RecordHTTPRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (m *Metrics) SetDatabaseUp(up bool) {
	if m == nil {
		return
	}
	if up {
		m.dbUp.Set(1)
	} else {
		m.dbUp.Set(0)
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.HandlerFor(prometheus.NewRegistry(), promhttp.HandlerOpts{})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
