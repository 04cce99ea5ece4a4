package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// <namespace>_<subsystem>_<metric>_<unit>

// Metrics holds the collectors of one server. Each server owns its registry.
type Metrics struct {
	Registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	loginAttemptsTotal  *prometheus.CounterVec
}

// NewMetrics creates and registers the collectors under the given namespace.
func NewMetrics(namespace string) *Metrics {
	namespace = metricNamespace(namespace)

	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests processed.",
			},
			[]string{"route", "method", "status"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Histogram of HTTP request duration.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route", "method"},
		),
		loginAttemptsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "login_attempts_total",
				Help:      "Total number of login attempts by result.",
			},
			[]string{"result"},
		),
	}

	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.loginAttemptsTotal,
	)

	return m
}

// Middleware records count and duration of every request by route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}

		duration := time.Since(start).Seconds()
		status := statusClass(c.Writer.Status())

		m.httpRequestsTotal.WithLabelValues(route, c.Request.Method, status).Inc()
		m.httpRequestDuration.WithLabelValues(route, c.Request.Method).Observe(duration)
	}
}

// ObserveLogin counts a login attempt. A nil Metrics is a no-op.
func (m *Metrics) ObserveLogin(success bool) {
	if m == nil {
		return
	}

	result := "failure"
	if success {
		result = "success"
	}

	m.loginAttemptsTotal.WithLabelValues(result).Inc()
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

func statusClass(code int) string {
	if code < 100 || code > 599 {
		return "5xx"
	}

	return strconv.Itoa(code/100) + "xx"
}

// metricNamespace turns a display name like "abc Bank" into "abc_bank".
func metricNamespace(name string) string {
	var b strings.Builder

	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}

	s := b.String()

	switch {
	case s == "":
		return "ledger"
	case s[0] >= '0' && s[0] <= '9':
		return "ledger_" + s
	}

	return s
}
