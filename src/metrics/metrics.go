package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the dashboard's Prometheus collectors. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	fetchTotal       *prometheus.CounterVec
	fetchDuration    *prometheus.HistogramVec
	catalogCache     *prometheus.CounterVec
	sessionsActive   prometheus.Gauge
	httpRequestTotal *prometheus.CounterVec
}

// -----------------------------------------------------------------------------

// NewMetrics creates the collectors on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		fetchTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dashboard_fetch_total",
				Help: "Total number of upstream fetches",
			},
			[]string{"source", "status"},
		),
		fetchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dashboard_fetch_duration_seconds",
				Help:    "Upstream fetch duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"source"},
		),
		catalogCache: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dashboard_catalog_cache_total",
				Help: "Catalog cache lookups by result",
			},
			[]string{"result"},
		),
		sessionsActive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "dashboard_sessions_active",
				Help: "Number of open dashboard sessions",
			},
		),
		httpRequestTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dashboard_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
	}

	m.registry.MustRegister(
		m.fetchTotal,
		m.fetchDuration,
		m.catalogCache,
		m.sessionsActive,
		m.httpRequestTotal,
		collectors.NewGoCollector(),
	)

	return m
}

// -----------------------------------------------------------------------------

// ObserveFetch records one upstream call.
func (m *Metrics) ObserveFetch(source string, start time.Time, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.fetchTotal.WithLabelValues(source, status).Inc()
	m.fetchDuration.WithLabelValues(source).Observe(time.Since(start).Seconds())
}

// -----------------------------------------------------------------------------

// CatalogCacheResult counts a cache lookup ("hit", "miss" or "error").
func (m *Metrics) CatalogCacheResult(result string) {
	if m == nil {
		return
	}
	m.catalogCache.WithLabelValues(result).Inc()
}

// -----------------------------------------------------------------------------

func (m *Metrics) SessionOpened() {
	if m == nil {
		return
	}
	m.sessionsActive.Inc()
}

func (m *Metrics) SessionClosed() {
	if m == nil {
		return
	}
	m.sessionsActive.Dec()
}

// -----------------------------------------------------------------------------

// Middleware counts requests by route template.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if m == nil {
			return
		}

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.httpRequestTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

// -----------------------------------------------------------------------------

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// -----------------------------------------------------------------------------

// Registry is exposed for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
