package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveFetchCountsByStatus(t *testing.T) {
	m := NewMetrics()

	m.ObserveFetch("yahoo", time.Now(), nil)
	m.ObserveFetch("yahoo", time.Now(), nil)
	m.ObserveFetch("yahoo", time.Now(), errors.New("timeout"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.fetchTotal.WithLabelValues("yahoo", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.fetchTotal.WithLabelValues("yahoo", "error")))
}

func TestSessionsGauge(t *testing.T) {
	m := NewMetrics()
	m.SessionOpened()
	m.SessionOpened()
	m.SessionClosed()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.sessionsActive))
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveFetch("wikipedia", time.Now(), nil)
		m.CatalogCacheResult("hit")
		m.SessionOpened()
		m.SessionClosed()
	})
}

func TestMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := NewMetrics()

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/api/symbols", func(c *gin.Context) { c.JSON(http.StatusOK, []string{"AAPL"}) })
	r.GET("/metrics", gin.WrapH(m.Handler()))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/symbols", nil))
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequestTotal.WithLabelValues("GET", "/api/symbols", "200")))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, w.Body.String(), "dashboard_http_requests_total")
}
