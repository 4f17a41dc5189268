package network

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"sp500-dashboard/src/logger"
	"sp500-dashboard/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(retries int) *models.MConfig {
	return &models.MConfig{
		Network: models.MNetworkConfig{
			RequestTimeout: 5,
			MaxRetries:     retries,
			UserAgent:      "dashboard-test/1.0",
		},
	}
}

func newTestManager(retries int) *AsyncNetworkManager {
	nm := NewAsyncNetworkManager(testConfig(retries), logger.NewLogger("NetworkTest"))
	nm.backoff = time.Millisecond
	return nm
}

func TestGetSendsParamsAndUserAgent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1y", r.URL.Query().Get("range"))
		assert.Equal(t, "dashboard-test/1.0", r.UserAgent())
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	body, err := newTestManager(0).Get(context.Background(), srv.URL, map[string]string{"range": "1y"})
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))
}

func TestGetRetriesOnBadStatus(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte("recovered"))
	}))
	defer srv.Close()

	body, err := newTestManager(2).Get(context.Background(), srv.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, "recovered", string(body))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestGetGivesUpAfterRetries(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newTestManager(1).Get(context.Background(), srv.URL, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad status: 404")
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestGetHonoursCancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("late"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestManager(0).Get(ctx, srv.URL, nil)
	assert.Error(t, err)
}
