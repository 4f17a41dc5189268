package server

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"sp500-dashboard/src/dashboard"
	"sp500-dashboard/src/helpers"
	"sp500-dashboard/src/metrics"
	"sp500-dashboard/src/models"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCatalog struct {
	catalog   *models.MCatalog
	refreshes int32
}

func (s *stubCatalog) Get(ctx context.Context) (*models.MCatalog, error) {
	return s.catalog, nil
}

func (s *stubCatalog) Refresh(ctx context.Context) (*models.MCatalog, error) {
	atomic.AddInt32(&s.refreshes, 1)
	return s.catalog, nil
}

type stubHistory struct{}

func (stubHistory) Name() string { return "stub" }

func (stubHistory) FetchHistory(ctx context.Context, symbol string, window models.MWindow) (*models.MPriceHistory, error) {
	switch symbol {
	case "DOWN":
		return nil, helpers.NewFetchError("stub", "upstream unavailable", nil)
	case "NEW":
		return &models.MPriceHistory{Symbol: symbol, Window: window}, nil
	case "SLOW":
		<-ctx.Done()
		return nil, helpers.NewFetchError("stub", "upstream timed out", ctx.Err())
	}
	loc := time.FixedZone("EST", -5*3600)
	return &models.MPriceHistory{
		Symbol:   symbol,
		Window:   window,
		Exchange: "NMS",
		Bars: []models.MPriceBar{
			{Date: time.Date(2024, 1, 2, 0, 0, 0, 0, loc), Open: 9, High: 10, Low: 5, Close: 9.5, Volume: 1500000},
			{Date: time.Date(2024, 1, 3, 0, 0, 0, 0, loc), Open: 11, High: 20, Low: 8, Close: 15, Volume: 300, Dividends: 0.5},
		},
	}, nil
}

func newTestServer(t *testing.T) (*DashboardServer, *stubCatalog) {
	t.Helper()
	catalog := &stubCatalog{catalog: &models.MCatalog{Rows: []models.MCatalogRow{
		{Symbol: "MMM", Security: "3M", Sector: "Industrials", Headquarters: "Saint Paul, Minnesota", Founded: "1902"},
		{Symbol: "AAPL", Security: "Apple Inc.", Sector: "Information Technology", Headquarters: "Cupertino, California", Founded: "1976"},
		{Symbol: "DOWN", Security: "Down Corp", Sector: "Utilities", Headquarters: "Nowhere", Founded: "2000"},
		{Symbol: "NEW", Security: "New Corp", Sector: "Utilities", Headquarters: "Nowhere", Founded: "2024"},
	}}}
	svc := dashboard.NewService(catalog, stubHistory{}, models.DefaultWindow())
	cfg := &models.MConfig{Name: "S&P 500 Dashboard", Host: "127.0.0.1", Port: 8501}
	srv := NewDashboardServer(cfg, svc, metrics.NewMetrics(), nil)
	return srv, catalog
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

// -----------------------------------------------------------------------------

func TestHealthAndConfig(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := get(t, srv.Handler(), "/api/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)

	rec = get(t, srv.Handler(), "/api/config")
	var body struct {
		Windows       []string `json:"windows"`
		DefaultWindow string   `json:"default_window"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []string{"2 days", "1 month", "6 months", "1 year", "5 years"}, body.Windows)
	assert.Equal(t, "1 year", body.DefaultWindow)
}

func TestSymbolsAndWindows(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := get(t, srv.Handler(), "/api/symbols")
	var body struct {
		Symbols []string `json:"symbols"`
		Count   int      `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, []string{"AAPL", "DOWN", "MMM", "NEW"}, body.Symbols)
	assert.Equal(t, 4, body.Count)

	rec = get(t, srv.Handler(), "/api/windows")
	var windows []models.MWindow
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &windows))
	assert.Equal(t, models.Windows, windows)
}

func TestCompanyEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := get(t, srv.Handler(), "/api/company/AAPL")
	require.Equal(t, http.StatusOK, rec.Code)
	var record models.MCompanyRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &record))
	founded, _ := record.Get(models.FieldFounded)
	assert.Equal(t, "1976", founded)

	rec = get(t, srv.Handler(), "/api/company/ZZZZ")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	var msg models.MErrorMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &msg))
	assert.Equal(t, "ERROR", msg.Type)
	assert.Equal(t, "selection_mismatch", msg.Error.Kind)
}

func TestSummaryChartAndView(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := get(t, srv.Handler(), "/api/summary/AAPL?window=6+months")
	require.Equal(t, http.StatusOK, rec.Code)
	var summary map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Equal(t, "6 months Range", summary["label"])
	assert.Equal(t, 20.0, summary["high"])
	assert.Equal(t, 5.0, summary["low"])

	rec = get(t, srv.Handler(), "/api/chart/AAPL")
	require.Equal(t, http.StatusOK, rec.Code)
	var chart map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &chart))
	assert.Equal(t, "1 year Trend", chart["heading"])
	assert.Equal(t, "Stock Closing Value by Day", chart["title"])

	rec = get(t, srv.Handler(), "/api/view/MMM?window=2+days")
	require.Equal(t, http.StatusOK, rec.Code)
	var view map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, "VIEW", view["type"])
	assert.Equal(t, "MMM", view["symbol"])
}

func TestViewErrorStatuses(t *testing.T) {
	srv, _ := newTestServer(t)

	cases := []struct {
		path string
		code int
		kind string
	}{
		{"/api/view/ZZZZ", http.StatusNotFound, "selection_mismatch"},
		{"/api/view/AAPL?window=10+years", http.StatusBadRequest, "configuration"},
		{"/api/view/DOWN", http.StatusBadGateway, "fetch"},
		{"/api/summary/NEW", http.StatusUnprocessableEntity, "empty_input"},
	}
	for _, tc := range cases {
		rec := get(t, srv.Handler(), tc.path)
		assert.Equal(t, tc.code, rec.Code, tc.path)
		var msg models.MErrorMessage
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &msg), tc.path)
		assert.Equal(t, tc.kind, msg.Error.Kind, tc.path)
	}
}

func TestDownloadServesCSVAttachment(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := get(t, srv.Handler(), "/api/download/AAPL?window=1+month")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="AAPL 1 month.csv"`, rec.Header().Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Type"), "text/csv"))

	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Date,Open,High,Low,Close,Volume,Dividends,Stock Splits", lines[0])
}

func TestCatalogRefresh(t *testing.T) {
	srv, catalog := newTestServer(t)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/catalog/refresh", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"symbols":4`)
	assert.Equal(t, int32(1), atomic.LoadInt32(&catalog.refreshes))
}

func TestIndexPage(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := get(t, srv.Handler(), "/")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Information for AAPL")
	assert.Contains(t, body, "1 year Summary")
	assert.Contains(t, body, "1 year Range")
	assert.Contains(t, body, "1,500,000")
	assert.Contains(t, body, "<th>Stock Splits Occurred</th><td>No</td>")
	assert.Contains(t, body, "Download Raw Data as CSV")
	assert.Contains(t, body, "1 year Trend")

	rec = get(t, srv.Handler(), "/?symbol=ZZZZ")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "is not an index member")
}

func TestPageFormatters(t *testing.T) {
	assert.Equal(t, "Yes", formatYesNo(true))
	assert.Equal(t, "No", formatYesNo(false))
	assert.Equal(t, "n/a", formatPrice(math.NaN()))
	assert.Equal(t, "1,234.50", formatPrice(1234.5))
}

func TestMetricsEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	get(t, srv.Handler(), "/api/health")
	rec := get(t, srv.Handler(), "/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `dashboard_http_requests_total{method="GET",path="/api/health",status="200"} 1`)
}

func TestCORSPreflight(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/symbols", nil)
	req.Header.Set("Origin", "http://127.0.0.1:3000")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://127.0.0.1:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}

// -----------------------------------------------------------------------------

func readMessage(t *testing.T, conn *websocket.Conn) map[string]interface{} {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var msg map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &msg))
	return msg
}

func TestWebSocketSession(t *testing.T) {
	srv, catalog := newTestServer(t)
	go srv.handleWebsockets()
	defer srv.Stop()

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	conn, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	defer conn.Close()

	msg := readMessage(t, conn)
	assert.Equal(t, "CATALOG", msg["type"])
	assert.Len(t, msg["symbols"], 4)

	msg = readMessage(t, conn)
	assert.Equal(t, "VIEW", msg["type"])
	assert.Equal(t, "AAPL", msg["symbol"])
	sessionID := msg["session_id"]
	assert.NotEmpty(t, sessionID)

	require.NoError(t, conn.WriteJSON(models.MSessionCommand{Command: "select_symbol", Symbol: "MMM"}))
	msg = readMessage(t, conn)
	assert.Equal(t, "VIEW", msg["type"])
	assert.Equal(t, "MMM", msg["symbol"])
	assert.Equal(t, sessionID, msg["session_id"])

	require.NoError(t, conn.WriteJSON(models.MSessionCommand{Command: "select_window", Window: "5 years"}))
	msg = readMessage(t, conn)
	assert.Equal(t, "MMM", msg["symbol"])
	summary := msg["summary"].(map[string]interface{})
	assert.Equal(t, "5 years Range", summary["label"])

	require.NoError(t, conn.WriteJSON(models.MSessionCommand{Command: "select_symbol", Symbol: "ZZZZ"}))
	msg = readMessage(t, conn)
	assert.Equal(t, "ERROR", msg["type"])
	assert.Equal(t, "selection_mismatch", msg["error"].(map[string]interface{})["kind"])

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{not json")))
	msg = readMessage(t, conn)
	assert.Equal(t, "configuration", msg["error"].(map[string]interface{})["kind"])

	srv.PublishCatalog(catalog.catalog)
	msg = readMessage(t, conn)
	assert.Equal(t, "CATALOG", msg["type"])

	rec := get(t, srv.Handler(), "/api/health")
	assert.Contains(t, rec.Body.String(), `"connections":1`)
}

func dialSession(t *testing.T, srv *DashboardServer) *websocket.Conn {
	t.Helper()
	go srv.handleWebsockets()
	t.Cleanup(func() { srv.Stop() })

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	conn, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	resp.Body.Close()
	t.Cleanup(func() { conn.Close() })

	assert.Equal(t, "CATALOG", readMessage(t, conn)["type"])
	assert.Equal(t, "VIEW", readMessage(t, conn)["type"])
	return conn
}

func TestWebSocketSlowFetchKeepsSession(t *testing.T) {
	srv, catalog := newTestServer(t)
	catalog.catalog.Rows = append(catalog.catalog.Rows, models.MCatalogRow{Symbol: "SLOW", Security: "Slow Corp"})
	// The fetch outlives the read deadline unless pongs keep extending it
	srv.pongWait = 300 * time.Millisecond
	srv.pingPeriod = 100 * time.Millisecond
	srv.commandTimeout = 800 * time.Millisecond

	conn := dialSession(t, srv)

	require.NoError(t, conn.WriteJSON(models.MSessionCommand{Command: "select_symbol", Symbol: "SLOW"}))
	msg := readMessage(t, conn)
	assert.Equal(t, "ERROR", msg["type"])
	assert.Equal(t, "fetch", msg["error"].(map[string]interface{})["kind"])

	require.NoError(t, conn.WriteJSON(models.MSessionCommand{Command: "select_symbol", Symbol: "MMM"}))
	msg = readMessage(t, conn)
	assert.Equal(t, "VIEW", msg["type"])
	assert.Equal(t, "MMM", msg["symbol"])
}

func TestWebSocketEmptyWindowIsRejected(t *testing.T) {
	srv, _ := newTestServer(t)
	conn := dialSession(t, srv)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"command":"select_window"}`)))
	msg := readMessage(t, conn)
	assert.Equal(t, "ERROR", msg["type"])
	assert.Equal(t, "configuration", msg["error"].(map[string]interface{})["kind"])
}
