package yahoo

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"sp500-dashboard/src/helpers"
	"sp500-dashboard/src/logger"
	"sp500-dashboard/src/models"
	"sp500-dashboard/src/network"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Jan 3 arrives before Jan 2; Jan 4 has no prices at all.
const chartPayload = `{"chart":{"result":[{
 "meta":{"currency":"USD","symbol":"BRK-B","exchangeName":"NYQ","gmtoffset":-18000,
         "exchangeTimezoneName":"America/New_York","dataGranularity":"1d","range":"1y"},
 "timestamp":[1704292200,1704205800,1704378600],
 "events":{
   "dividends":{"1704292200":{"amount":0.5,"date":1704292200}},
   "splits":{"1704205800":{"date":1704205800,"numerator":2,"denominator":1,"splitRatio":"2:1"}}
 },
 "indicators":{"quote":[{
   "open":[11,9,null],
   "high":[20,10,null],
   "low":[8,5,null],
   "close":[15,9.5,null],
   "volume":[300,null,1000]
 }]}
}],"error":null}}`

func TestParseChartResponse(t *testing.T) {
	history, err := ParseChartResponse("BRK.B", []byte(chartPayload))
	require.NoError(t, err)

	assert.Equal(t, "BRK.B", history.Symbol)
	assert.Equal(t, "USD", history.Currency)
	require.Equal(t, 2, history.Len())

	first, second := history.Bars[0], history.Bars[1]
	assert.Equal(t, "2024-01-02 00:00:00-05:00", first.Date.Format("2006-01-02 15:04:05-07:00"))
	assert.Equal(t, "2024-01-03 00:00:00-05:00", second.Date.Format("2006-01-02 15:04:05-07:00"))

	assert.Equal(t, 10.0, first.High)
	assert.True(t, math.IsNaN(first.Volume))
	assert.Equal(t, 2.0, first.StockSplits)
	assert.Equal(t, 0.0, first.Dividends)

	assert.Equal(t, 20.0, second.High)
	assert.Equal(t, 300.0, second.Volume)
	assert.Equal(t, 0.5, second.Dividends)
	assert.Equal(t, 0.0, second.StockSplits)
}

func TestParseChartResponseEmptyRange(t *testing.T) {
	payload := `{"chart":{"result":[{"meta":{"currency":"USD","exchangeTimezoneName":"America/New_York"},
"indicators":{"quote":[{}]}}],"error":null}}`

	history, err := ParseChartResponse("AAPL", []byte(payload))
	require.NoError(t, err)
	assert.Equal(t, 0, history.Len())
}

func TestParseChartResponseFailures(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"not json", `<html>`},
		{"api error", `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`},
		{"no result", `{"chart":{"result":[],"error":null}}`},
		{"misaligned", `{"chart":{"result":[{"meta":{},"timestamp":[1,2],"indicators":{"quote":[{"open":[1],"high":[1],"low":[1],"close":[1],"volume":[1]}]}}]}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseChartResponse("AAPL", []byte(tt.payload))
			assert.Equal(t, "fetch", helpers.Kind(err))
		})
	}
}

func TestProviderSymbol(t *testing.T) {
	assert.Equal(t, "BRK-B", ProviderSymbol("BRK.B"))
	assert.Equal(t, "AAPL", ProviderSymbol(" AAPL "))
}

func TestFetchHistoryBuildsRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v8/finance/chart/BRK-B", r.URL.Path)
		assert.Equal(t, "1y", r.URL.Query().Get("range"))
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))
		assert.Equal(t, "div,splits", r.URL.Query().Get("events"))
		_, _ = w.Write([]byte(chartPayload))
	}))
	defer srv.Close()

	cfg := &models.MConfig{
		Network: models.MNetworkConfig{RequestTimeout: 5},
		History: models.MHistoryConfig{BaseURL: srv.URL + "/v8/finance/chart/"},
	}
	nm := network.NewAsyncNetworkManager(cfg, logger.NewLogger("Test"))
	src := NewYahooFinanceSource(cfg, nm, nil)

	window, err := models.ParseWindow("1 year")
	require.NoError(t, err)

	history, err := src.FetchHistory(context.Background(), "BRK.B", window)
	require.NoError(t, err)
	assert.Equal(t, window, history.Window)
	assert.Equal(t, 2, history.Len())
}
