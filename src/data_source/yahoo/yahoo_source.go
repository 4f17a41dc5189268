package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"sort"
	"strings"
	"time"

	"sp500-dashboard/src/helpers"
	"sp500-dashboard/src/interfaces"
	"sp500-dashboard/src/logger"
	"sp500-dashboard/src/metrics"
	"sp500-dashboard/src/models"
)

const SourceName = "yahoo"

type YahooFinanceSource struct {
	Config  *models.MConfig
	Network interfaces.INetworkManager
	Metrics *metrics.Metrics
	Logger  *logger.Logger
}

// -----------------------------------------------------------------------------

func (s *YahooFinanceSource) Name() string {
	return SourceName
}

// -----------------------------------------------------------------------------

func NewYahooFinanceSource(cfg *models.MConfig, netMgr interfaces.INetworkManager, m *metrics.Metrics) *YahooFinanceSource {
	return &YahooFinanceSource{
		Config:  cfg,
		Network: netMgr,
		Metrics: m,
		Logger:  logger.NewLogger("YahooFinanceSource"),
	}
}

// -----------------------------------------------------------------------------

// ProviderSymbol converts an index symbol to the provider's spelling
// (BRK.B becomes BRK-B).
func ProviderSymbol(symbol string) string {
	return strings.ReplaceAll(strings.TrimSpace(symbol), ".", "-")
}

// -----------------------------------------------------------------------------

// FetchHistory fetches daily bars for the trailing window, events included.
func (s *YahooFinanceSource) FetchHistory(ctx context.Context, symbol string, window models.MWindow) (history *models.MPriceHistory, err error) {
	start := time.Now()
	defer func() { s.Metrics.ObserveFetch(SourceName, start, err) }()

	interval := s.Config.History.Interval
	if interval == "" {
		interval = "1d"
	}
	params := map[string]string{
		"interval":       interval,
		"range":          window.Token,
		"events":         "div,splits",
		"includePrePost": "false",
	}

	base := strings.TrimRight(s.Config.History.BaseURL, "/")
	endpoint := fmt.Sprintf("%s/%s", base, url.PathEscape(ProviderSymbol(symbol)))

	respBytes, err := s.Network.Get(ctx, endpoint, params)
	if err != nil {
		return nil, helpers.NewFetchError(SourceName, fmt.Sprintf("history request for %s failed", symbol), err)
	}

	history, err = ParseChartResponse(symbol, respBytes)
	if err != nil {
		return nil, err
	}
	history.Window = window
	history.FetchedAt = time.Now().UTC()

	if n := history.Len(); n > 0 {
		s.Logger.Info("Fetched %s (%s): %d bars [%s -> %s]", symbol, window.Token, n,
			history.Bars[0].Date.Format("2006-01-02"), history.Bars[n-1].Date.Format("2006-01-02"))
	} else {
		s.Logger.Warning("Fetched %s (%s): no bars", symbol, window.Token)
	}
	return history, nil
}

// -----------------------------------------------------------------------------

type YahooChartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Currency             string `json:"currency"`
				Symbol               string `json:"symbol"`
				ExchangeName         string `json:"exchangeName"`
				Gmtoffset            int    `json:"gmtoffset"`
				ExchangeTimezoneName string `json:"exchangeTimezoneName"`
				DataGranularity      string `json:"dataGranularity"`
				Range                string `json:"range"`
			} `json:"meta"`
			Timestamp []int64 `json:"timestamp"`
			Events    struct {
				Dividends map[string]struct {
					Amount float64 `json:"amount"`
					Date   int64   `json:"date"`
				} `json:"dividends"`
				Splits map[string]struct {
					Date        int64   `json:"date"`
					Numerator   float64 `json:"numerator"`
					Denominator float64 `json:"denominator"`
				} `json:"splits"`
			} `json:"events"`
			Indicators struct {
				Quote []struct {
					High   []*float64 `json:"high"`   // Use pointers to handle null
					Low    []*float64 `json:"low"`    // Use pointers to handle null
					Open   []*float64 `json:"open"`   // Use pointers to handle null
					Close  []*float64 `json:"close"`  // Use pointers to handle null
					Volume []*float64 `json:"volume"` // Use pointers to handle null
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// -----------------------------------------------------------------------------

// ParseChartResponse turns a chart payload into a price history. Bars are
// keyed by exchange-local midnight. Null quote values become NaN and a bar
// whose open, high, low and close are all null is dropped.
func ParseChartResponse(symbol string, data []byte) (*models.MPriceHistory, error) {
	var resp YahooChartResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, helpers.NewFetchError(SourceName, "json unmarshal failed", err)
	}

	if resp.Chart.Error != nil {
		return nil, helpers.NewFetchError(SourceName,
			fmt.Sprintf("yahoo api error: %s - %s", resp.Chart.Error.Code, resp.Chart.Error.Description), nil)
	}

	if len(resp.Chart.Result) == 0 {
		return nil, helpers.NewFetchError(SourceName, fmt.Sprintf("no result in response for %s", symbol), nil)
	}

	result := resp.Chart.Result[0]
	meta := result.Meta
	loc := exchangeLocation(meta.ExchangeTimezoneName, meta.Gmtoffset)

	history := &models.MPriceHistory{
		Symbol:   symbol,
		Currency: meta.Currency,
		Exchange: meta.ExchangeName,
	}
	if len(result.Timestamp) == 0 {
		return history, nil
	}

	if len(result.Indicators.Quote) == 0 {
		return nil, helpers.NewFetchError(SourceName, fmt.Sprintf("no quote data in response for %s", symbol), nil)
	}
	quote := result.Indicators.Quote[0]

	// 1. Validation: Alignment check
	n := len(result.Timestamp)
	if n != len(quote.Close) || n != len(quote.Open) || n != len(quote.High) ||
		n != len(quote.Low) || n != len(quote.Volume) {
		return nil, helpers.NewFetchError(SourceName, fmt.Sprintf("data alignment error for %s", symbol), nil)
	}

	// 2. Corporate actions keyed by local trading day
	dividends := make(map[string]float64)
	for _, d := range result.Events.Dividends {
		dividends[dayKey(d.Date, loc)] += d.Amount
	}
	splits := make(map[string]float64)
	for _, sp := range result.Events.Splits {
		if sp.Denominator != 0 {
			splits[dayKey(sp.Date, loc)] = sp.Numerator / sp.Denominator
		}
	}

	// 3. Bars
	for i, ts := range result.Timestamp {
		open, high, low, closeVal := value(quote.Open[i]), value(quote.High[i]), value(quote.Low[i]), value(quote.Close[i])
		if math.IsNaN(open) && math.IsNaN(high) && math.IsNaN(low) && math.IsNaN(closeVal) {
			continue
		}

		key := dayKey(ts, loc)
		local := time.Unix(ts, 0).In(loc)
		history.Bars = append(history.Bars, models.MPriceBar{
			Date:        time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc),
			Open:        open,
			High:        high,
			Low:         low,
			Close:       closeVal,
			Volume:      value(quote.Volume[i]),
			Dividends:   dividends[key],
			StockSplits: splits[key],
		})
	}

	sort.SliceStable(history.Bars, func(i, j int) bool {
		return history.Bars[i].Date.Before(history.Bars[j].Date)
	})

	return history, nil
}

// -----------------------------------------------------------------------------

func value(p *float64) float64 {
	if p == nil {
		return math.NaN()
	}
	return *p
}

// -----------------------------------------------------------------------------

func dayKey(ts int64, loc *time.Location) string {
	return time.Unix(ts, 0).In(loc).Format("2006-01-02")
}

// -----------------------------------------------------------------------------

func exchangeLocation(name string, gmtoffset int) *time.Location {
	if name != "" {
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
	}
	return time.FixedZone("exchange", gmtoffset)
}
