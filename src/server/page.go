package server

import (
	_ "embed"
	"fmt"
	"math"
	"net/http"

	"sp500-dashboard/src/dashboard"
	"sp500-dashboard/src/helpers"
	"sp500-dashboard/src/models"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"
)

//go:embed templates/dashboard.html
var dashboardPage string

var pageFuncs = map[string]interface{}{
	"price":  formatPrice,
	"volume": formatVolume,
	"yesno":  formatYesNo,
}

type pageData struct {
	Name    string
	Symbols []string
	Windows []string
	Symbol  string
	Window  string
	View    *models.MDashboardView
	Error   string
}

// -----------------------------------------------------------------------------

func formatYesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

// -----------------------------------------------------------------------------

func formatPrice(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return humanize.FormatFloat("#,###.##", v)
}

// -----------------------------------------------------------------------------

func formatVolume(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return humanize.Comma(int64(v))
}

// -----------------------------------------------------------------------------

// getIndex renders the dashboard for ?symbol= and ?window=, defaulting to the
// first symbol and the configured window.
func (s *DashboardServer) getIndex(c *gin.Context) {
	data := pageData{
		Name:    s.Config.Name,
		Windows: models.WindowLabels(),
		Window:  c.DefaultQuery("window", s.Service.DefaultWindow.Label),
	}

	status := http.StatusOK
	symbols, err := s.Service.Symbols(c.Request.Context())
	if err == nil {
		data.Symbols = symbols
		data.Symbol = c.Query("symbol")
		if data.Symbol == "" && len(symbols) > 0 {
			data.Symbol = symbols[0]
		}

		var snap *dashboard.Snapshot
		snap, err = s.Service.Snapshot(c.Request.Context(), data.Symbol, data.Window)
		if err == nil {
			data.View = snap.View
		}
	}

	if err != nil {
		s.errors.Handle(err, "GET /")
		status = helpers.StatusFor(err)
		data.Error = err.Error()
	}

	c.Status(status)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := s.page.Execute(c.Writer, data); err != nil {
		s.Logger.Error("Render dashboard page: %v", err)
		fmt.Fprint(c.Writer, "render error")
	}
}
