package models

// -----------------------------------------------------------------------------
// Dashboard view (published to the presentation layer as one unit)
// -----------------------------------------------------------------------------

type MDashboardView struct {
	Type       string         `json:"type"` // "VIEW"
	SessionID  string         `json:"session_id,omitempty"`
	Symbol     string         `json:"symbol"`
	Window     MWindow        `json:"window"`
	Company    MCompanyRecord `json:"company"`
	Summary    MRangeSummary  `json:"summary"`
	Chart      MChartSpec     `json:"chart"`
	Download   MDownload      `json:"download"`
	MarketOpen bool           `json:"market_open"`
	Rows       int            `json:"rows"`
	Timestamp  int64          `json:"timestamp"`
}

// MDownload describes the CSV artifact offered next to the summary.
type MDownload struct {
	Label    string `json:"label"`
	FileName string `json:"file_name"`
	Help     string `json:"help"`
	URL      string `json:"url"`
}

// -----------------------------------------------------------------------------
// Websocket messages
// -----------------------------------------------------------------------------

type MSessionCommand struct {
	Command string `json:"command"` // "select_symbol", "select_window", "refresh"
	Symbol  string `json:"symbol,omitempty"`
	Window  string `json:"window,omitempty"`
}

type MErrorMessage struct {
	Type  string       `json:"type"` // "ERROR"
	Error MErrorDetail `json:"error"`
}

type MErrorDetail struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type MCatalogMessage struct {
	Type      string   `json:"type"` // "CATALOG"
	Symbols   []string `json:"symbols"`
	Timestamp int64    `json:"timestamp"`
}
