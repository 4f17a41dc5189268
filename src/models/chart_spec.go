package models

import "time"

// MChartPoint is one (date, close) sample of the plotted series.
type MChartPoint struct {
	Date  time.Time `json:"x"`
	Close float64   `json:"y"`
}

// MAxisRange is the y-axis envelope.
type MAxisRange struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// MChartStyle carries the fixed cosmetic settings of the trend chart.
type MChartStyle struct {
	Kind          string  `json:"kind"`
	ShowXGrid     bool    `json:"show_x_grid"`
	ShowYGrid     bool    `json:"show_y_grid"`
	PlotBGColor   string  `json:"plot_bg_color"`
	TitleX        float64 `json:"title_x"`
	TitleColor    string  `json:"title_color"`
	TitleFontSize int     `json:"title_font_size"`
}

// MChartSpec describes the trend chart independently of any renderer.
type MChartSpec struct {
	Heading string        `json:"heading"`
	Title   string        `json:"title"`
	Series  []MChartPoint `json:"series"`
	YRange  MAxisRange    `json:"y_range"`
	Style   MChartStyle   `json:"style"`
}
