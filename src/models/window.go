package models

import "fmt"

// MWindow pairs a user-facing time window label with the provider period token.
type MWindow struct {
	Label string `json:"label"`
	Token string `json:"token"`
}

// Windows in selector order.
var Windows = []MWindow{
	{Label: "2 days", Token: "2d"},
	{Label: "1 month", Token: "1mo"},
	{Label: "6 months", Token: "6mo"},
	{Label: "1 year", Token: "1y"},
	{Label: "5 years", Token: "5y"},
}

const DefaultWindowLabel = "1 year"

// -----------------------------------------------------------------------------

// ParseWindow resolves a label from the fixed window table.
func ParseWindow(label string) (MWindow, error) {
	for _, w := range Windows {
		if w.Label == label {
			return w, nil
		}
	}
	return MWindow{}, fmt.Errorf("unknown time window %q", label)
}

// -----------------------------------------------------------------------------

// DefaultWindow returns the "1 year" window.
func DefaultWindow() MWindow {
	w, _ := ParseWindow(DefaultWindowLabel)
	return w
}

// -----------------------------------------------------------------------------

// WindowLabels returns the labels in selector order.
func WindowLabels() []string {
	labels := make([]string, len(Windows))
	for i, w := range Windows {
		labels[i] = w.Label
	}
	return labels
}
