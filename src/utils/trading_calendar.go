package utils

import (
	"strings"
	"time"

	"github.com/scmhub/calendar"
)

// TradingCalendar answers open/closed questions for one exchange.
type TradingCalendar struct {
	MIC      string
	Calendar *calendar.Calendar
	Fallback bool
	Timezone *time.Location
}

// Provider exchange codes seen on index members, mapped to ISO 10383 MICs.
var exchangeMICs = map[string]string{
	"NYQ": "xnys",
	"NYS": "xnys",
	"NMS": "xnas",
	"NGM": "xnas",
	"NCM": "xnas",
	"NAS": "xnas",
	"BTS": "xnys",
	"PCX": "xnys",
}

// -----------------------------------------------------------------------------

// MICForExchange resolves a provider exchange code. Unknown or empty codes
// map to NYSE, where every index member trades on NYSE hours.
func MICForExchange(exchange string) string {
	if mic, ok := exchangeMICs[strings.ToUpper(strings.TrimSpace(exchange))]; ok {
		return mic
	}
	return "xnys"
}

// -----------------------------------------------------------------------------

func GetCalendar(mic string) *TradingCalendar {
	cal := calendar.GetCalendar(mic)
	if cal == nil {
		mic = "xnys"
		cal = calendar.GetCalendar(mic)
	}

	if cal == nil {
		// Mon-Fri 09:30-16:00 New York time
		nyLoc, err := time.LoadLocation("America/New_York")
		if err != nil {
			nyLoc = time.FixedZone("EST", -5*3600)
		}
		return &TradingCalendar{MIC: mic, Fallback: true, Timezone: nyLoc}
	}

	return &TradingCalendar{MIC: mic, Calendar: cal, Timezone: cal.Loc}
}

// -----------------------------------------------------------------------------

func (tc *TradingCalendar) IsTradingDay(date time.Time) bool {
	if tc.Timezone != nil {
		date = date.In(tc.Timezone)
	}

	if tc.Fallback {
		weekday := date.Weekday()
		return weekday != time.Saturday && weekday != time.Sunday
	}
	return tc.Calendar.IsBusinessDay(date)
}

// -----------------------------------------------------------------------------

// IsOpenOnMinute checks if the market is open at a specific minute.
func (tc *TradingCalendar) IsOpenOnMinute(t time.Time) bool {
	if tc.Timezone != nil {
		t = t.In(tc.Timezone)
	}

	if tc.Fallback {
		if !tc.IsTradingDay(t) {
			return false
		}
		hour, minute := t.Hour(), t.Minute()
		return (hour > 9 || (hour == 9 && minute >= 30)) && hour < 16
	}

	return tc.Calendar.IsOpen(t)
}
