package utils

import (
	"sync"
	"time"

	"sp500-dashboard/src/logger"
)

// MarketScheduler caches one TradingCalendar per exchange.
type MarketScheduler struct {
	Calendars map[string]*TradingCalendar
	Logger    *logger.Logger
	now       func() time.Time
	mu        sync.Mutex
}

// -----------------------------------------------------------------------------

func NewMarketScheduler(l *logger.Logger) *MarketScheduler {
	if l == nil {
		l = logger.NewLogger("MarketScheduler")
	}
	return &MarketScheduler{
		Calendars: make(map[string]*TradingCalendar),
		Logger:    l,
		now:       time.Now,
	}
}

// -----------------------------------------------------------------------------

func (ms *MarketScheduler) calendarFor(exchange string) *TradingCalendar {
	mic := MICForExchange(exchange)

	ms.mu.Lock()
	defer ms.mu.Unlock()

	if cal, ok := ms.Calendars[mic]; ok {
		return cal
	}
	cal := GetCalendar(mic)
	if cal.Fallback {
		ms.Logger.Warning("No calendar data for %s, using weekday 09:30-16:00 New York hours", mic)
	}
	ms.Calendars[mic] = cal
	return cal
}

// -----------------------------------------------------------------------------

// IsOpen reports whether the exchange is trading at t.
func (ms *MarketScheduler) IsOpen(exchange string, t time.Time) bool {
	return ms.calendarFor(exchange).IsOpenOnMinute(t)
}

// -----------------------------------------------------------------------------

// IsOpenNow reports whether the exchange is trading right now.
func (ms *MarketScheduler) IsOpenNow(exchange string) bool {
	return ms.IsOpen(exchange, ms.now().UTC())
}
