package utils

import (
	"sync"
	"time"

	"market-analyzer/src/logger"
	"market-analyzer/src/models"
)

// MarketScheduler caches one TradingCalendar per exchange and answers
// market-status questions for arbitrary symbols.
type MarketScheduler struct {
	Calendars map[string]*TradingCalendar // by MIC
	Logger    *logger.Logger
	Now       func() time.Time
	mu        sync.RWMutex
}

// -----------------------------------------------------------------------------

func NewMarketScheduler(l *logger.Logger) *MarketScheduler {
	return &MarketScheduler{
		Calendars: make(map[string]*TradingCalendar),
		Logger:    l,
		Now:       time.Now,
	}
}

// -----------------------------------------------------------------------------

// CalendarFor returns the calendar of the symbol's exchange, loading it on
// first use.
func (ms *MarketScheduler) CalendarFor(symbol string) *TradingCalendar {
	mic := MICForSymbol(symbol)

	ms.mu.RLock()
	cal, ok := ms.Calendars[mic]
	ms.mu.RUnlock()
	if ok {
		return cal
	}

	cal = GetCalendar(symbol)
	if cal.Fallback && ms.Logger != nil {
		ms.Logger.Warning("MarketScheduler: no calendar for MIC '%s', using Mon-Fri 09:30-16:00 New York fallback", mic)
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()
	if existing, ok := ms.Calendars[mic]; ok {
		return existing
	}
	ms.Calendars[mic] = cal
	if ms.Logger != nil {
		ms.Logger.Debug("MarketScheduler: loaded calendar %s (%d cached)", cal.MIC, len(ms.Calendars))
	}
	return cal
}

// -----------------------------------------------------------------------------

// Status reports whether the symbol's exchange is in session right now.
func (ms *MarketScheduler) Status(symbol string) models.MMarketStatus {
	cal := ms.CalendarFor(symbol)
	return models.MMarketStatus{
		Exchange: cal.MIC,
		Open:     cal.IsOpenOnMinute(ms.Now().UTC()),
	}
}

// -----------------------------------------------------------------------------

// NextTradingDay returns the next session date of the symbol's exchange.
func (ms *MarketScheduler) NextTradingDay(symbol string, date time.Time) time.Time {
	return ms.CalendarFor(symbol).NextTradingDay(date)
}
