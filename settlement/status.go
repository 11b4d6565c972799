package settlement

import (
	"fmt"
	"time"

	"github.com/Md-Abdullah-Al-Mahin/asia-trade-day-sync/clock"
	"github.com/Md-Abdullah-Al-Mahin/asia-trade-day-sync/models"
	"github.com/Md-Abdullah-Al-Mahin/asia-trade-day-sync/overlap"
)

// GetMarketStatus returns code's current state: whether it is open, which
// session it is in, the local time, the next open/close instant, and the
// time remaining until it.
func (e *Engine) GetMarketStatus(code string) (models.MarketStatus, error) {
	market, ok := e.registry.Get(code)
	if !ok {
		return models.MarketStatus{}, fmt.Errorf("unknown market code: %s", code)
	}
	zone, _ := e.registry.Zone(code)

	now := e.now()
	localNow := now.In(zone)
	today := time.Date(localNow.Year(), localNow.Month(), localNow.Day(), 0, 0, 0, 0, time.UTC)

	status := models.MarketStatus{
		MarketCode: code,
		LocalTime:  localNow,
	}

	if fact, isHoliday := e.calendar.GetHolidayInfo(code, today); isHoliday {
		status.IsHoliday = true
		status.HolidayName = fact.Name
	}

	isTradingDay := e.calendar.IsTradingDay(code, today)
	sessionName, isOpen := sessionNameAt(market.TradingHours, now, zone, isTradingDay)
	status.SessionName = sessionName
	status.IsOpen = isOpen

	nextInstant, err := nextOpenOrClose(e.calendar, market, zone, now, isOpen)
	if err == nil {
		status.NextOpenOrClose = nextInstant
		if remaining := clock.TimeUntil(nextInstant, now); remaining != nil {
			status.TimeUntil = clock.FormatDuration(*remaining)
		}
	}

	if market.HasCutOff() {
		cutOffInstant := clock.ToUTC(today, *market.DepositoryCutOff, zone)
		if now.Before(cutOffInstant) {
			status.CutOffState = "before cut-off"
		} else {
			status.CutOffState = "past cut-off"
		}
	}

	return status, nil
}

// sessionNameAt classifies "now" into one of the recognized session names
// for a market with the given trading hours, in its own zone.
func sessionNameAt(hours models.TradingHours, now time.Time, zone *time.Location, isTradingDay bool) (string, bool) {
	if !isTradingDay {
		return models.SessionClosed, false
	}

	local := now.In(zone)
	wall := models.WallTime{Hour: local.Hour(), Minute: local.Minute()}

	if wall.Before(hours.Open) {
		return models.SessionPreMarket, false
	}
	if !wall.Before(hours.Close) {
		return models.SessionPostMarket, false
	}

	if !hours.HasLunchBreak() {
		return models.SessionRegular, true
	}

	lb := hours.LunchBreak
	switch {
	case wall.Before(lb.Start):
		return models.SessionMorning, true
	case wall.Before(lb.End):
		return models.SessionLunch, false
	default:
		return models.SessionAfternoon, true
	}
}

// nextOpenOrClose returns the next open or close instant for market
// relative to now: if currently open, the next close; otherwise the next
// open (today's remaining session, or the next trading day's open).
func nextOpenOrClose(cal interface {
	IsTradingDay(market string, date time.Time) bool
}, market models.Market, zone *time.Location, now time.Time, isOpen bool) (time.Time, error) {
	today := time.Date(now.In(zone).Year(), now.In(zone).Month(), now.In(zone).Day(), 0, 0, 0, 0, time.UTC)

	if isOpen {
		local := now.In(zone)
		wall := models.WallTime{Hour: local.Hour(), Minute: local.Minute()}
		if market.TradingHours.HasLunchBreak() && wall.Before(market.TradingHours.LunchBreak.Start) {
			return clock.ToUTC(today, market.TradingHours.LunchBreak.Start, zone), nil
		}
		return clock.ToUTC(today, market.TradingHours.Close, zone), nil
	}

	candidateOpen := clock.ToUTC(today, market.TradingHours.Open, zone)
	if now.Before(candidateOpen) && cal.IsTradingDay(market.Code, today) {
		return candidateOpen, nil
	}
	if market.TradingHours.HasLunchBreak() {
		lunchEnd := clock.ToUTC(today, market.TradingHours.LunchBreak.End, zone)
		if now.Before(lunchEnd) && cal.IsTradingDay(market.Code, today) {
			return lunchEnd, nil
		}
	}

	for i := 1; i <= 30; i++ {
		day := today.AddDate(0, 0, i)
		if cal.IsTradingDay(market.Code, day) {
			return clock.ToUTC(day, market.TradingHours.Open, zone), nil
		}
	}
	return time.Time{}, fmt.Errorf("no upcoming trading day found for %s", market.Code)
}

// GetMarketPairComparison returns both markets' current status, the
// timezone offset difference between them, and today's overlap summary.
func (e *Engine) GetMarketPairComparison(codeA, codeB string) (models.MarketPairComparison, error) {
	statusA, err := e.GetMarketStatus(codeA)
	if err != nil {
		return models.MarketPairComparison{}, err
	}
	statusB, err := e.GetMarketStatus(codeB)
	if err != nil {
		return models.MarketPairComparison{}, err
	}

	marketA, _ := e.registry.Get(codeA)
	marketB, _ := e.registry.Get(codeB)
	zoneA, _ := e.registry.Zone(codeA)
	zoneB, _ := e.registry.Zone(codeB)

	now := e.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	offsetA := clock.OffsetHours(zoneA, today)
	offsetB := clock.OffsetHours(zoneB, today)

	aTrades := e.calendar.IsTradingDay(codeA, today)
	bTrades := e.calendar.IsTradingDay(codeB, today)

	windows := overlap.Windows(
		overlap.MarketSession{Hours: marketA.TradingHours, Zone: zoneA},
		overlap.MarketSession{Hours: marketB.TradingHours, Zone: zoneB},
		today, aTrades, bTrades,
	)

	summary := models.OverlapSummary{Windows: windows}
	for _, w := range windows {
		summary.TotalMinutes += w.DurationMinutes
	}

	return models.MarketPairComparison{
		MarketA:             statusA,
		MarketB:             statusB,
		ZoneDifferenceHours: offsetA - offsetB,
		TodayOverlap:        summary,
	}, nil
}
