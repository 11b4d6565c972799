// Package calendar implements the Calendar Service (C4): trading-day and
// settlement-day predicates, next/previous trading day scans,
// common-trading-day enumeration, and N-business-day advance, all built
// read-only over the Holiday Data Plane.
package calendar

import (
	"fmt"
	"time"

	"github.com/Md-Abdullah-Al-Mahin/asia-trade-day-sync/holidaydata"
	"github.com/Md-Abdullah-Al-Mahin/asia-trade-day-sync/models"
	"github.com/Md-Abdullah-Al-Mahin/asia-trade-day-sync/overlap"
)

// maxScanIterations bounds every forward/backward calendar walk. Hitting it
// indicates corrupt calendar data, not a legitimate long gap, and is
// treated as an internal invariant breach (§7).
const maxScanIterations = 30

// Service is the Calendar Service, built over the Holiday Data Plane.
type Service struct {
	plane *holidaydata.Plane
}

// New builds a Calendar Service over plane.
func New(plane *holidaydata.Plane) *Service {
	return &Service{plane: plane}
}

func normalize(d time.Time) time.Time {
	y, m, day := d.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

// IsTradingDay reports whether market trades on date.
func (s *Service) IsTradingDay(market string, date time.Time) bool {
	return s.plane.IsTradingDay(market, normalize(date))
}

// IsSettlementDay reports whether market settles on date.
func (s *Service) IsSettlementDay(market string, date time.Time) bool {
	return s.plane.IsSettlementDay(market, normalize(date))
}

// GetHolidayInfo returns the merged holiday fact for (market, date), if
// any.
func (s *Service) GetHolidayInfo(market string, date time.Time) (models.HolidayFact, bool) {
	return s.plane.HolidayInfo(market, normalize(date))
}

// NextTradingDay scans forward from from+1 day until it finds a trading
// day for market, capped at maxScanIterations. Exceeding the cap signals
// corrupt calendar data.
func (s *Service) NextTradingDay(market string, from time.Time) (time.Time, error) {
	d := normalize(from)
	for i := 0; i < maxScanIterations; i++ {
		d = d.AddDate(0, 0, 1)
		if s.IsTradingDay(market, d) {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("next_trading_day: no trading day found for %s within %d days of %s", market, maxScanIterations, from.Format("2006-01-02"))
}

// PreviousTradingDay scans backward from from-1 day, symmetric to
// NextTradingDay.
func (s *Service) PreviousTradingDay(market string, from time.Time) (time.Time, error) {
	d := normalize(from)
	for i := 0; i < maxScanIterations; i++ {
		d = d.AddDate(0, 0, -1)
		if s.IsTradingDay(market, d) {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("previous_trading_day: no trading day found for %s within %d days of %s", market, maxScanIterations, from.Format("2006-01-02"))
}

// TradingDaysInRange returns every trading day for market within [start,
// end] inclusive.
func (s *Service) TradingDaysInRange(market string, start, end time.Time) []time.Time {
	var out []time.Time
	start, end = normalize(start), normalize(end)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if s.IsTradingDay(market, d) {
			out = append(out, d)
		}
	}
	return out
}

// NonTradingDaysInRange returns every non-trading day for market within
// [start, end] inclusive.
func (s *Service) NonTradingDaysInRange(market string, start, end time.Time) []time.Time {
	var out []time.Time
	start, end = normalize(start), normalize(end)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if !s.IsTradingDay(market, d) {
			out = append(out, d)
		}
	}
	return out
}

// CommonTradingDays returns the dates within [start, end] on which both
// markets a and b trade.
func (s *Service) CommonTradingDays(a, b string, start, end time.Time) []time.Time {
	var out []time.Time
	start, end = normalize(start), normalize(end)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if s.IsTradingDay(a, d) && s.IsTradingDay(b, d) {
			out = append(out, d)
		}
	}
	return out
}

// AdvanceBusinessDays walks forward from tradeDate, counting calendar days
// elapsed but incrementing the business-day counter only on settlement
// days, until n business days have elapsed. Returns the final date, the
// number of calendar days elapsed, and the list of skipped (date, reason)
// pairs. AdvanceBusinessDays(market, d, 0) == d.
func (s *Service) AdvanceBusinessDays(market string, tradeDate time.Time, n int) (models.SettlementDateResult, error) {
	d := normalize(tradeDate)
	result := models.SettlementDateResult{Market: market, FinalDate: d, CalendarDays: 0, BusinessDays: 0}

	if n == 0 {
		return result, nil
	}

	businessDays := 0
	calendarDays := 0
	for calendarDays < maxScanIterations {
		d = d.AddDate(0, 0, 1)
		calendarDays++

		if s.IsSettlementDay(market, d) {
			businessDays++
			if businessDays == n {
				result.FinalDate = d
				result.CalendarDays = calendarDays
				result.BusinessDays = businessDays
				return result, nil
			}
			continue
		}

		result.Skipped = append(result.Skipped, models.SkippedDay{Date: d, Reason: skipReason(s, market, d)})
	}

	return models.SettlementDateResult{}, fmt.Errorf("advance_business_days: exceeded %d calendar days advancing %s by %d business days from %s", maxScanIterations, market, n, tradeDate.Format("2006-01-02"))
}

// skipReason names why a date was skipped while advancing: "Weekend" for a
// civil weekend, otherwise the holiday's name.
func skipReason(s *Service, market string, d time.Time) string {
	if fact, ok := s.GetHolidayInfo(market, d); ok {
		return fact.Name
	}
	return "Weekend"
}

// CommonSettlementDate computes each side's settlement date using its own
// cycle, takes the later of the two, then rolls forward while either
// market cannot settle on the chosen date. Capped at maxScanIterations
// roll-forward steps.
func (s *Service) CommonSettlementDate(buyMarket string, buyCycle int, sellMarket string, sellCycle int, tradeDate time.Time) (time.Time, error) {
	buyResult, err := s.AdvanceBusinessDays(buyMarket, tradeDate, buyCycle)
	if err != nil {
		return time.Time{}, err
	}
	sellResult, err := s.AdvanceBusinessDays(sellMarket, tradeDate, sellCycle)
	if err != nil {
		return time.Time{}, err
	}

	candidate := buyResult.FinalDate
	if sellResult.FinalDate.After(candidate) {
		candidate = sellResult.FinalDate
	}

	for i := 0; i < maxScanIterations; i++ {
		if s.IsSettlementDay(buyMarket, candidate) && s.IsSettlementDay(sellMarket, candidate) {
			return candidate, nil
		}
		candidate = candidate.AddDate(0, 0, 1)
	}

	return time.Time{}, fmt.Errorf("common_settlement_date: no common settlement day found for %s/%s within %d days of %s", buyMarket, sellMarket, maxScanIterations, tradeDate.Format("2006-01-02"))
}

// FindNextViableTradeDate returns the first date ≥ from on which both
// markets trade and, if requireOverlap is set, on which at least one
// non-empty overlap window exists (per overlap.Windows). hoursByMarket maps
// each market code to its trading hours and zoneByMarket maps each market
// code to its resolved timezone, as needed by the overlap calculator.
func (s *Service) FindNextViableTradeDate(a, b string, from time.Time, requireOverlap bool, hoursByMarket map[string]models.TradingHours, zoneByMarket map[string]*time.Location) (time.Time, error) {
	d := normalize(from)
	for i := 0; i < maxScanIterations; i++ {
		if s.IsTradingDay(a, d) && s.IsTradingDay(b, d) {
			if !requireOverlap {
				return d, nil
			}
			windows := overlap.Windows(
				overlap.MarketSession{Hours: hoursByMarket[a], Zone: zoneByMarket[a]},
				overlap.MarketSession{Hours: hoursByMarket[b], Zone: zoneByMarket[b]},
				d,
				s.IsTradingDay(a, d), s.IsTradingDay(b, d),
			)
			if len(windows) > 0 {
				return d, nil
			}
		}
		d = d.AddDate(0, 0, 1)
	}
	return time.Time{}, fmt.Errorf("find_next_viable_trade_date: no viable date found for %s/%s within %d days of %s", a, b, maxScanIterations, from.Format("2006-01-02"))
}
