// Package holidaydata implements the Holiday Data Plane (C3): three
// adapters — exchange-session, public-holiday, and manual-override —
// behind a single precedence-merged query surface.
package holidaydata

import "time"

// ExchangeSessionAdapter is the authoritative trading-day source. Per §5 it
// must answer runtime queries without blocking; BitmapExchangeAdapter below
// satisfies that by precomputing its answers at construction time.
type ExchangeSessionAdapter interface {
	// IsSession reports whether market holds a trading session on date.
	IsSession(market string, date time.Time) bool
	// NonSessionDates returns every date in [from, to] (inclusive) on
	// which market does not hold a session.
	NonSessionDates(market string, from, to time.Time) []time.Time
}

// PublicHolidayAdapter maps a (market, date) to a human-readable holiday
// name. It is consulted only to name non-session dates; it never decides
// open/closed on its own.
type PublicHolidayAdapter interface {
	// HolidayName returns the localized holiday name for (market, date),
	// if known.
	HolidayName(market string, date time.Time) (name string, ok bool)
}

// dateKey normalizes a date to midnight UTC so it can be used as a map key
// regardless of the time-of-day or location it arrived with.
func dateKey(d time.Time) time.Time {
	y, m, day := d.Date()
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

// BitmapExchangeAdapter is an ExchangeSessionAdapter backed by a
// precomputed set of non-session dates per market, built once at
// construction so runtime queries are O(1) map lookups and never block.
type BitmapExchangeAdapter struct {
	nonSession map[string]map[time.Time]bool
}

// NewBitmapExchangeAdapter builds the adapter from a map of market code to
// its known non-session dates (as supplied by whatever feeds the exchange
// calendar at startup).
func NewBitmapExchangeAdapter(nonSessionByMarket map[string][]time.Time) *BitmapExchangeAdapter {
	nonSession := make(map[string]map[time.Time]bool, len(nonSessionByMarket))
	for market, dates := range nonSessionByMarket {
		set := make(map[time.Time]bool, len(dates))
		for _, d := range dates {
			set[dateKey(d)] = true
		}
		nonSession[market] = set
	}
	return &BitmapExchangeAdapter{nonSession: nonSession}
}

// IsSession reports whether market trades on date: true unless date is in
// the precomputed non-session set.
func (a *BitmapExchangeAdapter) IsSession(market string, date time.Time) bool {
	set, ok := a.nonSession[market]
	if !ok {
		return true
	}
	return !set[dateKey(date)]
}

// NonSessionDates returns every known non-session date for market within
// [from, to], sorted.
func (a *BitmapExchangeAdapter) NonSessionDates(market string, from, to time.Time) []time.Time {
	set, ok := a.nonSession[market]
	if !ok {
		return nil
	}
	var out []time.Time
	from, to = dateKey(from), dateKey(to)
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if set[d] {
			out = append(out, d)
		}
	}
	return out
}

// TableHolidayAdapter is a PublicHolidayAdapter backed by an in-memory
// country-code-keyed table loaded at construction.
type TableHolidayAdapter struct {
	names         map[string]map[time.Time]string
	marketCountry map[string]string
}

// NewTableHolidayAdapter builds the adapter. names is keyed by country
// code (not market code); marketToCountry maps each market code to the
// country whose public-holiday table it should consult.
func NewTableHolidayAdapter(names map[string]map[time.Time]string, marketToCountry map[string]string) *TableHolidayAdapter {
	normalized := make(map[string]map[time.Time]string, len(names))
	for country, byDate := range names {
		set := make(map[time.Time]string, len(byDate))
		for d, name := range byDate {
			set[dateKey(d)] = name
		}
		normalized[country] = set
	}
	return &TableHolidayAdapter{names: normalized, marketCountry: marketToCountry}
}

// HolidayName returns the localized holiday name for (market, date), if
// the market's country table has one.
func (a *TableHolidayAdapter) HolidayName(market string, date time.Time) (string, bool) {
	country, ok := a.marketCountry[market]
	if !ok {
		return "", false
	}
	byDate, ok := a.names[country]
	if !ok {
		return "", false
	}
	name, ok := byDate[dateKey(date)]
	return name, ok
}
