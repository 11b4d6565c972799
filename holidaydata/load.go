package holidaydata

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// HolidayBlob is the on-disk shape of the public-holiday / non-session
// calendar: for each market code, the list of dates it does not hold a
// trading session, each optionally named.
type HolidayBlob struct {
	Version string                    `json:"version"`
	Markets map[string][]HolidayEntry `json:"markets"`
}

// HolidayEntry is a single non-session date for one market.
type HolidayEntry struct {
	Date string `json:"date"`
	Name string `json:"name"`
}

// LoadCalendar reads the non-session calendar blob at path and builds the
// two read-only adapters it backs: the exchange-session bitmap (is this
// market open on this date) and the public-holiday name table. Both are
// precomputed once here so neither adapter blocks at query time, per §5.
func LoadCalendar(path string) (*BitmapExchangeAdapter, *TableHolidayAdapter, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading holiday calendar %s: %w", path, err)
	}

	var blob HolidayBlob
	if err := json.Unmarshal(data, &blob); err != nil {
		return nil, nil, fmt.Errorf("parsing holiday calendar %s: %w", path, err)
	}

	nonSessionByMarket := make(map[string][]time.Time, len(blob.Markets))
	names := make(map[string]map[time.Time]string, len(blob.Markets))
	marketToCountry := make(map[string]string, len(blob.Markets))

	for market, entries := range blob.Markets {
		dates := make([]time.Time, 0, len(entries))
		byDate := make(map[time.Time]string, len(entries))
		for i, e := range entries {
			d, err := time.Parse("2006-01-02", e.Date)
			if err != nil {
				return nil, nil, fmt.Errorf("market %s entry[%d]: invalid date %q: %w", market, i, e.Date, err)
			}
			dates = append(dates, d)
			if e.Name != "" {
				byDate[dateKey(d)] = e.Name
			}
		}
		nonSessionByMarket[market] = dates
		names[market] = byDate
		marketToCountry[market] = market
	}

	exchange := NewBitmapExchangeAdapter(nonSessionByMarket)
	public := NewTableHolidayAdapter(names, marketToCountry)
	return exchange, public, nil
}
