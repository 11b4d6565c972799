// Package overlap implements the Overlap Calculator (C5): it enumerates
// the real trading-hour overlaps between two markets on a given date,
// honoring lunch breaks, using half-open instant intervals throughout.
package overlap

import (
	"sort"
	"time"

	"github.com/Md-Abdullah-Al-Mahin/asia-trade-day-sync/clock"
	"github.com/Md-Abdullah-Al-Mahin/asia-trade-day-sync/models"
)

// MarketSession bundles what the calculator needs from one side of a pair:
// its trading hours and its timezone.
type MarketSession struct {
	Hours models.TradingHours
	Zone  *time.Location
}

// Windows returns every non-empty overlap window between a and b on date,
// sorted by start instant. If either market is not a trading day on date
// (aIsTradingDay or bIsTradingDay is false), it returns nil per step 1 of
// §4.5's algorithm.
func Windows(a, b MarketSession, date time.Time, aIsTradingDay, bIsTradingDay bool) []models.OverlapWindow {
	if !aIsTradingDay || !bIsTradingDay {
		return nil
	}

	aSessions := clock.MaterializeSessions(date, a.Hours, a.Zone)
	bSessions := clock.MaterializeSessions(date, b.Hours, b.Zone)

	var windows []models.OverlapWindow
	for _, as := range aSessions {
		for _, bs := range bSessions {
			start := as.Start
			if bs.Start.After(start) {
				start = bs.Start
			}
			end := as.End
			if bs.End.Before(end) {
				end = bs.End
			}
			if !start.Before(end) {
				continue // empty or zero-width overlap: half-open [start, end)
			}

			windows = append(windows, models.OverlapWindow{
				StartUTC:        start,
				EndUTC:          end,
				DurationMinutes: int(end.Sub(start) / time.Minute),
				BuyLocalStart:   clock.FromUTC(start, a.Zone),
				BuyLocalEnd:     clock.FromUTC(end, a.Zone),
				SellLocalStart:  clock.FromUTC(start, b.Zone),
				SellLocalEnd:    clock.FromUTC(end, b.Zone),
			})
		}
	}

	sort.Slice(windows, func(i, j int) bool {
		return windows[i].StartUTC.Before(windows[j].StartUTC)
	})

	return windows
}

// ExecutionTimeValid reports whether instant falls inside at least one of
// windows.
func ExecutionTimeValid(windows []models.OverlapWindow, instant time.Time) bool {
	for _, w := range windows {
		if !instant.Before(w.StartUTC) && instant.Before(w.EndUTC) {
			return true
		}
	}
	return false
}
