// Package clock provides the pure wall-clock/instant conversions every
// other component builds on: converting a market's local wall time to and
// from a common UTC instant, formatting durations, and materializing a
// day's trading sessions as instant intervals. Nothing in this package
// touches a holiday source or a market registry; it only knows about time.
package clock

import (
	"fmt"
	"time"

	"github.com/Md-Abdullah-Al-Mahin/asia-trade-day-sync/models"
)

// Session is a single half-open instant interval [Start, End) during which
// a market is in a trading session.
type Session struct {
	Start time.Time
	End   time.Time
}

// ToUTC resolves a wall-clock time on a given date, in the named IANA zone,
// to its UTC instant. The zone must already be known-good (validated at
// registry load); an unknown zone here is a programming error, not a
// runtime condition callers are expected to handle.
func ToUTC(date time.Time, wall models.WallTime, zone *time.Location) time.Time {
	return Combine(date, wall, zone).UTC()
}

// FromUTC projects a UTC instant into the wall-clock time of the given
// zone.
func FromUTC(instant time.Time, zone *time.Location) models.WallTime {
	local := instant.In(zone)
	return models.WallTime{Hour: local.Hour(), Minute: local.Minute()}
}

// Combine builds the instant for a wall-clock time on a specific date in a
// specific zone. Only the year/month/day of date are used; its own
// location is ignored.
func Combine(date time.Time, wall models.WallTime, zone *time.Location) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d, wall.Hour, wall.Minute, 0, 0, zone)
}

// OffsetHours returns the zone's UTC offset, in hours, as observed at noon
// local time on the given date. Evaluating at noon keeps the answer stable
// across a DST transition that happens earlier or later in the day.
func OffsetHours(zone *time.Location, onDate time.Time) float64 {
	y, m, d := onDate.Date()
	noon := time.Date(y, m, d, 12, 0, 0, 0, zone)
	_, offsetSeconds := noon.Zone()
	return float64(offsetSeconds) / 3600.0
}

// TimeUntil returns the duration from "from" to "target", or nil if target
// is not strictly after from.
func TimeUntil(target, from time.Time) *time.Duration {
	if !target.After(from) {
		return nil
	}
	d := target.Sub(from)
	return &d
}

// FormatDuration renders a duration as "Xd Yh Zm", omitting zero leading
// units. A duration under a minute still renders as "0m".
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	totalMinutes := int(d / time.Minute)
	days := totalMinutes / (24 * 60)
	hours := (totalMinutes % (24 * 60)) / 60
	minutes := totalMinutes % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	default:
		return fmt.Sprintf("%dm", minutes)
	}
}

// MaterializeSessions returns the instant intervals a market is open on
// date, in its own trading_hours. A market with a lunch break yields two
// intervals (morning, afternoon); otherwise one. Intervals are half-open
// [Start, End) throughout the engine.
func MaterializeSessions(date time.Time, hours models.TradingHours, zone *time.Location) []Session {
	if !hours.HasLunchBreak() {
		return []Session{
			{Start: ToUTC(date, hours.Open, zone), End: ToUTC(date, hours.Close, zone)},
		}
	}
	lb := hours.LunchBreak
	return []Session{
		{Start: ToUTC(date, hours.Open, zone), End: ToUTC(date, lb.Start, zone)},
		{Start: ToUTC(date, lb.End, zone), End: ToUTC(date, hours.Close, zone)},
	}
}
