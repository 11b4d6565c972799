package overlap

import (
	"testing"
	"time"

	"github.com/Md-Abdullah-Al-Mahin/asia-trade-day-sync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loc(t *testing.T, name string) *time.Location {
	l, err := time.LoadLocation(name)
	require.NoError(t, err)
	return l
}

func TestWindowsEmptyWhenNotTradingDay(t *testing.T) {
	tokyo := loc(t, "Asia/Tokyo")
	hk := loc(t, "Asia/Hong_Kong")
	date := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	windows := Windows(
		MarketSession{Hours: models.TradingHours{Open: models.WallTime{Hour: 9}, Close: models.WallTime{Hour: 15}}, Zone: tokyo},
		MarketSession{Hours: models.TradingHours{Open: models.WallTime{Hour: 9, Minute: 30}, Close: models.WallTime{Hour: 16}}, Zone: hk},
		date, false, true,
	)

	assert.Nil(t, windows)
}

func TestWindowsNonOverlappingAbuttingSessionsYieldNoWindow(t *testing.T) {
	// Same zone, same date: session A closes exactly when session B opens.
	tokyo := loc(t, "Asia/Tokyo")
	date := time.Date(2026, 1, 28, 0, 0, 0, 0, time.UTC)

	windows := Windows(
		MarketSession{Hours: models.TradingHours{Open: models.WallTime{Hour: 9}, Close: models.WallTime{Hour: 11}}, Zone: tokyo},
		MarketSession{Hours: models.TradingHours{Open: models.WallTime{Hour: 11}, Close: models.WallTime{Hour: 15}}, Zone: tokyo},
		date, true, true,
	)

	assert.Empty(t, windows)
}

func TestWindowsSortedAndNonOverlapping(t *testing.T) {
	tokyo := loc(t, "Asia/Tokyo")
	hk := loc(t, "Asia/Hong_Kong")
	date := time.Date(2026, 1, 28, 0, 0, 0, 0, time.UTC)

	windows := Windows(
		MarketSession{Hours: models.TradingHours{
			Open: models.WallTime{Hour: 9}, Close: models.WallTime{Hour: 15},
			LunchBreak: &models.LunchBreak{Start: models.WallTime{Hour: 11, Minute: 30}, End: models.WallTime{Hour: 12, Minute: 30}},
		}, Zone: tokyo},
		MarketSession{Hours: models.TradingHours{Open: models.WallTime{Hour: 9, Minute: 30}, Close: models.WallTime{Hour: 16}}, Zone: hk},
		date, true, true,
	)

	require.NotEmpty(t, windows)
	for i := 1; i < len(windows); i++ {
		assert.True(t, windows[i-1].EndUTC.Before(windows[i].StartUTC) || windows[i-1].EndUTC.Equal(windows[i].StartUTC))
		assert.True(t, windows[i-1].StartUTC.Before(windows[i].StartUTC))
	}
	for _, w := range windows {
		assert.Equal(t, int(w.EndUTC.Sub(w.StartUTC).Minutes()), w.DurationMinutes)
	}
}

func TestExecutionTimeValid(t *testing.T) {
	start := time.Date(2026, 1, 28, 1, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	windows := []models.OverlapWindow{{StartUTC: start, EndUTC: end}}

	assert.True(t, ExecutionTimeValid(windows, start.Add(30*time.Minute)))
	assert.True(t, ExecutionTimeValid(windows, start))
	assert.False(t, ExecutionTimeValid(windows, end))
	assert.False(t, ExecutionTimeValid(windows, start.Add(-time.Minute)))
}
