package clock

import (
	"testing"
	"time"

	"github.com/Md-Abdullah-Al-Mahin/asia-trade-day-sync/models"
	"github.com/stretchr/testify/assert"
)

func tokyo(t *testing.T) *time.Location {
	loc, err := time.LoadLocation("Asia/Tokyo")
	assert.NoError(t, err)
	return loc
}

func TestToUTCFromUTCRoundTrip(t *testing.T) {
	loc := tokyo(t)
	date := time.Date(2026, 1, 28, 0, 0, 0, 0, time.UTC)
	wall := models.WallTime{Hour: 9, Minute: 0}

	instant := ToUTC(date, wall, loc)
	roundTripped := FromUTC(instant, loc)

	assert.Equal(t, wall, roundTripped)
}

func TestCombineUsesDateComponentsOnly(t *testing.T) {
	loc := tokyo(t)
	date := time.Date(2026, 3, 3, 23, 59, 59, 0, time.UTC)
	wall := models.WallTime{Hour: 10, Minute: 30}

	got := Combine(date, wall, loc)

	assert.Equal(t, 2026, got.Year())
	assert.Equal(t, time.March, got.Month())
	assert.Equal(t, 3, got.Day())
	assert.Equal(t, 10, got.Hour())
	assert.Equal(t, 30, got.Minute())
}

func TestOffsetHoursTokyoHasNoDST(t *testing.T) {
	loc := tokyo(t)
	summer := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	winter := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 9.0, OffsetHours(loc, summer))
	assert.Equal(t, 9.0, OffsetHours(loc, winter))
}

func TestTimeUntilPastReturnsNil(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)

	assert.Nil(t, TimeUntil(past, now))
}

func TestTimeUntilFuture(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	future := now.Add(90 * time.Minute)

	d := TimeUntil(future, now)
	assert.NotNil(t, d)
	assert.Equal(t, 90*time.Minute, *d)
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		name string
		d    time.Duration
		want string
	}{
		{"zero", 0, "0m"},
		{"minutes only", 45 * time.Minute, "45m"},
		{"hours and minutes", 2*time.Hour + 15*time.Minute, "2h 15m"},
		{"days hours minutes", 26*time.Hour + 5*time.Minute, "1d 2h 5m"},
		{"negative clamps to zero", -5 * time.Minute, "0m"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FormatDuration(tc.d))
		})
	}
}

func TestMaterializeSessionsNoLunch(t *testing.T) {
	loc := tokyo(t)
	date := time.Date(2026, 1, 28, 0, 0, 0, 0, time.UTC)
	hours := models.TradingHours{
		Open:  models.WallTime{Hour: 9, Minute: 0},
		Close: models.WallTime{Hour: 15, Minute: 0},
	}

	sessions := MaterializeSessions(date, hours, loc)

	assert.Len(t, sessions, 1)
	assert.True(t, sessions[0].Start.Before(sessions[0].End))
}

func TestMaterializeSessionsWithLunch(t *testing.T) {
	loc := tokyo(t)
	date := time.Date(2026, 1, 28, 0, 0, 0, 0, time.UTC)
	hours := models.TradingHours{
		Open:  models.WallTime{Hour: 9, Minute: 0},
		Close: models.WallTime{Hour: 15, Minute: 0},
		LunchBreak: &models.LunchBreak{
			Start: models.WallTime{Hour: 11, Minute: 30},
			End:   models.WallTime{Hour: 12, Minute: 30},
		},
	}

	sessions := MaterializeSessions(date, hours, loc)

	assert.Len(t, sessions, 2)
	assert.True(t, sessions[0].End.Equal(sessions[1].Start.Add(-time.Hour)))
	assert.True(t, sessions[0].Start.Before(sessions[0].End))
	assert.True(t, sessions[1].Start.Before(sessions[1].End))
}
