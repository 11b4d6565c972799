package holidaydata

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCalendarFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "holidays.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadCalendar_BuildsAdapters(t *testing.T) {
	path := writeCalendarFile(t, `{
		"version": "test",
		"markets": {
			"JP": [
				{"date": "2026-01-01", "name": "New Year's Day"},
				{"date": "2026-01-12", "name": ""}
			]
		}
	}`)

	exchange, public, err := LoadCalendar(path)
	require.NoError(t, err)

	jan1 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	jan12 := time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC)
	jan2 := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)

	assert.False(t, exchange.IsSession("JP", jan1))
	assert.False(t, exchange.IsSession("JP", jan12))
	assert.True(t, exchange.IsSession("JP", jan2))

	name, ok := public.HolidayName("JP", jan1)
	assert.True(t, ok)
	assert.Equal(t, "New Year's Day", name)

	_, ok = public.HolidayName("JP", jan12)
	assert.False(t, ok, "empty name should not be recorded")
}

func TestLoadCalendar_UnknownMarketIsAlwaysSession(t *testing.T) {
	path := writeCalendarFile(t, `{"version": "test", "markets": {}}`)

	exchange, _, err := LoadCalendar(path)
	require.NoError(t, err)

	assert.True(t, exchange.IsSession("ZZ", time.Now()))
}

func TestLoadCalendar_InvalidDate(t *testing.T) {
	path := writeCalendarFile(t, `{
		"version": "test",
		"markets": {"JP": [{"date": "not-a-date", "name": "x"}]}
	}`)

	_, _, err := LoadCalendar(path)
	require.Error(t, err)
}

func TestLoadCalendar_MissingFile(t *testing.T) {
	_, _, err := LoadCalendar(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}
