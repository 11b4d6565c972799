package holidaydata

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Md-Abdullah-Al-Mahin/asia-trade-day-sync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newEmptyStore(t *testing.T) *OverrideStore {
	t.Helper()
	store, err := LoadOverrideStore(filepath.Join(t.TempDir(), "overrides.json"))
	require.NoError(t, err)
	return store
}

func TestIsTradingDayWeekend(t *testing.T) {
	exchange := NewBitmapExchangeAdapter(nil)
	holidays := NewTableHolidayAdapter(nil, nil)
	plane := NewPlane(exchange, holidays, newEmptyStore(t))

	saturday := date(2026, 1, 31)
	assert.False(t, plane.IsTradingDay("JP", saturday))
}

func TestIsTradingDayExchangeHoliday(t *testing.T) {
	newYear := date(2026, 1, 1)
	exchange := NewBitmapExchangeAdapter(map[string][]time.Time{"JP": {newYear}})
	holidays := NewTableHolidayAdapter(map[string]map[time.Time]string{
		"JP": {newYear: "New Year's Day"},
	}, map[string]string{"JP": "JP"})
	plane := NewPlane(exchange, holidays, newEmptyStore(t))

	assert.False(t, plane.IsTradingDay("JP", newYear))

	fact, ok := plane.HolidayInfo("JP", newYear)
	require.True(t, ok)
	assert.Equal(t, models.SourceExchange, fact.Source)
	assert.Equal(t, "New Year's Day", fact.Name)
}

func TestManualOverrideClosureBeatsExchange(t *testing.T) {
	ordinary := date(2026, 7, 20)
	exchange := NewBitmapExchangeAdapter(nil) // exchange thinks it's a trading day
	holidays := NewTableHolidayAdapter(nil, nil)
	store := newEmptyStore(t)
	plane := NewPlane(exchange, holidays, store)

	require.NoError(t, store.Add(models.ManualOverride{
		MarketCode: "HK", Date: ordinary, Name: "Typhoon Signal 8",
		Reason: "Typhoon Signal 8", IsClosure: true,
		AffectsTrading: true, AffectsSettlement: true,
	}))

	assert.False(t, plane.IsTradingDay("HK", ordinary))
	fact, ok := plane.HolidayInfo("HK", ordinary)
	require.True(t, ok)
	assert.Equal(t, models.SourceManual, fact.Source)
	assert.Equal(t, "Typhoon Signal 8", fact.Name)
}

func TestManualOverrideForceOpenBeatsExchangeHoliday(t *testing.T) {
	closed := date(2026, 1, 1)
	exchange := NewBitmapExchangeAdapter(map[string][]time.Time{"JP": {closed}})
	holidays := NewTableHolidayAdapter(nil, nil)
	store := newEmptyStore(t)
	plane := NewPlane(exchange, holidays, store)

	require.NoError(t, store.Add(models.ManualOverride{
		MarketCode: "JP", Date: closed, Name: "Special session", IsClosure: false,
	}))

	assert.True(t, plane.IsTradingDay("JP", closed))
	_, ok := plane.HolidayInfo("JP", closed)
	assert.False(t, ok)
}

func TestOverrideStorePersistsAndReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "overrides.json")
	store, err := LoadOverrideStore(path)
	require.NoError(t, err)

	d := date(2026, 7, 20)
	require.NoError(t, store.Add(models.ManualOverride{
		MarketCode: "HK", Date: d, Name: "Typhoon", Reason: "Typhoon Signal 8",
		IsClosure: true, AffectsTrading: true, AffectsSettlement: true,
		CreatedAt: time.Now().UTC(),
	}))

	_, err = os.Stat(path)
	require.NoError(t, err)

	reloaded, err := LoadOverrideStore(path)
	require.NoError(t, err)
	o, ok := reloaded.Get("HK", d)
	require.True(t, ok)
	assert.Equal(t, "Typhoon", o.Name)
}

func TestOverrideStoreRemove(t *testing.T) {
	store := newEmptyStore(t)
	d := date(2026, 7, 20)
	require.NoError(t, store.Add(models.ManualOverride{MarketCode: "HK", Date: d, IsClosure: true}))

	require.NoError(t, store.Remove("HK", d))
	_, ok := store.Get("HK", d)
	assert.False(t, ok)
}

type recordingSink struct {
	events []string
}

func (r *recordingSink) OverrideChanged(kind string, o models.ManualOverride) {
	r.events = append(r.events, kind+":"+o.MarketCode)
}

func TestOverrideStoreNotifiesSinks(t *testing.T) {
	store := newEmptyStore(t)
	sink := &recordingSink{}
	store.Subscribe(sink)

	d := date(2026, 7, 20)
	require.NoError(t, store.Add(models.ManualOverride{MarketCode: "HK", Date: d, IsClosure: true}))
	require.NoError(t, store.Remove("HK", d))

	assert.Equal(t, []string{"added:HK", "removed:HK"}, sink.events)
}
