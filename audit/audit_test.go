package audit

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/Md-Abdullah-Al-Mahin/asia-trade-day-sync/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "audit.db"))
	require.NoError(t, err)
	return store
}

func TestRecordAndQueryChecks(t *testing.T) {
	store := newTestStore(t)

	store.RecordCheck(models.AuditRecord{
		OccurredAt: time.Now().UTC(),
		TradeDate:  time.Date(2026, 1, 28, 0, 0, 0, 0, time.UTC),
		BuyMarket:  "HK", SellMarket: "JP", Status: "LIKELY",
	})

	records, err := store.RecentChecks(10)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "HK", records[0].BuyMarket)
	assert.Equal(t, "LIKELY", records[0].Status)
}

func TestOverrideChangedImplementsEventSink(t *testing.T) {
	store := newTestStore(t)

	store.OverrideChanged("added", models.ManualOverride{
		MarketCode: "HK", Date: time.Date(2026, 7, 20, 0, 0, 0, 0, time.UTC),
		Name: "Typhoon", CreatedAt: time.Now().UTC(),
	})

	var count int
	require.NoError(t, store.Get(&count, "SELECT COUNT(*) FROM override_events"))
	assert.Equal(t, 1, count)
}
