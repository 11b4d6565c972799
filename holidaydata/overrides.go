package holidaydata

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/Md-Abdullah-Al-Mahin/asia-trade-day-sync/models"
)

// overrideKey identifies a single override by its (market, date) pair.
type overrideKey struct {
	market string
	date   time.Time
}

// EventSink receives a notification every time the override store
// successfully commits a mutation. The audit log and the notification
// feed (A4/A5) both implement this to observe override lifecycle events
// without the store needing to know about either.
type EventSink interface {
	OverrideChanged(kind string, override models.ManualOverride)
}

// OverrideStore is the Manual-Override Adapter (§4.3) and the only mutable
// shared state in the engine (§5). Reads observe a consistent snapshot;
// writes acquire an exclusive critical section that rewrites the
// persisted blob atomically (write-to-temp-then-rename) before publishing
// the new in-memory snapshot. A disk write failure rolls the in-memory
// table back to its pre-mutation state.
type OverrideStore struct {
	mu        sync.RWMutex
	path      string
	overrides map[overrideKey]models.ManualOverride
	sinks     []EventSink
}

// LoadOverrideStore reads the override blob at path, creating an empty one
// if it does not yet exist.
func LoadOverrideStore(path string) (*OverrideStore, error) {
	store := &OverrideStore{
		path:      path,
		overrides: make(map[overrideKey]models.ManualOverride),
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return store, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading override blob %s: %w", path, err)
	}

	var blob models.OverridesBlob
	if err := json.Unmarshal(data, &blob); err != nil {
		return nil, fmt.Errorf("parsing override blob %s: %w", path, err)
	}
	for _, o := range blob.Overrides {
		store.overrides[overrideKey{o.MarketCode, dateKey(o.Date)}] = o
	}

	return store, nil
}

// Subscribe registers sink to be notified of every future mutation.
func (s *OverrideStore) Subscribe(sink EventSink) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sinks = append(s.sinks, sink)
}

// Get returns the override for (market, date), if one exists.
func (s *OverrideStore) Get(market string, date time.Time) (models.ManualOverride, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.overrides[overrideKey{market, dateKey(date)}]
	return o, ok
}

// All returns every override for market, or every override if market is
// empty, ordered by date.
func (s *OverrideStore) All(market string) []models.ManualOverride {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.ManualOverride, 0, len(s.overrides))
	for k, o := range s.overrides {
		if market == "" || k.market == market {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].MarketCode != out[j].MarketCode {
			return out[i].MarketCode < out[j].MarketCode
		}
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

// Add inserts or replaces an override and persists the blob atomically. On
// persistence failure the in-memory table is rolled back to its
// pre-mutation snapshot and the error is returned.
func (s *OverrideStore) Add(o models.ManualOverride) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := overrideKey{o.MarketCode, dateKey(o.Date)}
	previous, existed := s.overrides[key]
	s.overrides[key] = o

	if err := s.persistLocked(); err != nil {
		if existed {
			s.overrides[key] = previous
		} else {
			delete(s.overrides, key)
		}
		return fmt.Errorf("override write failed: %w", err)
	}

	s.notifyLocked("added", o)
	return nil
}

// Remove revokes the override for (market, date). It is a no-op if none
// exists. On persistence failure the in-memory table is rolled back.
func (s *OverrideStore) Remove(market string, date time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := overrideKey{market, dateKey(date)}
	previous, existed := s.overrides[key]
	if !existed {
		return nil
	}
	delete(s.overrides, key)

	if err := s.persistLocked(); err != nil {
		s.overrides[key] = previous
		return fmt.Errorf("override write failed: %w", err)
	}

	s.notifyLocked("removed", previous)
	return nil
}

// notifyLocked fans a mutation out to every subscribed sink. Called with
// s.mu already held by the caller.
func (s *OverrideStore) notifyLocked(kind string, o models.ManualOverride) {
	for _, sink := range s.sinks {
		sink.OverrideChanged(kind, o)
	}
}

// persistLocked rewrites the override blob to disk. The caller must hold
// s.mu. The write goes to a temp file in the same directory, which is then
// renamed over the target path, so a crash mid-write never leaves a
// partially written blob.
func (s *OverrideStore) persistLocked() error {
	blob := models.OverridesBlob{
		Version:   "1.0",
		Overrides: make([]models.ManualOverride, 0, len(s.overrides)),
	}
	for _, o := range s.overrides {
		blob.Overrides = append(blob.Overrides, o)
	}
	sort.Slice(blob.Overrides, func(i, j int) bool {
		if blob.Overrides[i].MarketCode != blob.Overrides[j].MarketCode {
			return blob.Overrides[i].MarketCode < blob.Overrides[j].MarketCode
		}
		return blob.Overrides[i].Date.Before(blob.Overrides[j].Date)
	})

	data, err := json.MarshalIndent(blob, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".overrides-*.tmp")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmpPath, s.path)
}
