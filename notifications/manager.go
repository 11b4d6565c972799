// Package notifications adapts the teacher's notification manager into an
// in-process feed of OverrideEvents (A5). There is no dashboard to push to,
// so broadcast-on-write is replaced by a pollable bounded history that the
// HTTP API reads on request.
package notifications

import (
	"sync"
	"time"

	"github.com/Md-Abdullah-Al-Mahin/asia-trade-day-sync/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// maxHistory bounds the in-memory feed so a long-running process with many
// override mutations doesn't grow this slice unboundedly.
const maxHistory = 500

// Manager holds the lifecycle of override-mutation notifications.
type Manager struct {
	mu      sync.RWMutex
	history []models.OverrideEvent
}

// NewManager creates a new notification manager.
func NewManager() *Manager {
	return &Manager{}
}

// OverrideChanged implements holidaydata.EventSink, recording every
// manual-override mutation as an OverrideEvent available for polling.
func (m *Manager) OverrideChanged(kind string, override models.ManualOverride) {
	event := models.OverrideEvent{
		ID:        uuid.New().String(),
		Kind:      models.OverrideEventKind(kind),
		Override:  override,
		CreatedAt: time.Now().UTC(),
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.history = append(m.history, event)
	if len(m.history) > maxHistory {
		m.history = m.history[len(m.history)-maxHistory:]
	}

	log.Info().Str("kind", kind).Str("market", override.MarketCode).Msg("override event recorded")
}

// Recent returns up to limit of the most recently recorded events, newest
// first.
func (m *Manager) Recent(limit int) []models.OverrideEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := len(m.history)
	if limit > 0 && limit < n {
		n = limit
	}

	out := make([]models.OverrideEvent, n)
	for i := 0; i < n; i++ {
		out[i] = m.history[len(m.history)-1-i]
	}
	return out
}
