package models

import "time"

// OverrideEventKind distinguishes an override addition from a removal.
type OverrideEventKind string

const (
	OverrideEventAdded   OverrideEventKind = "added"
	OverrideEventRemoved OverrideEventKind = "removed"
)

// OverrideEvent is emitted whenever the Manual-Override store is mutated.
// It is fed to the in-process notification feed (A5), which the HTTP API
// exposes as a pollable list for operators watching for manual closures.
type OverrideEvent struct {
	ID        string            `json:"id"`
	Kind      OverrideEventKind `json:"kind"`
	Override  ManualOverride    `json:"override"`
	CreatedAt time.Time         `json:"created_at"`
}
