// Package core holds the AirNote domain: the Note entity, the ports the sync
// policy depends on, the session identity and the change events.
package core

import "fmt"

// EventType represents the kind of change reported by the sync layer.
type EventType string

const (
	EventRefreshed       EventType = "REFRESHED"
	EventSaved           EventType = "SAVED"
	EventSynced          EventType = "SYNCED"
	EventSyncFailed      EventType = "SYNC_FAILED"
	EventStateChanged    EventType = "STATE_CHANGED"
	EventIdentityChanged EventType = "IDENTITY_CHANGED"
	EventCacheChanged    EventType = "CACHE_CHANGED"
)

// Event represents a change observed by the reconciler or a store.
// ID is a note id, a cache key or a state name depending on Type.
type Event struct {
	Type      EventType
	ID        string
	Timestamp int64 // Unix timestamp
	Err       error
}

// String implements fmt.Stringer.
func (e Event) String() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %v", e.Type, e.ID, e.Err)
	}
	return fmt.Sprintf("%s %s", e.Type, e.ID)
}
