package fs

import (
	"time"

	"github.com/aretw0/introspection"
)

// StoreState exposes internal state for observability.
type StoreState struct {
	Dir           string     `json:"dir"`
	Ext           string     `json:"ext"`
	ReadOnly      bool       `json:"read_only"`
	Watchers      int        `json:"watchers"`
	LastWrite     *time.Time `json:"last_write,omitempty"`
	WriteFailures int        `json:"write_failures"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return StoreState{
		Dir:           s.config.Dir,
		Ext:           s.config.Ext,
		ReadOnly:      s.config.ReadOnly,
		Watchers:      s.watchers,
		LastWrite:     s.lastWrite,
		WriteFailures: s.writeFailures,
	}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "cache-store"
}

var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)

func (s *Store) setWatching(delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watchers += delta
}
