package reconcile

import (
	"time"

	"github.com/aretw0/introspection"
)

// ReconcilerState exposes internal state for observability.
type ReconcilerState struct {
	Identity   string     `json:"identity,omitempty"`
	Epoch      uint64     `json:"epoch"`
	Space      string     `json:"space"`
	Notes      int        `json:"notes"`
	Pending    int        `json:"pending"`
	Connection string     `json:"connection"`
	LastSync   *time.Time `json:"last_sync,omitempty"`
	LastError  string     `json:"last_error,omitempty"`
}

// State implements introspection.Introspectable.
func (r *Reconciler) State() any {
	identity, epoch := r.session.Snapshot()
	pending := r.outbox.len()

	r.mu.Lock()
	defer r.mu.Unlock()
	s := ReconcilerState{
		Identity:   identity,
		Epoch:      epoch,
		Space:      r.space,
		Notes:      len(r.notes),
		Pending:    pending,
		Connection: r.conn.String(),
		LastSync:   r.lastSync,
	}
	if r.lastErr != nil {
		s.LastError = r.lastErr.Error()
	}
	return s
}

// ComponentType implements introspection.Component.
func (r *Reconciler) ComponentType() string {
	return "reconciler"
}

var _ introspection.Introspectable = (*Reconciler)(nil)
var _ introspection.Component = (*Reconciler)(nil)
