package reconcile

import (
	"context"
	"sync"

	"github.com/yesilw0rks/airnote/pkg/core"
)

type pendingEntry struct {
	note    core.Note
	version uint64
}

// outbox holds notes saved locally but not yet accepted by the remote.
// Entries are keyed by note ID; a newer save of the same note replaces the
// queued one and keeps its position.
type outbox struct {
	remote core.RemoteStore

	mu      sync.Mutex
	order   []string
	entries map[string]pendingEntry
	version uint64

	drainMu sync.Mutex
	kick    chan struct{}

	persistMu sync.Mutex
	persist   func([]core.Note)

	onSynced func(core.Note)
	onFailed func(core.Note, error)
}

func newOutbox(remote core.RemoteStore) *outbox {
	return &outbox{
		remote:  remote,
		entries: make(map[string]pendingEntry),
		kick:    make(chan struct{}, 1),
	}
}

func (o *outbox) enqueue(n core.Note) {
	o.mu.Lock()
	o.version++
	if _, ok := o.entries[n.ID]; !ok {
		o.order = append(o.order, n.ID)
	}
	o.entries[n.ID] = pendingEntry{note: n, version: o.version}
	o.mu.Unlock()
	o.save()
	o.signal()
}

// restore queues notes recorded by an earlier process. Notes already
// queued are newer and win.
func (o *outbox) restore(notes []core.Note) int {
	o.mu.Lock()
	added := 0
	for _, n := range notes {
		if n.ID == "" {
			continue
		}
		if _, ok := o.entries[n.ID]; ok {
			continue
		}
		o.version++
		o.order = append(o.order, n.ID)
		o.entries[n.ID] = pendingEntry{note: n, version: o.version}
		added++
	}
	o.mu.Unlock()
	return added
}

// save hands the current queue to persist. The snapshot is taken under
// persistMu so writes land in mutation order.
func (o *outbox) save() {
	if o.persist == nil {
		return
	}
	o.persistMu.Lock()
	defer o.persistMu.Unlock()
	o.persist(o.pending())
}

// signal wakes the worker without blocking.
func (o *outbox) signal() {
	select {
	case o.kick <- struct{}{}:
	default:
	}
}

func (o *outbox) pending() []core.Note {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]core.Note, 0, len(o.order))
	for _, id := range o.order {
		out = append(out, o.entries[id].note)
	}
	return out
}

func (o *outbox) len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.order)
}

func (o *outbox) head() (pendingEntry, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.order) == 0 {
		return pendingEntry{}, false
	}
	return o.entries[o.order[0]], true
}

// remove drops id when the queued version is the one that was sent.
// It reports whether the entry was removed.
func (o *outbox) remove(id string, version uint64) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	e, ok := o.entries[id]
	if !ok || e.version != version {
		return false
	}
	delete(o.entries, id)
	for i, v := range o.order {
		if v == id {
			o.order = append(o.order[:i], o.order[i+1:]...)
			break
		}
	}
	return true
}

// drain sends queued notes in FIFO order until the queue is empty, an
// upsert fails or ctx is done. An upsert already in flight is not cancelled.
func (o *outbox) drain(ctx context.Context) error {
	o.drainMu.Lock()
	defer o.drainMu.Unlock()

	sendCtx := context.WithoutCancel(ctx)
	for ctx.Err() == nil {
		e, ok := o.head()
		if !ok {
			return nil
		}
		if err := o.remote.Upsert(sendCtx, e.note); err != nil {
			if o.onFailed != nil {
				o.onFailed(e.note, err)
			}
			return err
		}
		// A save during the upsert leaves a newer version queued; it goes next.
		if o.remove(e.note.ID, e.version) {
			o.save()
			if o.onSynced != nil {
				o.onSynced(e.note)
			}
		}
	}
	return ctx.Err()
}

// run is the worker loop, started with lifecycle.Go.
func (o *outbox) run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-o.kick:
			_ = o.drain(ctx)
		}
	}
}
