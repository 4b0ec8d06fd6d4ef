package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/yesilw0rks/airnote/pkg/core"
)

// ErrOffline is the failure reported while the remote is switched offline.
var ErrOffline = errors.New("memory remote is offline")

// Remote implements core.RemoteStore in memory, with failure injection.
type Remote struct {
	mu       sync.Mutex
	notes    map[string]core.Note
	offline  bool
	failList []error
	failPut  []error
	onList   func(ctx context.Context, f core.Filter)

	listCalls   int
	upsertCalls int
}

// NewRemote creates a remote holding the given notes.
func NewRemote(seed ...core.Note) *Remote {
	r := &Remote{notes: make(map[string]core.Note)}
	for _, n := range seed {
		r.notes[n.ID] = n
	}
	return r
}

// List implements core.RemoteStore.
func (r *Remote) List(ctx context.Context, f core.Filter) ([]core.Note, error) {
	r.mu.Lock()
	r.listCalls++
	hook := r.onList
	err := r.nextErr(&r.failList)
	r.mu.Unlock()

	if hook != nil {
		hook(ctx, f)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrRemoteUnavailable, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrRemoteUnavailable, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]core.Note, 0, len(r.notes))
	for _, n := range r.notes {
		if f.Match(n) {
			out = append(out, n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out, nil
}

// Upsert implements core.RemoteStore.
func (r *Remote) Upsert(ctx context.Context, n core.Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.upsertCalls++
	if err := r.nextErr(&r.failPut); err != nil {
		return fmt.Errorf("%w: %w", core.ErrRemoteWriteFailed, err)
	}
	r.notes[n.ID] = n
	return nil
}

// nextErr pops a queued failure. Callers hold r.mu.
func (r *Remote) nextErr(queue *[]error) error {
	if r.offline {
		return ErrOffline
	}
	if len(*queue) == 0 {
		return nil
	}
	err := (*queue)[0]
	*queue = (*queue)[1:]
	return err
}

// SetOffline makes every call fail until switched back.
func (r *Remote) SetOffline(offline bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.offline = offline
}

// FailNextList queues err for the next List call.
func (r *Remote) FailNextList(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failList = append(r.failList, err)
}

// FailNextUpsert queues err for the next Upsert call.
func (r *Remote) FailNextUpsert(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failPut = append(r.failPut, err)
}

// OnList installs a hook that runs at the start of every List, outside the lock.
// Tests use it to hold a listing open.
func (r *Remote) OnList(hook func(ctx context.Context, f core.Filter)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onList = hook
}

// Put stores a note directly, bypassing failure injection.
func (r *Remote) Put(n core.Note) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes[n.ID] = n
}

// Note returns the stored note with id.
func (r *Remote) Note(id string) (core.Note, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.notes[id]
	return n, ok
}

// Len returns the number of stored notes.
func (r *Remote) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.notes)
}

// Calls returns how many List and Upsert calls were made.
func (r *Remote) Calls() (list, upsert int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.listCalls, r.upsertCalls
}
