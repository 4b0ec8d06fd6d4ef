// Package cache is the local half of the note store: the whole collection
// kept under one key of a durable key/value store.
package cache

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/yesilw0rks/airnote/pkg/core"
	"github.com/yesilw0rks/airnote/pkg/typed"
)

// Key is the store entry holding the cached collection.
const Key = "airnote_notes"

// QueueKey is the store entry holding notes not yet accepted by the remote.
const QueueKey = "airnote_outbox"

// Notes is the local note cache. Reads never fail and write failures are
// logged rather than returned, so the sync policy can treat the cache as
// always available.
type Notes struct {
	mu     sync.Mutex
	value  *typed.Value[[]core.Note]
	queue  *typed.Value[[]core.Note]
	ident  *typed.Value[string]
	codec  typed.Codec
	logger *slog.Logger
}

// Option configures Notes.
type Option func(*Notes)

// WithLogger sets the logger for corruption and write failures.
func WithLogger(l *slog.Logger) Option {
	return func(n *Notes) {
		if l != nil {
			n.logger = l
		}
	}
}

// WithCodec selects the encoding of the stored collection. JSON by default.
func WithCodec(c typed.Codec) Option {
	return func(n *Notes) {
		if c != nil {
			n.codec = c
		}
	}
}

// New creates a cache over store.
func New(store core.KeyValue, opts ...Option) *Notes {
	n := &Notes{
		codec:  typed.JSON,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(n)
	}
	n.value = typed.NewValue[[]core.Note](store, Key, n.codec)
	n.queue = typed.NewValue[[]core.Note](store, QueueKey, n.codec)
	n.ident = typed.NewValue[string](store, core.IdentityKey, n.codec)
	return n
}

// Identity returns the persisted session identity, encoded like the
// collection so every entry of the store shares one format.
func (n *Notes) Identity() *typed.Value[string] {
	return n.ident
}

// List returns the cached notes matching f, in stored order.
// An absent or unreadable cache yields an empty result.
func (n *Notes) List(ctx context.Context, f core.Filter) []core.Note {
	n.mu.Lock()
	all := n.load(ctx)
	n.mu.Unlock()

	out := make([]core.Note, 0, len(all))
	for _, note := range all {
		if f.Match(note) {
			out = append(out, note)
		}
	}
	return out
}

// Upsert replaces the cached note with the same ID or prepends it.
func (n *Notes) Upsert(ctx context.Context, note core.Note) {
	n.mu.Lock()
	defer n.mu.Unlock()

	all := core.Upsert(n.load(ctx), note)
	if err := n.value.Store(ctx, all); err != nil {
		n.logger.Warn("local cache write failed", "id", note.ID, "error", err)
	}
}

// Replace overwrites the whole cached collection.
func (n *Notes) Replace(ctx context.Context, notes []core.Note) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.value.Store(ctx, notes); err != nil {
		n.logger.Warn("local cache write failed", "error", err)
	}
}

// Len returns the number of cached notes across all identities.
func (n *Notes) Len(ctx context.Context) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.load(ctx))
}

// Queued returns the notes recorded by SetQueued, oldest first.
func (n *Notes) Queued(ctx context.Context) []core.Note {
	notes, err := n.queue.Load(ctx)
	if errors.Is(err, core.ErrNotFound) {
		return nil
	}
	if err != nil {
		n.logger.Warn("upload queue unreadable, treating as empty", "error", err)
		return nil
	}
	return notes
}

// SetQueued records the notes still waiting for the remote, so a later
// process can upload them. An empty queue removes the entry.
func (n *Notes) SetQueued(ctx context.Context, notes []core.Note) {
	var err error
	if len(notes) == 0 {
		err = n.queue.Delete(ctx)
		if errors.Is(err, core.ErrNotFound) {
			err = nil
		}
	} else {
		err = n.queue.Store(ctx, notes)
	}
	if err != nil {
		n.logger.Warn("upload queue write failed", "pending", len(notes), "error", err)
	}
}

// Codec returns the codec the collection is stored with.
func (n *Notes) Codec() typed.Codec {
	return n.codec
}

// load reads the collection. Callers hold n.mu.
func (n *Notes) load(ctx context.Context) []core.Note {
	notes, err := n.value.Load(ctx)
	if errors.Is(err, core.ErrNotFound) {
		return nil
	}
	if err != nil {
		n.logger.Warn("local cache unreadable, treating as empty", "error", err)
		return nil
	}
	return notes
}
