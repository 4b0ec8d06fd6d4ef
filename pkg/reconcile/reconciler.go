// Package reconcile implements the AirNote sync policy.
//
// The Reconciler owns the in-memory note collection shown to the user. Writes
// are applied optimistically to the collection and the local cache, then
// queued for the remote service. Reads prefer the remote service and fall
// back to the local cache, moving the connection state to Degraded until the
// next successful remote call.
package reconcile

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/google/uuid"

	"github.com/yesilw0rks/airnote/pkg/cache"
	"github.com/yesilw0rks/airnote/pkg/core"
)

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Reconciler) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(r *Reconciler) {
		if now != nil {
			r.now = now
		}
	}
}

// WithIDGenerator replaces the random note ID source.
func WithIDGenerator(gen func() string) Option {
	return func(r *Reconciler) {
		if gen != nil {
			r.newID = gen
		}
	}
}

// WithWelcomeSeed toggles creation of the Welcome note for an empty guest collection.
func WithWelcomeSeed(enabled bool) Option {
	return func(r *Reconciler) {
		r.seed = enabled
	}
}

// WithSpace sets the initial space filter. core.AllSpaces when unset.
func WithSpace(space string) Option {
	return func(r *Reconciler) {
		if s := strings.TrimSpace(space); s != "" {
			r.space = s
		}
	}
}

// Reconciler coordinates the remote note service and the local cache.
type Reconciler struct {
	remote  core.RemoteStore
	local   *cache.Notes
	session *core.Session
	outbox  *outbox
	events  *broker

	logger *slog.Logger
	now    func() time.Time
	newID  func() string
	seed   bool

	mu         sync.Mutex
	space      string
	notes      []core.Note
	conn       ConnState
	issuedSeq  uint64
	appliedSeq uint64
	lastSync   *time.Time
	lastErr    error
	seeded     map[string]bool

	startOnce sync.Once
	cancel    context.CancelFunc
	done      chan struct{}
}

// New creates a Reconciler. Call Start to run the background outbox worker.
func New(remote core.RemoteStore, local *cache.Notes, session *core.Session, opts ...Option) *Reconciler {
	r := &Reconciler{
		remote:  remote,
		local:   local,
		session: session,
		outbox:  newOutbox(remote),
		events:  newBroker(),
		logger:  slog.New(slog.DiscardHandler),
		now:     time.Now,
		newID:   func() string { return uuid.NewString() },
		seed:    true,
		space:   core.AllSpaces,
		seeded:  make(map[string]bool),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.outbox.onSynced = r.handleSynced
	r.outbox.onFailed = r.handleSyncFailed
	r.outbox.persist = func(notes []core.Note) {
		r.local.SetQueued(context.Background(), notes)
	}
	return r
}

// Start runs the outbox worker until ctx is done or Close is called.
func (r *Reconciler) Start(ctx context.Context) error {
	started := false
	r.startOnce.Do(func() {
		started = true
		runCtx, cancel := context.WithCancel(ctx)
		r.cancel = cancel
		r.done = make(chan struct{})

		lifecycle.Go(runCtx, func(ctx context.Context) error {
			defer close(r.done)
			return r.outbox.run(ctx)
		}, lifecycle.WithErrorHandler(func(err error) {
			r.logger.Error("outbox worker stopped", "error", err)
		}))
		if n := r.outbox.restore(r.local.Queued(ctx)); n > 0 {
			r.logger.Info("resuming pending uploads", "count", n)
		}
		// Notes left over from a previous failure go out first.
		r.outbox.signal()
	})
	if !started {
		return errors.New("reconciler already started")
	}
	return nil
}

// Close stops the outbox worker and closes every subscription.
// An upsert already in flight completes.
func (r *Reconciler) Close() error {
	if r.cancel != nil {
		r.cancel()
		<-r.done
	}
	r.events.close()
	return nil
}

// Session returns the identity context.
func (r *Reconciler) Session() *core.Session {
	return r.session
}

// Subscribe returns a channel of change events and a function that ends the subscription.
// Events are dropped for a subscriber whose buffer is full.
func (r *Reconciler) Subscribe(buffer int) (<-chan core.Event, func()) {
	return r.events.subscribe(buffer)
}

// Notes returns a copy of the current collection.
func (r *Reconciler) Notes() []core.Note {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]core.Note(nil), r.notes...)
}

// Note returns the collection entry with id.
func (r *Reconciler) Note(id string) (core.Note, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.notes {
		if n.ID == id {
			return n, true
		}
	}
	return core.Note{}, false
}

// Space returns the current space filter.
func (r *Reconciler) Space() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.space
}

// SetSpace changes the space filter. The next Refresh applies it.
func (r *Reconciler) SetSpace(space string) {
	space = strings.TrimSpace(space)
	if space == "" {
		space = core.AllSpaces
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.space = space
}

// DefaultSpace returns the space a note saved without one is filed under.
func (r *Reconciler) DefaultSpace() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return defaultSpace(r.space)
}

func defaultSpace(current string) string {
	if current == "" || current == core.AllSpaces {
		return core.DefaultSpace
	}
	return current
}

// ConnState returns the connection state.
func (r *Reconciler) ConnState() ConnState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.conn
}

// Pending returns the notes waiting for the remote, oldest first.
func (r *Reconciler) Pending() []core.Note {
	return r.outbox.pending()
}

// Flush sends pending notes now and returns the first failure.
func (r *Reconciler) Flush(ctx context.Context) error {
	return r.outbox.drain(ctx)
}

// Refresh reloads the collection for the current identity and space.
//
// The remote service is asked first. On success the collection becomes the
// remote result plus any locally saved notes not yet accepted remotely, and
// pending notes are flushed. On failure the collection is loaded from the
// local cache; a non-silent refresh then returns a *RefreshError, a silent
// one returns nil. Results of a refresh started for another identity, or
// overtaken by a later refresh, are discarded.
func (r *Reconciler) Refresh(ctx context.Context, silent bool) error {
	identity, epoch := r.session.Snapshot()
	if identity == "" {
		return core.ErrNoIdentity
	}

	r.mu.Lock()
	r.issuedSeq++
	seq := r.issuedSeq
	f := core.Filter{UserID: identity, Space: r.space}
	r.mu.Unlock()

	notes, err := r.remote.List(ctx, f)
	if err != nil {
		r.setConn(Degraded, err)
		cached := r.local.List(ctx, f)
		applied := r.apply(epoch, seq, f, cached)

		if silent {
			r.logger.Debug("background refresh failed, using local cache", "error", err, "cached", len(cached))
			return nil
		}
		r.logger.Warn("refresh failed, using local cache", "error", err, "cached", len(cached))
		if !applied {
			return nil
		}
		return &RefreshError{Err: err, FromCache: true, Cached: len(cached)}
	}

	r.setConn(Connected, nil)
	if !r.apply(epoch, seq, f, notes) {
		r.logger.Debug("discarding stale refresh", "user_id", identity, "space", f.Space)
		return nil
	}
	r.mu.Lock()
	now := r.now()
	r.lastSync = &now
	r.mu.Unlock()

	if len(notes) == 0 {
		if err := r.maybeSeed(ctx, identity, f); err != nil {
			r.logger.Warn("welcome note not created", "error", err)
		}
	}

	// Retry anything a previous failure left behind.
	if r.outbox.len() > 0 {
		r.outbox.signal()
	}
	return nil
}

// apply installs notes as the collection unless the result is stale.
func (r *Reconciler) apply(epoch, seq uint64, f core.Filter, notes []core.Note) bool {
	pending := r.outbox.pending()

	r.mu.Lock()
	if r.session.Epoch() != epoch || seq < r.appliedSeq {
		r.mu.Unlock()
		return false
	}
	r.appliedSeq = seq

	out := append([]core.Note(nil), notes...)
	for _, p := range pending {
		if f.Match(p) {
			out = core.Upsert(out, p)
		}
	}
	r.notes = out
	r.mu.Unlock()

	r.publish(core.EventRefreshed, f.UserID, nil)
	return true
}

// Save applies draft to the collection and the local cache and queues it
// for the remote service. An empty draft is ignored and returns nil.
func (r *Reconciler) Save(ctx context.Context, draft core.Draft) (*core.Note, error) {
	identity, ok := r.session.Identity()
	if !ok {
		return nil, core.ErrNoIdentity
	}
	if draft.IsEmpty() {
		return nil, nil
	}

	now := r.now()
	n := core.Note{
		ID:        strings.TrimSpace(draft.ID),
		UserID:    identity,
		Title:     draft.Title,
		Content:   draft.Content,
		Tags:      core.NormalizeTags(draft.Tags),
		Space:     strings.TrimSpace(draft.Space),
		CreatedAt: draft.CreatedAt,
		UpdatedAt: now,
	}

	r.mu.Lock()
	if n.ID == "" {
		n.ID = r.newID()
	} else if n.CreatedAt.IsZero() {
		for _, existing := range r.notes {
			if existing.ID == n.ID {
				n.CreatedAt = existing.CreatedAt
				break
			}
		}
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = now
	}
	if n.UpdatedAt.Before(n.CreatedAt) {
		n.UpdatedAt = n.CreatedAt
	}
	if n.Space == "" {
		n.Space = defaultSpace(r.space)
	}
	r.notes = core.Upsert(r.notes, n)
	r.mu.Unlock()

	r.local.Upsert(ctx, n)
	r.outbox.enqueue(n)
	r.publish(core.EventSaved, n.ID, nil)
	return &n, nil
}

// SwitchIdentity establishes identity, clears the collection when it
// changed and refreshes. The refresh result is returned as from Refresh.
func (r *Reconciler) SwitchIdentity(ctx context.Context, identity string) error {
	before := r.session.Epoch()
	if err := r.session.Establish(ctx, identity); err != nil {
		return err
	}
	r.identityChanged(before)
	return r.Refresh(ctx, false)
}

// SwitchToGuest is SwitchIdentity for the shared guest identity.
func (r *Reconciler) SwitchToGuest(ctx context.Context) error {
	return r.SwitchIdentity(ctx, core.GuestUserID)
}

// SignOut clears the identity and the collection.
// Notes still pending keep their owner and stay queued. A failure to
// remove the persisted identity is returned after the collection is cleared.
func (r *Reconciler) SignOut(ctx context.Context) error {
	before := r.session.Epoch()
	err := r.session.Clear(ctx)
	r.identityChanged(before)
	return err
}

func (r *Reconciler) identityChanged(before uint64) {
	if r.session.Epoch() == before {
		return
	}
	r.mu.Lock()
	r.notes = nil
	r.mu.Unlock()
	id, _ := r.session.Identity()
	r.publish(core.EventIdentityChanged, id, nil)
}

func (r *Reconciler) handleSynced(n core.Note) {
	r.setConn(Connected, nil)
	r.mu.Lock()
	now := r.now()
	r.lastSync = &now
	r.mu.Unlock()
	r.logger.Debug("note synced", "id", n.ID)
	r.publish(core.EventSynced, n.ID, nil)
}

func (r *Reconciler) handleSyncFailed(n core.Note, err error) {
	r.setConn(Degraded, err)
	r.logger.Warn("note kept locally, remote write failed", "id", n.ID, "error", err)
	r.publish(core.EventSyncFailed, n.ID, err)
}

// setConn records the outcome of a remote call and publishes transitions.
func (r *Reconciler) setConn(state ConnState, cause error) {
	r.mu.Lock()
	changed := r.conn != state
	r.conn = state
	r.lastErr = cause
	r.mu.Unlock()

	if changed {
		r.logger.Info("connection state changed", "state", state.String())
		r.publish(core.EventStateChanged, state.String(), cause)
	}
}

func (r *Reconciler) publish(t core.EventType, id string, err error) {
	r.events.publish(core.Event{
		Type:      t,
		ID:        id,
		Timestamp: r.now().Unix(),
		Err:       err,
	})
}
