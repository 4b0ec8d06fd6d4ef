package platform

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/yesilw0rks/airnote/pkg/adapters/fs"
	"github.com/yesilw0rks/airnote/pkg/cache"
	"github.com/yesilw0rks/airnote/pkg/core"
	"github.com/yesilw0rks/airnote/pkg/reconcile"
	"github.com/yesilw0rks/airnote/pkg/typed"
	"github.com/yesilw0rks/airnote/pkg/view"
)

// Client is a fully wired AirNote client.
type Client struct {
	store      core.KeyValue
	notes      *cache.Notes
	session    *core.Session
	remote     core.RemoteStore
	reconciler *reconcile.Reconciler
	poller     *reconcile.Poller
	view       *view.Controller
	logger     *slog.Logger
	watchLocal bool

	mu      sync.Mutex
	started bool
	cancel  context.CancelFunc
}

// New wires the local cache, the remote service and the sync policy.
// The dir argument is the cache directory of the "fs" adapter.
// A previously persisted identity is restored.
//
//	c, err := airnote.New("./.airnote", airnote.WithURL(url), airnote.WithAPIKey(key))
func New(dir string, opts ...Option) (*Client, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.DiscardHandler)
	}

	store, err := initStore(dir, o)
	if err != nil {
		return nil, err
	}

	remote, err := initRemote(o)
	if err != nil {
		return nil, err
	}

	ext, _ := o.config["cache_ext"].(string)
	if fsStore, ok := store.(*fs.Store); ok {
		ext = fsStore.Ext()
	}
	notes := cache.New(store, cache.WithLogger(o.logger), cache.WithCodec(typed.CodecFor(ext)))

	session := core.NewSession(notes.Identity())
	if _, err := session.Restore(context.Background()); err != nil {
		o.logger.Warn("stored identity unreadable, starting signed out", "error", err)
	}

	rOpts := []reconcile.Option{reconcile.WithLogger(o.logger)}
	if seed, ok := o.config["welcome_seed"].(bool); ok {
		rOpts = append(rOpts, reconcile.WithWelcomeSeed(seed))
	}
	r := reconcile.New(remote, notes, session, rOpts...)

	interval, _ := o.config["poll_interval"].(time.Duration)
	poller := reconcile.NewPoller(r, interval)

	vOpts := []view.Option{view.WithLogger(o.logger)}
	if spaces, ok := o.config["spaces"].([]string); ok {
		vOpts = append(vOpts, view.WithSpaces(spaces...))
	}

	watchLocal, _ := o.config["watch_local"].(bool)

	return &Client{
		store:      store,
		notes:      notes,
		session:    session,
		remote:     remote,
		reconciler: r,
		poller:     poller,
		view:       view.New(r, poller, vOpts...),
		logger:     o.logger,
		watchLocal: watchLocal,
	}, nil
}

// Start runs the background outbox worker and, when enabled, the local
// cache watch. Work stops when ctx is done or Close is called.
func (c *Client) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started {
		return errors.New("client already started")
	}

	runCtx, cancel := context.WithCancel(ctx)
	if err := c.reconciler.Start(runCtx); err != nil {
		cancel()
		return err
	}

	if c.watchLocal {
		if w, ok := c.store.(core.Watchable); ok {
			events, err := w.Watch(runCtx, cache.Key)
			if err != nil {
				cancel()
				return err
			}
			c.reconciler.WatchLocal(runCtx, events)
		} else {
			c.logger.Debug("local cache is not watchable, skipping watch")
		}
	}

	c.started = true
	c.cancel = cancel
	return nil
}

// Close stops polling and background work. Notes still queued for upload
// stay in the local cache and go out on the next run.
func (c *Client) Close() error {
	c.view.Stop()

	c.mu.Lock()
	cancel := c.cancel
	c.cancel = nil
	c.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	return c.reconciler.Close()
}

// Reconciler returns the sync policy.
func (c *Client) Reconciler() *reconcile.Reconciler { return c.reconciler }

// View returns the view-state controller.
func (c *Client) View() *view.Controller { return c.view }

// Poller returns the background refresh loop.
func (c *Client) Poller() *reconcile.Poller { return c.poller }

// Session returns the identity context.
func (c *Client) Session() *core.Session { return c.session }

// Cache returns the local half of the note store.
func (c *Client) Cache() *cache.Notes { return c.notes }

// Store returns the local key/value store.
func (c *Client) Store() core.KeyValue { return c.store }

// Remote returns the remote note service.
func (c *Client) Remote() core.RemoteStore { return c.remote }
