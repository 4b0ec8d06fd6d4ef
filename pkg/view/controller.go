// Package view holds the state behind the note screens: which notes are
// listed, which one is selected, which screen is active and which space
// filter applies. Front ends render it and forward user actions to it.
package view

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/yesilw0rks/airnote/pkg/core"
	"github.com/yesilw0rks/airnote/pkg/reconcile"
)

// Mode is the active screen.
type Mode string

const (
	ModeList   Mode = "list"
	ModeDetail Mode = "detail"
	ModeEdit   Mode = "edit"
	ModeCreate Mode = "create"
)

// Status is the transient sync indicator.
type Status string

const (
	StatusSynced  Status = "synced"
	StatusOffline Status = "offline"
	StatusPending Status = "pending"
)

var (
	ErrNoSelection  = errors.New("no note selected")
	ErrInvalidSpace = errors.New("space name is empty or already exists")
)

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithSpaces replaces the initial space list.
func WithSpaces(spaces ...string) Option {
	return func(c *Controller) {
		c.spaces = nil
		for _, s := range spaces {
			c.addSpace(s)
		}
	}
}

// Controller is the view state of one client.
type Controller struct {
	r      *reconcile.Reconciler
	poller *reconcile.Poller
	logger *slog.Logger

	mu       sync.Mutex
	ctx      context.Context
	mode     Mode
	selected string
	spaces   []string
}

// New creates a controller in list mode. poller may be nil to disable polling.
func New(r *reconcile.Reconciler, poller *reconcile.Poller, opts ...Option) *Controller {
	c := &Controller{
		r:      r,
		poller: poller,
		logger: slog.New(slog.DiscardHandler),
		mode:   ModeList,
		spaces: slices.Clone(core.DefaultSpaces),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start loads the collection for a restored identity and begins polling.
// ctx bounds the polling loop.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	c.ctx = ctx
	c.mu.Unlock()

	if _, ok := c.r.Session().Identity(); ok {
		if err := c.refresh(ctx); err != nil {
			return err
		}
	}
	c.schedule()
	return nil
}

// Stop ends polling.
func (c *Controller) Stop() {
	if c.poller != nil {
		c.poller.Stop()
	}
}

// Notes returns the listed notes.
func (c *Controller) Notes() []core.Note {
	return c.r.Notes()
}

// Mode returns the active screen.
func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// Selected returns the selected note, if any.
func (c *Controller) Selected() (core.Note, bool) {
	c.mu.Lock()
	id := c.selected
	c.mu.Unlock()
	if id == "" {
		return core.Note{}, false
	}
	return c.r.Note(id)
}

// Open selects a note and shows it.
func (c *Controller) Open(id string) error {
	if _, ok := c.r.Note(id); !ok {
		return core.ErrNotFound
	}
	c.setMode(ModeDetail, id)
	return nil
}

// New starts a blank note.
func (c *Controller) New() {
	c.setMode(ModeCreate, "")
}

// Edit switches the selected note to the editor.
func (c *Controller) Edit() error {
	if _, ok := c.Selected(); !ok {
		return ErrNoSelection
	}
	c.mu.Lock()
	id := c.selected
	c.mu.Unlock()
	c.setMode(ModeEdit, id)
	return nil
}

// Back returns to the list.
func (c *Controller) Back() {
	c.setMode(ModeList, "")
}

// Cancel leaves the editor: a new note goes back to the list, an edit back to the note.
func (c *Controller) Cancel() {
	c.mu.Lock()
	mode, id := c.mode, c.selected
	c.mu.Unlock()

	switch mode {
	case ModeCreate:
		c.setMode(ModeList, "")
	case ModeEdit:
		c.setMode(ModeDetail, id)
	}
}

// Draft returns the editor contents for the current mode.
func (c *Controller) Draft() core.Draft {
	if c.Mode() == ModeEdit {
		if n, ok := c.Selected(); ok {
			return core.DraftOf(n)
		}
	}
	return core.Draft{Space: c.DraftSpace()}
}

// Save stores the draft and returns to the list. An empty draft only returns to the list.
func (c *Controller) Save(ctx context.Context, draft core.Draft) (*core.Note, error) {
	n, err := c.r.Save(ctx, draft)
	if err != nil {
		return nil, err
	}
	c.setMode(ModeList, "")
	return n, nil
}

// DraftSpace is the space a new note starts in.
func (c *Controller) DraftSpace() string {
	return c.r.DefaultSpace()
}

// Spaces returns the known spaces.
func (c *Controller) Spaces() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.spaces)
}

// CurrentSpace returns the active space filter.
func (c *Controller) CurrentSpace() string {
	return c.r.Space()
}

// AddSpace adds a space to the list.
func (c *Controller) AddSpace(name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.addSpace(name) {
		return ErrInvalidSpace
	}
	return nil
}

// addSpace appends a trimmed, unseen name. Callers hold c.mu or own c.
func (c *Controller) addSpace(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" || name == core.AllSpaces || slices.Contains(c.spaces, name) {
		return false
	}
	c.spaces = append(c.spaces, name)
	return true
}

// SelectSpace filters the list by space and reloads it. core.AllSpaces clears the filter.
func (c *Controller) SelectSpace(ctx context.Context, name string) error {
	c.r.SetSpace(name)
	c.setMode(ModeList, "")
	if _, ok := c.r.Session().Identity(); !ok {
		return nil
	}
	return c.refresh(ctx)
}

// Identity returns the signed-in identity.
func (c *Controller) Identity() (string, bool) {
	return c.r.Session().Identity()
}

// SignIn switches to identity and loads its notes.
func (c *Controller) SignIn(ctx context.Context, identity string) error {
	return c.signIn(ctx, identity)
}

// SignInGuest switches to the shared guest identity.
func (c *Controller) SignInGuest(ctx context.Context) error {
	return c.signIn(ctx, core.GuestUserID)
}

func (c *Controller) signIn(ctx context.Context, identity string) error {
	err := c.r.SwitchIdentity(ctx, identity)
	if reconcile.IsOffline(err) {
		c.logger.Info("signed in offline", "error", err)
		err = nil
	}
	if err != nil {
		return err
	}
	c.setMode(ModeList, "")
	return nil
}

// SignOut clears the identity and stops polling.
func (c *Controller) SignOut(ctx context.Context) error {
	err := c.r.SignOut(ctx)
	c.setMode(ModeList, "")
	return err
}

// Refresh reloads the list. Falling back to the local cache is not an error.
func (c *Controller) Refresh(ctx context.Context) error {
	return c.refresh(ctx)
}

func (c *Controller) refresh(ctx context.Context) error {
	err := c.r.Refresh(ctx, false)
	if reconcile.IsOffline(err) {
		c.logger.Info("showing cached notes", "error", err)
		return nil
	}
	return err
}

// Status returns the sync indicator.
func (c *Controller) Status() Status {
	if c.r.ConnState() == reconcile.Degraded {
		return StatusOffline
	}
	if len(c.r.Pending()) > 0 {
		return StatusPending
	}
	return StatusSynced
}

// Polling reports whether background refreshes are scheduled.
func (c *Controller) Polling() bool {
	return c.poller != nil && c.poller.Running()
}

func (c *Controller) setMode(mode Mode, selected string) {
	c.mu.Lock()
	c.mode = mode
	c.selected = selected
	c.mu.Unlock()
	c.schedule()
}

// schedule polls only while the list is shown for an established identity.
func (c *Controller) schedule() {
	if c.poller == nil {
		return
	}
	c.mu.Lock()
	ctx, mode := c.ctx, c.mode
	c.mu.Unlock()

	_, signedIn := c.r.Session().Identity()
	if ctx != nil && mode == ModeList && signedIn {
		c.poller.Start(ctx)
		return
	}
	c.poller.Stop()
}
