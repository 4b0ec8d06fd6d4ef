package view_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yesilw0rks/airnote/pkg/adapters/memory"
	"github.com/yesilw0rks/airnote/pkg/cache"
	"github.com/yesilw0rks/airnote/pkg/core"
	"github.com/yesilw0rks/airnote/pkg/reconcile"
	"github.com/yesilw0rks/airnote/pkg/view"
)

func setup(t *testing.T) (*view.Controller, *memory.Remote) {
	t.Helper()
	kv := memory.NewKV()
	remote := memory.NewRemote()
	local := cache.New(kv)
	r := reconcile.New(remote, local, core.NewSession(local.Identity()), reconcile.WithWelcomeSeed(false))
	p := reconcile.NewPoller(r, time.Hour)
	c := view.New(r, p)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(func() {
		c.Stop()
		cancel()
		_ = r.Close()
	})
	require.NoError(t, c.Start(ctx))
	return c, remote
}

func TestController_ModeFlow(t *testing.T) {
	ctx := context.Background()
	c, _ := setup(t)
	require.NoError(t, c.SignInGuest(ctx))
	assert.Equal(t, view.ModeList, c.Mode())
	assert.True(t, c.Polling())

	c.New()
	assert.Equal(t, view.ModeCreate, c.Mode())
	assert.False(t, c.Polling(), "polling runs only in list mode")
	assert.Equal(t, core.DefaultSpace, c.Draft().Space)

	c.Cancel()
	assert.Equal(t, view.ModeList, c.Mode())
	assert.True(t, c.Polling())

	n, err := c.Save(ctx, core.Draft{Title: "First", Content: "**hi**"})
	require.NoError(t, err)
	assert.Equal(t, view.ModeList, c.Mode())
	_, ok := c.Selected()
	assert.False(t, ok)

	require.NoError(t, c.Open(n.ID))
	assert.Equal(t, view.ModeDetail, c.Mode())
	sel, ok := c.Selected()
	require.True(t, ok)
	assert.Equal(t, "First", sel.Title)

	require.NoError(t, c.Edit())
	assert.Equal(t, view.ModeEdit, c.Mode())
	assert.Equal(t, n.ID, c.Draft().ID)

	c.Cancel()
	assert.Equal(t, view.ModeDetail, c.Mode())

	c.Back()
	assert.Equal(t, view.ModeList, c.Mode())
	assert.ErrorIs(t, c.Edit(), view.ErrNoSelection)
	assert.ErrorIs(t, c.Open("missing"), core.ErrNotFound)
}

func TestController_EmptySaveReturnsToList(t *testing.T) {
	ctx := context.Background()
	c, _ := setup(t)
	require.NoError(t, c.SignInGuest(ctx))

	c.New()
	n, err := c.Save(ctx, core.Draft{})
	require.NoError(t, err)
	assert.Nil(t, n)
	assert.Empty(t, c.Notes())
	assert.Equal(t, view.ModeList, c.Mode())
}

func TestController_Spaces(t *testing.T) {
	ctx := context.Background()
	c, remote := setup(t)
	require.NoError(t, c.SignInGuest(ctx))
	remote.Put(core.Note{ID: "w", UserID: core.GuestUserID, Space: "Work", Title: "w"})
	remote.Put(core.Note{ID: "g", UserID: core.GuestUserID, Space: "General", Title: "g"})

	assert.Equal(t, []string{"General", "Personal", "Work"}, c.Spaces())
	require.NoError(t, c.AddSpace(" Travel "))
	assert.ErrorIs(t, c.AddSpace("Travel"), view.ErrInvalidSpace)
	assert.ErrorIs(t, c.AddSpace("  "), view.ErrInvalidSpace)
	assert.Contains(t, c.Spaces(), "Travel")

	require.NoError(t, c.SelectSpace(ctx, "Work"))
	assert.Equal(t, "Work", c.CurrentSpace())
	assert.Equal(t, "Work", c.DraftSpace())
	require.Len(t, c.Notes(), 1)
	assert.Equal(t, "w", c.Notes()[0].ID)

	require.NoError(t, c.SelectSpace(ctx, core.AllSpaces))
	assert.Len(t, c.Notes(), 2)
	assert.Equal(t, core.DefaultSpace, c.DraftSpace())
}

func TestController_StatusAndOfflineSignIn(t *testing.T) {
	ctx := context.Background()
	c, remote := setup(t)

	remote.SetOffline(true)
	require.NoError(t, c.SignIn(ctx, "alice"), "falling back to the cache is not an error")
	assert.Equal(t, view.StatusOffline, c.Status())

	remote.SetOffline(false)
	require.NoError(t, c.Refresh(ctx))
	assert.Equal(t, view.StatusSynced, c.Status())

	remote.FailNextUpsert(errors.New("rejected"))
	_, err := c.Save(ctx, core.Draft{Title: "x"})
	require.NoError(t, err)
	// The worker is not started in this setup, so the note stays queued.
	assert.Equal(t, view.StatusPending, c.Status())
}

func TestController_SignOutStopsPolling(t *testing.T) {
	ctx := context.Background()
	c, _ := setup(t)
	assert.False(t, c.Polling(), "no identity, no polling")

	require.NoError(t, c.SignIn(ctx, "bob"))
	assert.True(t, c.Polling())

	require.NoError(t, c.SignOut(ctx))
	assert.False(t, c.Polling())
	assert.Empty(t, c.Notes())
}
