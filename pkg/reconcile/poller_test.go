package reconcile_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yesilw0rks/airnote/pkg/core"
	"github.com/yesilw0rks/airnote/pkg/reconcile"
)

func TestPoller_RefreshesWithIdentity(t *testing.T) {
	f := newFixture(t)
	f.guest(t)
	f.remote.Put(core.Note{ID: "r1", UserID: core.GuestUserID, Title: "r", Space: "General"})

	p := reconcile.NewPoller(f.r, 10*time.Millisecond)
	assert.False(t, p.Running())
	p.Start(context.Background())
	p.Start(context.Background())
	assert.True(t, p.Running())

	require.Eventually(t, func() bool {
		return len(f.r.Notes()) == 1 && p.Ticks() > 0
	}, 2*time.Second, 5*time.Millisecond)

	p.Stop()
	assert.False(t, p.Running())

	// No more scheduling after Stop.
	time.Sleep(30 * time.Millisecond)
	ticks := p.Ticks()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, ticks, p.Ticks())
}

func TestPoller_IdleWithoutIdentity(t *testing.T) {
	f := newFixture(t)
	p := reconcile.NewPoller(f.r, 5*time.Millisecond)
	p.Start(context.Background())
	defer p.Stop()

	time.Sleep(50 * time.Millisecond)
	list, _ := f.remote.Calls()
	assert.Equal(t, 0, list)
	assert.Equal(t, uint64(0), p.Ticks())
}

func TestPoller_DefaultInterval(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, reconcile.DefaultPollInterval, reconcile.NewPoller(f.r, 0).Interval())
}

func TestPoller_SilentFailures(t *testing.T) {
	f := newFixture(t)
	f.guest(t)
	f.remote.SetOffline(true)

	p := reconcile.NewPoller(f.r, 5*time.Millisecond)
	p.Start(context.Background())
	defer p.Stop()

	require.Eventually(t, func() bool {
		return f.r.ConnState() == reconcile.Degraded
	}, 2*time.Second, 5*time.Millisecond)
}
