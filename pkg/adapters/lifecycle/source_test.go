package lifecycle_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	airlifecycle "github.com/yesilw0rks/airnote/pkg/adapters/lifecycle"
	"github.com/yesilw0rks/airnote/pkg/core"
)

func TestSource_ForwardsSelectedEvents(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	in := make(chan core.Event, 3)
	src := airlifecycle.NewSource(in, core.EventSynced, core.EventSyncFailed)
	require.NoError(t, src.Start(ctx))

	in <- core.Event{Type: core.EventSaved, ID: "a"}
	in <- core.Event{Type: core.EventSynced, ID: "a"}
	close(in)

	select {
	case e, ok := <-src.Events():
		require.True(t, ok)
		assert.Equal(t, "SYNCED a", e.String())
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}

	select {
	case _, ok := <-src.Events():
		assert.False(t, ok, "source closes with its input")
	case <-time.After(2 * time.Second):
		t.Fatal("source did not close")
	}
}
