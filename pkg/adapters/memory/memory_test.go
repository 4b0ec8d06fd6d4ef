package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yesilw0rks/airnote/pkg/adapters/memory"
	"github.com/yesilw0rks/airnote/pkg/core"
)

func TestKV(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewKV()

	_, err := kv.Get(ctx, "missing")
	assert.ErrorIs(t, err, core.ErrNotFound)

	require.NoError(t, kv.Set(ctx, "k", []byte("v")))
	got, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	// Returned slices are copies.
	got[0] = 'x'
	again, _ := kv.Get(ctx, "k")
	assert.Equal(t, []byte("v"), again)

	boom := errors.New("disk full")
	kv.FailWrites(boom)
	assert.ErrorIs(t, kv.Set(ctx, "k", []byte("w")), boom)
	kv.FailWrites(nil)

	require.NoError(t, kv.Delete(ctx, "k"))
	require.NoError(t, kv.Delete(ctx, "k"))
	assert.Equal(t, 0, kv.Len())
}

func TestRemote_ListFiltersAndSorts(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	r := memory.NewRemote(
		core.Note{ID: "old", UserID: "u1", Space: "Work", UpdatedAt: base},
		core.Note{ID: "new", UserID: "u1", Space: "General", UpdatedAt: base.Add(time.Hour)},
		core.Note{ID: "other", UserID: "u2", Space: "Work", UpdatedAt: base},
	)

	all, err := r.List(ctx, core.Filter{UserID: "u1"})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "new", all[0].ID)
	assert.Equal(t, "old", all[1].ID)

	work, err := r.List(ctx, core.Filter{UserID: "u1", Space: "Work"})
	require.NoError(t, err)
	require.Len(t, work, 1)
	assert.Equal(t, "old", work[0].ID)
}

func TestRemote_FailureInjection(t *testing.T) {
	ctx := context.Background()
	r := memory.NewRemote()

	r.FailNextList(errors.New("timeout"))
	_, err := r.List(ctx, core.Filter{})
	assert.ErrorIs(t, err, core.ErrRemoteUnavailable)
	_, err = r.List(ctx, core.Filter{})
	assert.NoError(t, err)

	r.FailNextUpsert(errors.New("rejected"))
	assert.ErrorIs(t, r.Upsert(ctx, core.Note{ID: "a"}), core.ErrRemoteWriteFailed)
	assert.Equal(t, 0, r.Len())

	r.SetOffline(true)
	_, err = r.List(ctx, core.Filter{})
	assert.ErrorIs(t, err, memory.ErrOffline)
	assert.ErrorIs(t, r.Upsert(ctx, core.Note{ID: "a"}), memory.ErrOffline)

	r.SetOffline(false)
	require.NoError(t, r.Upsert(ctx, core.Note{ID: "a"}))
	_, ok := r.Note("a")
	assert.True(t, ok)

	list, upsert := r.Calls()
	assert.Equal(t, 3, list)
	assert.Equal(t, 3, upsert)
}
