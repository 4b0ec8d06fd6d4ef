package cache_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yesilw0rks/airnote/pkg/adapters/memory"
	"github.com/yesilw0rks/airnote/pkg/cache"
	"github.com/yesilw0rks/airnote/pkg/core"
	"github.com/yesilw0rks/airnote/pkg/typed"
)

func TestNotes_EmptyCache(t *testing.T) {
	c := cache.New(memory.NewKV())
	assert.Empty(t, c.List(context.Background(), core.Filter{}))
}

func TestNotes_UpsertAndFilter(t *testing.T) {
	ctx := context.Background()
	c := cache.New(memory.NewKV())

	c.Upsert(ctx, core.Note{ID: "a", UserID: "u1", Space: "Work", Title: "A"})
	c.Upsert(ctx, core.Note{ID: "b", UserID: "u1", Space: "General", Title: "B"})
	c.Upsert(ctx, core.Note{ID: "c", UserID: "u2", Space: "Work", Title: "C"})

	all := c.List(ctx, core.Filter{UserID: "u1"})
	require.Len(t, all, 2)
	assert.Equal(t, "b", all[0].ID, "new notes are prepended")

	work := c.List(ctx, core.Filter{UserID: "u1", Space: "Work"})
	require.Len(t, work, 1)
	assert.Equal(t, "a", work[0].ID)

	c.Upsert(ctx, core.Note{ID: "a", UserID: "u1", Space: "Work", Title: "A2"})
	all = c.List(ctx, core.Filter{UserID: "u1"})
	require.Len(t, all, 2)
	assert.Equal(t, "A2", all[1].Title, "existing notes are replaced in place")
	assert.Equal(t, 3, c.Len(ctx))
}

func TestNotes_CorruptCacheIsEmpty(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewKV()
	require.NoError(t, kv.Set(ctx, cache.Key, []byte("garbage")))

	var buf bytes.Buffer
	c := cache.New(kv, cache.WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))
	assert.Empty(t, c.List(ctx, core.Filter{}))
	assert.Contains(t, buf.String(), "local cache unreadable")

	// The next write starts a fresh collection.
	c.Upsert(ctx, core.Note{ID: "a"})
	assert.Len(t, c.List(ctx, core.Filter{}), 1)
}

func TestNotes_WriteFailureIsLogged(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewKV()
	kv.FailWrites(errors.New("quota exceeded"))

	var buf bytes.Buffer
	c := cache.New(kv, cache.WithLogger(slog.New(slog.NewTextHandler(&buf, nil))))
	c.Upsert(ctx, core.Note{ID: "a"})

	assert.Contains(t, buf.String(), "local cache write failed")
	assert.Empty(t, c.List(ctx, core.Filter{}))
}

func TestNotes_YAMLCodec(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewKV()
	c := cache.New(kv, cache.WithCodec(typed.YAML))
	c.Upsert(ctx, core.Note{ID: "a", Title: "Hello"})

	raw, err := kv.Get(ctx, cache.Key)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "title: Hello")
	assert.Equal(t, "yaml", c.Codec().Name())
}

func TestNotes_Queue(t *testing.T) {
	ctx := context.Background()
	kv := memory.NewKV()
	c := cache.New(kv)

	assert.Empty(t, c.Queued(ctx))

	c.SetQueued(ctx, []core.Note{{ID: "a"}, {ID: "b"}})
	assert.Equal(t, []string{"a", "b"}, []string{c.Queued(ctx)[0].ID, c.Queued(ctx)[1].ID})

	// An empty queue removes the entry.
	c.SetQueued(ctx, nil)
	_, err := kv.Get(ctx, cache.QueueKey)
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.Empty(t, c.Queued(ctx))
}
