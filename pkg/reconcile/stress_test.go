package reconcile_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yesilw0rks/airnote/pkg/core"
)

// TestConcurrency_SavesRefreshesAndFlappingRemote runs writers, refreshers
// and a flapping remote together. Once the remote settles every saved note
// must reach it and stay visible.
func TestConcurrency_SavesRefreshesAndFlappingRemote(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping stress test in short mode")
	}

	f := newFixture(t)
	f.guest(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, f.r.Start(ctx))

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		saved = make(map[string]string)
	)

	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 25; i++ {
				n, err := f.r.Save(context.Background(), core.Draft{Title: fmt.Sprintf("w%d-%d", w, i)})
				if !assert.NoError(t, err) {
					return
				}
				mu.Lock()
				saved[n.ID] = n.Title
				mu.Unlock()
			}
		}(w)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			_ = f.r.Refresh(context.Background(), i%2 == 0)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 20; i++ {
			f.remote.SetOffline(i%2 == 0)
			time.Sleep(time.Millisecond)
		}
		f.remote.SetOffline(false)
	}()

	wg.Wait()

	require.NoError(t, f.r.Flush(context.Background()))
	require.NoError(t, f.r.Refresh(context.Background(), false))

	assert.Empty(t, f.r.Pending())
	assert.Len(t, f.r.Notes(), len(saved))
	for id, title := range saved {
		got, ok := f.remote.Note(id)
		if assert.True(t, ok, "note %s never reached the remote", id) {
			assert.Equal(t, title, got.Title)
		}
	}
}
