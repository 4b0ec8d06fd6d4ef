package reconcile

import (
	"context"

	"github.com/aretw0/lifecycle"

	"github.com/yesilw0rks/airnote/pkg/cache"
	"github.com/yesilw0rks/airnote/pkg/core"
)

// WatchLocal reloads the collection from the local cache whenever events
// reports a change to the cache key while the remote is unreachable. Another
// process writing the shared cache then shows up without a remote refresh.
// It returns immediately; watching ends when ctx is done or events closes.
func (r *Reconciler) WatchLocal(ctx context.Context, events <-chan core.Event) {
	lifecycle.Go(ctx, func(ctx context.Context) error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-events:
				if !ok {
					return nil
				}
				if e.Type != core.EventCacheChanged || e.ID != cache.Key {
					continue
				}
				if r.ConnState() != Degraded {
					continue
				}
				r.reloadLocal(ctx)
			}
		}
	}, lifecycle.WithErrorHandler(func(err error) {
		r.logger.Error("local watch stopped", "error", err)
	}))
}

func (r *Reconciler) reloadLocal(ctx context.Context) {
	identity, epoch := r.session.Snapshot()
	if identity == "" {
		return
	}
	r.mu.Lock()
	r.issuedSeq++
	seq := r.issuedSeq
	f := core.Filter{UserID: identity, Space: r.space}
	r.mu.Unlock()

	notes := r.local.List(ctx, f)
	if r.apply(epoch, seq, f, notes) {
		r.logger.Debug("reloaded collection from local cache", "count", len(notes))
	}
}
