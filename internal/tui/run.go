package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/yesilw0rks/airnote/pkg/reconcile"
	"github.com/yesilw0rks/airnote/pkg/view"
)

// Run starts the controller and blocks until the user quits or ctx is done.
func Run(ctx context.Context, v *view.Controller, r *reconcile.Reconciler) error {
	events, unsubscribe := r.Subscribe(64)
	defer unsubscribe()

	if err := v.Start(ctx); err != nil {
		return err
	}
	defer v.Stop()

	p := tea.NewProgram(New(ctx, v, events), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if ctx.Err() != nil {
		// Interrupted by a signal, not a failure.
		return nil
	}
	return err
}
