package reconcile

import (
	"context"

	"github.com/google/uuid"

	"github.com/yesilw0rks/airnote/pkg/core"
)

// welcomeNamespace scopes the deterministic IDs of welcome notes.
var welcomeNamespace = uuid.MustParse("6f1d7a52-3b8e-4c0a-9a57-0e2f5c1b8d44")

const (
	welcomeTitle   = "Welcome to AirNote"
	welcomeContent = "## Welcome to AirNote\n" +
		"Notes sync to the cloud and stay readable offline.\n" +
		"- **bold**, *italic*, -strike- and _underline_\n" +
		"- Start a line with ## for a heading\n" +
		"- _Just works_"
)

// WelcomeID returns the ID of the welcome note for identity.
// Every device computes the same ID, so seeding twice upserts one row.
func WelcomeID(identity string) string {
	return uuid.NewSHA1(welcomeNamespace, []byte(identity)).String()
}

// maybeSeed saves the welcome note for a guest with nothing stored anywhere.
// It runs only after the remote confirmed the guest has no notes, since the
// shared welcome row may already exist there. Only unfiltered listings
// qualify, so an empty space never triggers it.
func (r *Reconciler) maybeSeed(ctx context.Context, identity string, f core.Filter) error {
	if !r.seed || identity != core.GuestUserID || f.HasSpace() {
		return nil
	}
	if len(r.local.List(ctx, core.Filter{UserID: identity})) > 0 {
		return nil
	}

	r.mu.Lock()
	done := r.seeded[identity]
	r.seeded[identity] = true
	r.mu.Unlock()
	if done {
		return nil
	}

	n, err := r.Save(ctx, core.Draft{
		ID:      WelcomeID(identity),
		Title:   welcomeTitle,
		Content: welcomeContent,
		Tags:    []string{"welcome"},
		Space:   core.DefaultSpace,
	})
	if err != nil {
		return err
	}
	r.logger.Info("created welcome note", "id", n.ID)
	return nil
}
