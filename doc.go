// Package airnote is the composition root of the AirNote client.
//
// AirNote keeps a list of short notes in a remote table and a local cache at
// the same time. Reads come from the remote when it answers and from the
// cache when it does not. Writes land in the cache first and are uploaded in
// the background, so nothing typed offline is lost.
//
// The package wires the domain (pkg/core), the sync policy (pkg/reconcile),
// the view state (pkg/view) and the storage adapters (pkg/adapters/*)
// behind functional options:
//
//	client, err := airnote.New("./.airnote",
//		airnote.WithURL("https://xyz.supabase.co"),
//		airnote.WithAPIKey(key),
//		airnote.WithLogger(logger),
//	)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	if err := client.Start(ctx); err != nil {
//		return err
//	}
//	_ = client.Reconciler().SwitchToGuest(ctx)
//	note, err := client.Reconciler().Save(ctx, airnote.Draft{Title: "Groceries", Content: "- **milk**"})
//
// Note bodies use a small markup language rendered by Render.
package airnote
