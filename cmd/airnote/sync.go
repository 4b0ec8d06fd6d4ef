package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

// syncCmd represents the sync command
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Synchronize the local cache with the remote",
	Long: `Upload notes saved while offline and reload the list from the remote.
When the remote is unreachable the notes stay queued in the local cache.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		client, err := openClient(ctx)
		if err != nil {
			fatal("Failed to initialize airnote", err)
		}
		defer client.Close()

		requireIdentity(client)
		r := client.Reconciler()

		fmt.Println("Syncing...")
		reportRefresh(r.Refresh(ctx, false))

		flushCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		if err := r.Flush(flushCtx); err != nil {
			fmt.Fprintf(os.Stderr, "Error: upload failed: %s\n", describe(err))
			fmt.Printf("%d note(s) still pending. They will be retried on the next sync.\n", len(r.Pending()))
			os.Exit(1)
		}

		fmt.Printf("Sync complete: %d note(s), remote %s.\n", len(r.Notes()), r.ConnState())
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}
