package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/yesilw0rks/airnote"
	airlifecycle "github.com/yesilw0rks/airnote/pkg/adapters/lifecycle"
	"github.com/yesilw0rks/airnote/pkg/core"
)

var watchTypes []string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Poll the remote and print sync events until interrupted",
	Long: `Keep the note list fresh in the background and print every event:
refreshes, saves, uploads and connection changes. Notes written to the
shared cache by other processes are picked up while offline.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		client, err := openClient(ctx, airnote.WithWatchLocal(true))
		if err != nil {
			fatal("Failed to initialize airnote", err)
		}
		defer client.Close()

		requireIdentity(client)

		events, unsubscribe := client.Reconciler().Subscribe(64)
		defer unsubscribe()

		types := make([]core.EventType, 0, len(watchTypes))
		for _, t := range watchTypes {
			types = append(types, core.EventType(t))
		}
		source := airlifecycle.NewSource(events, types...)
		if err := source.Start(ctx); err != nil {
			fatal("Failed to start event source", err)
		}

		reportRefresh(client.Reconciler().Refresh(ctx, false))
		client.Poller().Start(ctx)
		fmt.Fprintf(os.Stderr, "Watching every %s. Press Ctrl+C to stop.\n", client.Poller().Interval())

		for e := range source.Events() {
			fmt.Printf("%s %s\n", time.Now().Format(time.TimeOnly), e)
		}
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().StringSliceVar(&watchTypes, "type", nil, "Only print these event types (e.g. SYNCED,STATE_CHANGED)")
}
