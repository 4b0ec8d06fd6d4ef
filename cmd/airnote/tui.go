package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yesilw0rks/airnote/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse and edit notes in the terminal",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		client, err := openClient(ctx)
		if err != nil {
			fatal("Failed to initialize airnote", err)
		}
		defer client.Close()

		if err := tui.Run(ctx, client.View(), client.Reconciler()); err != nil {
			fatal("Terminal UI failed", err)
		}
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
