package main

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/yesilw0rks/airnote/pkg/core"
)

var (
	listJSON  bool
	listSpace string
	listTag   string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the notes of the signed-in user",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		client, err := openClient(ctx)
		if err != nil {
			fatal("Failed to initialize airnote", err)
		}
		defer client.Close()

		requireIdentity(client)
		if listSpace != "" {
			client.Reconciler().SetSpace(listSpace)
		}
		reportRefresh(client.Reconciler().Refresh(ctx, false))

		var filtered []core.Note
		for _, n := range client.Reconciler().Notes() {
			if listTag != "" && !slices.Contains(n.Tags, listTag) {
				continue
			}
			filtered = append(filtered, n)
		}

		if listJSON {
			data, err := json.MarshalIndent(filtered, "", "  ")
			if err != nil {
				fatal("Error encoding JSON", err)
			}
			fmt.Println(string(data))
			return
		}

		if len(filtered) == 0 {
			fmt.Println("No notes yet. Create one with 'airnote write --title ...'.")
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		for _, n := range filtered {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				shortID(n.ID), n.Space, n.Title, strings.Join(n.Tags, ","), n.UpdatedAt.Local().Format("2006-01-02 15:04"))
		}
		_ = w.Flush()
	},
}

// shortID abbreviates a UUID for display; show accepts the prefix back.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	listCmd.Flags().StringVar(&listSpace, "space", "", "Only list notes of this space")
	listCmd.Flags().StringVar(&listTag, "tag", "", "Filter notes by tag")
}
