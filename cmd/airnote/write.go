package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/yesilw0rks/airnote/pkg/core"
)

var (
	writeID      string
	writeTitle   string
	writeContent string
	writeFile    string
	writeSpace   string
	writeTags    []string
)

// writeCmd represents the write command
var writeCmd = &cobra.Command{
	Use:   "write",
	Short: "Create or update a note",
	Long: `Create a note, or update the note with --id. Only the flags you pass
change an existing note. The note is saved locally first and then uploaded.`,
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

		var draft core.Draft
		if writeID != "" {
			if err := r.Refresh(ctx, true); err != nil {
				fatal("Failed to load notes", err)
			}
			existing, err := findNote(r.Notes(), writeID)
			if err != nil {
				fatal("Failed to find note", err)
			}
			draft = core.DraftOf(existing)
		}

		flags := cmd.Flags()
		if flags.Changed("title") {
			draft.Title = writeTitle
		}
		if flags.Changed("content") {
			draft.Content = writeContent
		}
		if writeFile != "" {
			content, err := readInput(writeFile)
			if err != nil {
				fatal("Failed to read content", err)
			}
			draft.Content = content
		}
		if flags.Changed("space") {
			draft.Space = writeSpace
		}
		if flags.Changed("tag") {
			draft.Tags = writeTags
		}

		note, err := r.Save(ctx, draft)
		if err != nil {
			fatal("Failed to save note", err)
		}
		if note == nil {
			fmt.Println("Nothing to save: title and content are empty.")
			return
		}

		flushCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
		defer cancel()
		if err := r.Flush(flushCtx); err != nil {
			fmt.Printf("Note '%s' saved locally; upload pending (%s).\n", shortID(note.ID), describe(err))
			return
		}
		fmt.Printf("Note '%s' saved.\n", shortID(note.ID))
	},
}

// readInput reads a file, or stdin for "-".
func readInput(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		return string(data), err
	}
	data, err := os.ReadFile(path)
	return string(data), err
}

func init() {
	rootCmd.AddCommand(writeCmd)
	writeCmd.Flags().StringVar(&writeID, "id", "", "ID (or unique prefix) of the note to update")
	writeCmd.Flags().StringVarP(&writeTitle, "title", "t", "", "Note title")
	writeCmd.Flags().StringVarP(&writeContent, "content", "c", "", "Note content")
	writeCmd.Flags().StringVarP(&writeFile, "file", "f", "", "Read content from a file ('-' for stdin)")
	writeCmd.Flags().StringVarP(&writeSpace, "space", "s", "", "Space of the note")
	writeCmd.Flags().StringSliceVar(&writeTags, "tag", nil, "Tags (repeatable or comma separated)")
}
