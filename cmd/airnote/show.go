package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/yesilw0rks/airnote"
	"github.com/yesilw0rks/airnote/pkg/core"
)

var (
	showYAML bool
	showHTML bool
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a note",
	Long:  `Show a note by its ID or a unique ID prefix, as shown by 'airnote list'.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		client, err := openClient(ctx)
		if err != nil {
			fatal("Failed to initialize airnote", err)
		}
		defer client.Close()

		requireIdentity(client)
		reportRefresh(client.Reconciler().Refresh(ctx, false))

		note, err := findNote(client.Reconciler().Notes(), args[0])
		if err != nil {
			fatal("Failed to show note", err)
		}

		switch {
		case showYAML:
			data, err := yaml.Marshal(note)
			if err != nil {
				fatal("Error encoding YAML", err)
			}
			os.Stdout.Write(data)
		case showHTML:
			fmt.Println(airnote.Render(note.Content))
		default:
			fmt.Printf("%s\n%s\n", note.Title, strings.Repeat("=", len([]rune(note.Title))))
			fmt.Printf("id: %s  space: %s  tags: %s\n\n", note.ID, note.Space, strings.Join(note.Tags, ", "))
			fmt.Println(note.Content)
		}
	},
}

// findNote resolves an ID or a unique ID prefix.
func findNote(notes []core.Note, ref string) (core.Note, error) {
	var match []core.Note
	for _, n := range notes {
		if n.ID == ref {
			return n, nil
		}
		if strings.HasPrefix(n.ID, ref) {
			match = append(match, n)
		}
	}
	switch len(match) {
	case 0:
		return core.Note{}, fmt.Errorf("%w: %s", core.ErrNotFound, ref)
	case 1:
		return match[0], nil
	}
	return core.Note{}, fmt.Errorf("ambiguous id %q matches %d notes", ref, len(match))
}

func init() {
	rootCmd.AddCommand(showCmd)
	showCmd.Flags().BoolVar(&showYAML, "yaml", false, "Output the note as YAML")
	showCmd.Flags().BoolVar(&showHTML, "html", false, "Output the rendered HTML of the content")
}
