package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yesilw0rks/airnote"
)

var renderCmd = &cobra.Command{
	Use:   "render [file]",
	Short: "Render note markup to HTML",
	Long: `Render note markup from a file, or from stdin when no file is given.

Supported syntax: "## " headings, **bold**, *italic*, -strike-,
_underline_ and "- " list items.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path := "-"
		if len(args) == 1 {
			path = args[0]
		}
		text, err := readInput(path)
		if err != nil {
			fatal("Failed to read input", err)
		}
		fmt.Println(airnote.Render(text))
	},
}

func init() {
	rootCmd.AddCommand(renderCmd)
}
