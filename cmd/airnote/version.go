package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yesilw0rks/airnote"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of airnote",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("airnote version %s\n", strings.TrimSpace(airnote.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
