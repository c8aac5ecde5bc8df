package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "listingscraper %s\n", version)
		fmt.Fprintf(cmd.OutOrStdout(), "  commit: %s\n  built:  %s\n", gitCommit, buildDate)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
