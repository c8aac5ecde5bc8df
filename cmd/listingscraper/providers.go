package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"listingscraper/pkg/provider"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List supported listing sites",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		for _, p := range provider.DefaultSelector().Providers() {
			fmt.Fprintf(out, "%-8s %s\n", p.Name(), strings.Join(p.Hosts(), ", "))
			fmt.Fprintf(out, "         strategies: %s\n", strings.Join(p.Identifiers().Names(), ", "))
		}
	},
}

func init() {
	rootCmd.AddCommand(providersCmd)
}
