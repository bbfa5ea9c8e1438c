// Package main provides the entry point for the ShadowIntel CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for ShadowIntel.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shadowintel",
		Short: "Intelligence aggregation tool for scam investigation",
		Long: `ShadowIntel aggregates open-source intelligence about an identifier
(phone number, email address, domain, or cryptocurrency address) and
computes a risk score from the merged evidence.

Evidence sources are queried concurrently under a scan deadline; sources
that fail or time out are recorded, never retried, and never scored as
risk. Results are stored locally so repeated scans of the same evidence
are idempotent.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewScanCmd())
	cmd.AddCommand(NewGeoCmd())
	cmd.AddCommand(NewRecentCmd())
	cmd.AddCommand(NewHighRiskCmd())
	cmd.AddCommand(NewTipCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
