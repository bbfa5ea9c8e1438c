package main

import (
	"context"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ghoztwoods/shadowintel/internal/config"
	"github.com/ghoztwoods/shadowintel/internal/model"
	"github.com/ghoztwoods/shadowintel/internal/store"
)

// NewRecentCmd creates the recent command.
// This command lists past scan results from the local store.
func NewRecentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recent [identifier]",
		Short: "List recent scan results from the local store",
		Long: `Recent lists scan results persisted by previous scans, newest first.

Without arguments it shows the most recent scans across all targets.
With an identifier it shows that target's scan history.

Examples:
  # Show the 20 most recent scans
  shadowintel recent

  # Show the 50 most recent scans
  shadowintel recent -n 50

  # Show scan history for one identifier
  shadowintel recent user@example.com

  # Output JSON
  shadowintel recent --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: runRecentCmd,
	}

	cmd.Flags().IntP("limit", "n", 20, "Maximum number of scans to list")
	cmd.Flags().BoolP("json", "j", false, "Output JSON")

	return cmd
}

// runRecentCmd executes the recent command.
func runRecentCmd(cmd *cobra.Command, args []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}

	return withSummaries(cmd, func(ctx context.Context, db *store.Store) ([]model.ScanSummary, error) {
		if len(args) == 1 {
			return db.ScanHistory(ctx, args[0])
		}
		return db.RecentScans(ctx, limit)
	})
}

// withSummaries opens the store, runs the query, and prints the result
// in the format the command's flags select.
func withSummaries(cmd *cobra.Command, query func(context.Context, *store.Store) ([]model.ScanSummary, error)) error {
	jsonOut, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	db, err := store.Open(config.XDGDataDir(), store.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open result store: %w", err)
	}
	defer db.Close()

	summaries, err := query(context.Background(), db)
	if err != nil {
		return fmt.Errorf("failed to query scan history: %w", err)
	}

	if jsonOut {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(summaries)
	}

	if len(summaries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No scans found.")
		return nil
	}

	return printSummaries(cmd, summaries)
}

// printSummaries writes summaries as an aligned table.
func printSummaries(cmd *cobra.Command, summaries []model.ScanSummary) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SCANNED AT\tTARGET\tKIND\tSCORE\tSTATUS\tID")
	for _, s := range summaries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%s\t%s\n",
			s.ScannedAt.Format("2006-01-02 15:04"),
			s.Target,
			s.Kind,
			s.RiskScore,
			s.Status,
			s.ID)
	}
	return w.Flush()
}
