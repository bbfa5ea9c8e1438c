package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/ghoztwoods/shadowintel/internal/config"
	"github.com/ghoztwoods/shadowintel/internal/model"
	"github.com/ghoztwoods/shadowintel/internal/store"
)

// NewHighRiskCmd creates the highrisk command.
func NewHighRiskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "highrisk",
		Short: "List high-risk scan results from the local store",
		Long: `Highrisk lists stored scans whose risk score is at or above the
threshold, highest score first.

Examples:
  # Show high-risk scans (score >= 0.7)
  shadowintel highrisk

  # Lower the threshold
  shadowintel highrisk --threshold 0.5

  # Output JSON
  shadowintel highrisk --json`,
		Args: cobra.NoArgs,
		RunE: runHighRiskCmd,
	}

	cmd.Flags().Float64("threshold", config.DefaultHighRiskThreshold,
		"Risk score at or above which a scan is listed")
	cmd.Flags().IntP("limit", "n", 20, "Maximum number of scans to list")
	cmd.Flags().BoolP("json", "j", false, "Output JSON")

	return cmd
}

// runHighRiskCmd executes the highrisk command.
func runHighRiskCmd(cmd *cobra.Command, _ []string) error {
	threshold, err := cmd.Flags().GetFloat64("threshold")
	if err != nil {
		return err
	}
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}

	return withSummaries(cmd, func(ctx context.Context, db *store.Store) ([]model.ScanSummary, error) {
		return db.HighRiskScans(ctx, threshold, limit)
	})
}
