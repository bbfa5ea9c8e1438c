package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ghoztwoods/shadowintel/internal/config"
	"github.com/ghoztwoods/shadowintel/internal/engine"
	"github.com/ghoztwoods/shadowintel/internal/model"
	"github.com/ghoztwoods/shadowintel/internal/store"
)

// NewTipCmd creates the tip command.
func NewTipCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tip",
		Short: "Submit or list informant tips",
		Long: `Tip records a free-form report from an informant in the local store,
outside the scan result namespace.

Examples:
  # Submit a tip
  shadowintel tip --reporter victim --category romance-scam \
    --urgency high --detail phone=+14155552671 --detail platform=dating-app

  # List recent tips
  shadowintel tip --list`,
		RunE: runTipCmd,
	}

	cmd.Flags().StringP("reporter", "r", "",
		"Who is reporting (e.g. victim, witness, investigator)")
	cmd.Flags().StringP("category", "c", "",
		"Scam category the tip concerns")
	cmd.Flags().StringP("urgency", "u", "low",
		"Review priority: low, medium, high, or critical")
	cmd.Flags().StringArrayP("detail", "d", nil,
		"Tip detail as key=value (repeatable)")
	cmd.Flags().BoolP("list", "l", false, "List recent tips instead of submitting")
	cmd.Flags().IntP("limit", "n", 20, "Maximum number of tips to list")
	cmd.Flags().BoolP("json", "j", false, "Output JSON")

	return cmd
}

// runTipCmd executes the tip command.
func runTipCmd(cmd *cobra.Command, _ []string) error {
	list, err := cmd.Flags().GetBool("list")
	if err != nil {
		return err
	}

	db, err := store.Open(config.XDGDataDir(), store.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open result store: %w", err)
	}
	defer db.Close()

	if list {
		return listTips(cmd, db)
	}
	return submitTip(cmd, db)
}

// submitTip builds a tip from the flags and records it.
func submitTip(cmd *cobra.Command, db *store.Store) error {
	reporter, err := cmd.Flags().GetString("reporter")
	if err != nil {
		return err
	}
	category, err := cmd.Flags().GetString("category")
	if err != nil {
		return err
	}
	urgency, err := cmd.Flags().GetString("urgency")
	if err != nil {
		return err
	}
	details, err := cmd.Flags().GetStringArray("detail")
	if err != nil {
		return err
	}

	if reporter == "" || category == "" {
		return fmt.Errorf("tip submission requires --reporter and --category")
	}

	tip := model.Tip{
		Reporter: reporter,
		Category: category,
		Urgency:  model.ParseUrgency(urgency),
		Details:  make(map[string]any, len(details)),
	}
	for _, d := range details {
		key, value, found := strings.Cut(d, "=")
		if !found {
			return fmt.Errorf("invalid detail %q: expected key=value", d)
		}
		tip.Details[key] = value
	}

	eng := engine.New(nil, nil,
		engine.WithLogger(slog.Default()),
		engine.WithStore(db),
	)

	recorded, err := eng.SubmitTip(context.Background(), tip)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Tip recorded: %s (urgency: %s)\n",
		recorded.ID, recorded.Urgency)
	return nil
}

// listTips prints recent tips.
func listTips(cmd *cobra.Command, db *store.Store) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	jsonOut, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	tips, err := db.RecentTips(context.Background(), limit)
	if err != nil {
		return fmt.Errorf("failed to query tips: %w", err)
	}

	if jsonOut {
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(tips)
	}

	if len(tips) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No tips recorded.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SUBMITTED AT\tREPORTER\tCATEGORY\tURGENCY\tID")
	for _, t := range tips {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			t.SubmittedAt.Format("2006-01-02 15:04"),
			t.Reporter,
			t.Category,
			t.Urgency,
			t.ID)
	}
	return w.Flush()
}
