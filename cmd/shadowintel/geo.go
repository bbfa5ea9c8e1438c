package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ghoztwoods/shadowintel/internal/config"
	"github.com/ghoztwoods/shadowintel/internal/engine"
	"github.com/ghoztwoods/shadowintel/internal/geo"
	"github.com/ghoztwoods/shadowintel/internal/model"
	"github.com/ghoztwoods/shadowintel/internal/report"
	"github.com/ghoztwoods/shadowintel/internal/store"
)

// NewGeoCmd creates the geo command.
func NewGeoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "geo [target]",
		Short: "Analyze location observations for movement patterns",
		Long: `Geo analyzes a target's timestamped location observations. It groups
recurring locations by density clustering, computes travel speed between
consecutive observations along great-circle distances, and flags
physically implausible speeds as anomalies.

Observations are supplied as a JSON array:
  [
    {"latitude": 6.5244, "longitude": 3.3792,
     "timestamp": "2026-08-01T09:00:00Z", "source": "login"},
    ...
  ]

Examples:
  # Analyze observations from a file
  shadowintel geo subject-1 --input observations.json

  # Read observations from stdin
  cat observations.json | shadowintel geo subject-1 --input -

  # Tighter clustering radius
  shadowintel geo subject-1 --input observations.json --epsilon 2.5

  # Output JSON
  shadowintel geo subject-1 --input observations.json --json`,
		Args: cobra.ExactArgs(1),
		RunE: runGeoCmd,
	}

	cmd.Flags().StringP("input", "i", "",
		"JSON file with location observations (use - for stdin)")
	cmd.Flags().Float64("epsilon", config.DefaultGeoEpsilonKm,
		"Clustering radius in kilometers")
	cmd.Flags().Int("min-points", config.DefaultGeoMinPoints,
		"Minimum neighbors for a cluster seed")
	cmd.Flags().Float64("sigma", config.DefaultGeoAnomalySigma,
		"Standard-deviation multiple beyond which a speed is anomalous")
	cmd.Flags().BoolP("json", "j", false, "Output JSON report")
	cmd.Flags().Bool("no-save", false,
		"Do not persist the movement report to the local store")

	if err := cmd.MarkFlagRequired("input"); err != nil {
		panic(err)
	}

	return cmd
}

// runGeoCmd executes the geo command.
func runGeoCmd(cmd *cobra.Command, args []string) error {
	target := args[0]

	inputPath, err := cmd.Flags().GetString("input")
	if err != nil {
		return err
	}
	observations, err := readObservations(cmd, inputPath)
	if err != nil {
		return err
	}

	settings, err := geoSettings(cmd)
	if err != nil {
		return err
	}

	jsonOut, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	noSave, err := cmd.Flags().GetBool("no-save")
	if err != nil {
		return err
	}

	logger := setupLogger(getVerboseFlag(cmd))
	slog.SetDefault(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	opts := []engine.Option{
		engine.WithLogger(logger),
		engine.WithAnalyzer(geo.NewAnalyzer(settings)),
	}
	if !noSave {
		db, err := store.Open(config.XDGDataDir(), store.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open result store: %w", err)
		}
		defer db.Close()
		opts = append(opts, engine.WithStore(db))
	}

	// The aggregator and scorer are not involved in movement analysis.
	eng := engine.New(nil, nil, opts...)

	movementReport, err := eng.AnalyzeMovement(ctx, target, observations)
	if err != nil {
		return err
	}

	var writer report.Writer = report.NewSimpleWriter(os.Stdout)
	if jsonOut {
		writer = report.NewJSONWriter(os.Stdout, report.WithPrettyPrint())
	}
	_, err = writer.WriteMovement(movementReport)
	return err
}

// geoSettings builds analyzer settings from the command flags.
func geoSettings(cmd *cobra.Command) (config.GeoSettings, error) {
	var settings config.GeoSettings
	var err error

	settings.EpsilonKm, err = cmd.Flags().GetFloat64("epsilon")
	if err != nil {
		return settings, err
	}
	settings.MinPoints, err = cmd.Flags().GetInt("min-points")
	if err != nil {
		return settings, err
	}
	settings.AnomalySigma, err = cmd.Flags().GetFloat64("sigma")
	if err != nil {
		return settings, err
	}

	if settings.EpsilonKm <= 0 {
		return settings, config.ErrInvalidGeoEpsilon
	}
	if settings.MinPoints < 2 {
		return settings, config.ErrInvalidGeoMinPoints
	}
	if settings.AnomalySigma <= 0 {
		return settings, config.ErrInvalidGeoSigma
	}
	return settings, nil
}

// readObservations loads location observations from a JSON file or
// stdin when the path is "-".
func readObservations(cmd *cobra.Command, path string) ([]model.LocationObservation, error) {
	var data []byte
	var err error

	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("failed to read observations from stdin: %w", err)
		}
	} else {
		data, err = os.ReadFile(path) //nolint:gosec // user-provided input path is intentional
		if err != nil {
			return nil, fmt.Errorf("failed to read observations file: %w", err)
		}
	}

	var observations []model.LocationObservation
	if err := json.Unmarshal(data, &observations); err != nil {
		return nil, fmt.Errorf("failed to parse observations: %w", err)
	}
	return observations, nil
}
