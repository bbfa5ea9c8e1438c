package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ghoztwoods/shadowintel/internal/aggregate"
	"github.com/ghoztwoods/shadowintel/internal/config"
	"github.com/ghoztwoods/shadowintel/internal/engine"
	"github.com/ghoztwoods/shadowintel/internal/geo"
	"github.com/ghoztwoods/shadowintel/internal/log"
	"github.com/ghoztwoods/shadowintel/internal/report"
	"github.com/ghoztwoods/shadowintel/internal/score"
	"github.com/ghoztwoods/shadowintel/internal/source"
	"github.com/ghoztwoods/shadowintel/internal/store"
)

// NewScanCmd creates the scan command.
func NewScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [identifier]",
		Short: "Scan an identifier and compute its risk score",
		Long: `Scan classifies the identifier, queries the applicable evidence sources
concurrently, and computes a risk score in [0, 1] from the merged
evidence.

Supported identifier kinds:
- Phone numbers in E.164-like form (+14155552671)
- Email addresses (user@example.com)
- Domains (example.com)
- Cryptocurrency addresses (Bitcoin and Ethereum)

Examples:
  # Scan a single identifier
  shadowintel scan user@example.com

  # Scan multiple identifiers concurrently
  shadowintel scan +14155552671 scam-site.example 0x52908400098527886E0F7030069857D2E4169EE7

  # Output a JSON report
  shadowintel scan --json user@example.com

  # Write a Markdown case file while keeping terminal output
  shadowintel scan --markdown -o case/report.md user@example.com

  # Use a custom configuration file
  shadowintel scan -c myconfig.yaml user@example.com

Configuration file (.shadowintel) example:
  sources:
    breach:
      api_key: "hibp-key"
    wallet_cluster:
      endpoint: "https://cluster.example.com/api"
      api_key: "cluster-key"
  malicious_list:
    - scam-site.example`,
		Args: cobra.ArbitraryArgs,
		RunE: runScanCmd,
	}

	// Scan behavior flags
	cmd.Flags().DurationP("deadline", "t", config.DefaultScanDeadline,
		"Overall time budget for one scan")
	cmd.Flags().Duration("source-timeout", config.DefaultSourceTimeout,
		"Time budget for each evidence source within a scan")
	cmd.Flags().IntP("batch", "b", config.DefaultConcurrency,
		"Number of concurrent scans when multiple identifiers are given")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .shadowintel in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	// Persistence flags
	cmd.Flags().Bool("no-save", false,
		"Do not persist scan results to the local store")

	return cmd
}

// runScanCmd executes the scan command.
func runScanCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runScan(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error

	cfg.ScanDeadline, err = cmd.Flags().GetDuration("deadline")
	if err != nil {
		return nil, err
	}

	cfg.SourceTimeout, err = cmd.Flags().GetDuration("source-timeout")
	if err != nil {
		return nil, err
	}

	cfg.Concurrency, err = cmd.Flags().GetInt("batch")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load the configuration file. An explicitly named file must exist;
	// otherwise a missing file silently means built-in defaults.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.File, err = config.LoadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	noSave, err := cmd.Flags().GetBool("no-save")
	if err != nil {
		return nil, err
	}
	cfg.SaveResults = !noSave
	cfg.Verbose = getVerboseFlag(cmd)

	// Positional arguments are the identifiers to scan
	cfg.Targets = args

	return cfg, nil
}

// setupLogger creates a structured logger based on verbosity setting.
// API keys and identifier values are redacted before they reach the
// output stream.
func setupLogger(verbose bool) *slog.Logger {
	return log.NewSecureLogger(os.Stderr, verbose)
}

// runScan executes the scan.
func runScan(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	if len(cfg.Targets) == 0 {
		return errors.New("no targets provided (specify one or more identifiers as arguments)")
	}

	logger.Info("starting scan",
		"targetCount", len(cfg.Targets),
		"deadline", cfg.ScanDeadline,
		"batchSize", cfg.Concurrency,
		"saveResults", cfg.SaveResults,
	)

	eng, db, err := buildEngine(cfg, logger)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	writer, cleanup, err := buildWriter(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	if len(cfg.Targets) > 1 {
		return runBatchScan(ctx, cfg, eng, writer, logger)
	}
	return runSingleScan(ctx, cfg, eng, writer, logger)
}

// buildEngine assembles the scan engine from the configuration. The
// returned store is nil when persistence is disabled.
func buildEngine(cfg *config.Config, logger *slog.Logger) (*engine.Engine, *store.Store, error) {
	client := source.NewClient(
		source.WithRateLimit(config.DefaultRateLimit, config.DefaultRateBurst),
		source.WithCacheTTL(config.DefaultCacheTTL),
	)

	registry, err := source.Build(cfg.File, client, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build evidence sources: %w", err)
	}

	aggregator := aggregate.NewAggregator(registry,
		aggregate.WithSourceTimeout(cfg.SourceTimeout),
		aggregate.WithConcurrency(cfg.Concurrency),
		aggregate.WithLogger(logger),
	)
	scorer := score.NewScorer(cfg.File.Weights)

	opts := []engine.Option{
		engine.WithLogger(logger),
		engine.WithScanDeadline(cfg.ScanDeadline),
		engine.WithAnalyzer(geo.NewAnalyzer(cfg.File.Geo)),
	}

	var db *store.Store
	if cfg.SaveResults {
		db, err = store.Open(cfg.DBDir, store.DefaultOptions())
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open result store: %w", err)
		}
		opts = append(opts, engine.WithStore(db))
		logger.Info("result store opened", "dir", cfg.DBDir)
	}

	return engine.New(aggregator, scorer, opts...), db, nil
}

// buildWriter assembles the report writer chain from the configuration.
// When a report file is requested, the chosen format goes to the file
// and the human-readable report still prints to stdout.
func buildWriter(cfg *config.Config) (report.Writer, func(), error) {
	formatted := formatWriter(cfg, os.Stdout)

	if cfg.ReportFile == "" {
		return formatted, func() {}, nil
	}

	dir := filepath.Dir(cfg.ReportFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	// Reports may contain sensitive identifiers, hence owner-only
	// permissions.
	f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}

	multi := report.NewMultiWriter(
		report.NewSimpleWriter(os.Stdout, report.WithVerbose(cfg.Verbose)),
		formatWriter(cfg, f),
	)
	return multi, func() { _ = f.Close() }, nil
}

// formatWriter returns the writer for the configured report format.
func formatWriter(cfg *config.Config, output *os.File) report.Writer {
	switch {
	case cfg.JSONReport:
		return report.NewJSONWriter(output, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(output)
	default:
		return report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	}
}

// runSingleScan scans one target.
func runSingleScan(ctx context.Context, cfg *config.Config, eng *engine.Engine, writer report.Writer, logger *slog.Logger) error {
	target := cfg.Targets[0]

	fmt.Printf("Scanning %s...\n", target)
	startTime := time.Now()

	result, err := eng.Scan(ctx, target)
	if err != nil {
		return err
	}

	elapsed := time.Since(startTime)
	fmt.Printf("Scan completed in %s\n\n", elapsed.Round(time.Millisecond))

	if _, err := writer.WriteScan(result); err != nil {
		logger.Error("report failed", "target", target, "error", err)
		return err
	}
	return nil
}

// runBatchScan scans multiple targets concurrently.
func runBatchScan(ctx context.Context, cfg *config.Config, eng *engine.Engine, writer report.Writer, logger *slog.Logger) error {
	fmt.Printf("Starting batch scan of %d targets (concurrency: %d)...\n\n",
		len(cfg.Targets), cfg.Concurrency)

	startTime := time.Now()

	results, err := eng.ScanBatch(ctx, cfg.Targets, cfg.Concurrency)
	if err != nil {
		return err
	}

	var failed int
	for i, br := range results {
		fmt.Printf("[%d/%d] %s\n", i+1, len(results), br.Target)
		if br.Err != nil {
			failed++
			logger.Error("scan failed", "target", br.Target, "error", br.Err)
			fmt.Fprintf(os.Stderr, "Scan error for %s: %v\n", br.Target, br.Err)
			continue
		}
		if _, err := writer.WriteScan(br.Result); err != nil {
			logger.Error("report failed", "target", br.Target, "error", err)
		}
	}

	elapsed := time.Since(startTime)
	fmt.Printf("\nBatch scan completed in %s (%d/%d succeeded)\n",
		elapsed.Round(time.Millisecond), len(results)-failed, len(results))

	return nil
}
