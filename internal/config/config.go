package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values. These are chosen for clearnet intelligence
// APIs, which answer far faster than the services the numbers would need
// for anonymized transports.
const (
	// DefaultScanDeadline bounds one whole scan: every evidence source
	// must answer within this window or be recorded as unavailable.
	// 30 seconds covers slow WHOIS referrals while keeping interactive
	// use tolerable.
	DefaultScanDeadline = 30 * time.Second

	// DefaultSourceTimeout bounds a single source's query. It is shorter
	// than the scan deadline so one hung service cannot consume the
	// whole budget.
	DefaultSourceTimeout = 15 * time.Second

	// DefaultConcurrency is the number of evidence sources queried in
	// parallel. Sources are I/O bound, so the limit exists to avoid
	// overwhelming outbound network capacity, not CPU.
	DefaultConcurrency = 10

	// DefaultHighRiskThreshold is the score at or above which a scan
	// appears in high-risk listings.
	DefaultHighRiskThreshold = 0.7

	// DefaultGeoEpsilonKm is the clustering radius: observations within
	// this distance of each other can join the same location cluster.
	// 10 km groups readings within one metro area.
	DefaultGeoEpsilonKm = 10.0

	// DefaultGeoMinPoints is the density threshold for clustering: a
	// point needs this many neighbors (itself included) to seed a
	// cluster. 2 means any revisited location clusters.
	DefaultGeoMinPoints = 2

	// DefaultGeoAnomalySigma is the number of standard deviations a
	// travel speed must deviate from the mean to be flagged.
	DefaultGeoAnomalySigma = 2.0

	// DefaultCacheTTL is how long source responses are reused before the
	// backing service is queried again for the same identifier.
	DefaultCacheTTL = 15 * time.Minute

	// DefaultRateLimit is the per-host outbound request rate in
	// requests per second. Intelligence APIs commonly throttle at one
	// request per second on free tiers.
	DefaultRateLimit = 1.0

	// DefaultRateBurst is the per-host burst allowance.
	DefaultRateBurst = 3

	// AppName is the application name used for XDG directory paths.
	AppName = "shadowintel"
)

// Config holds all runtime options for the engine. It is populated from
// CLI flags plus the configuration file and passed through the
// application by dependency injection rather than global state.
type Config struct {
	// ScanDeadline is the overall time budget for one scan.
	ScanDeadline time.Duration

	// SourceTimeout is the per-source query budget within a scan.
	SourceTimeout time.Duration

	// Concurrency is the maximum number of evidence sources queried in
	// parallel, and also the batch width when scanning multiple targets.
	Concurrency int

	// HighRiskThreshold is the score cutoff for high-risk listings.
	HighRiskThreshold float64

	// DBDir is the directory for the SQLite result store. Defaults to
	// the XDG data directory.
	DBDir string

	// SaveResults controls whether scan results are persisted.
	SaveResults bool

	// Verbose enables debug-level structured logging.
	Verbose bool

	// JSONReport selects JSON output instead of the human-readable
	// report. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport selects Markdown output instead of the
	// human-readable report. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile, when set, writes the report to this path instead of
	// stdout.
	ReportFile string

	// Targets is the list of raw identifiers to scan.
	Targets []string

	// ConfigFilePath is the path of the configuration file. Empty means
	// search the default locations.
	ConfigFilePath string

	// File holds the loaded configuration file contents: the weight
	// table, geo parameters, and per-source settings.
	File *File
}

// NewConfig creates a Config with documented defaults and an implicit
// default configuration file (built-in weight table, all sources enabled
// with no API keys).
func NewConfig() *Config {
	return &Config{
		ScanDeadline:      DefaultScanDeadline,
		SourceTimeout:     DefaultSourceTimeout,
		Concurrency:       DefaultConcurrency,
		HighRiskThreshold: DefaultHighRiskThreshold,
		DBDir:             XDGDataDir(),
		SaveResults:       true,
		File:              DefaultFile(),
	}
}

// Validate checks the configuration for internal consistency. It returns
// the first problem found; a non-nil error means the process must not
// accept scans.
func (c *Config) Validate() error {
	if c.ScanDeadline <= 0 {
		return ErrInvalidDeadline
	}
	if c.SourceTimeout <= 0 || c.SourceTimeout > c.ScanDeadline {
		return ErrInvalidSourceTimeout
	}
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	if c.File != nil {
		if err := c.File.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// XDGDataDir returns the XDG data directory for shadowintel.
// On Linux: ~/.local/share/shadowintel
// On macOS: ~/Library/Application Support/shadowintel
// On Windows: %LOCALAPPDATA%\shadowintel
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}
