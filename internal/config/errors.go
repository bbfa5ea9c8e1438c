package config

import "errors"

// Configuration validation errors.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances at each validation site. This allows
// callers to use errors.Is() for programmatic handling while still
// providing human-readable messages. Errors that need dynamic context
// (the offending condition or source name) are wrapped with fmt.Errorf
// and %w at the call site.
var (
	// ErrNoTarget is returned when a scan is requested without any
	// identifier argument.
	ErrNoTarget = errors.New("no target specified: provide an identifier to scan")

	// ErrInvalidDeadline is returned when the overall scan deadline is
	// not positive.
	ErrInvalidDeadline = errors.New("invalid scan deadline: must be positive")

	// ErrInvalidSourceTimeout is returned when the per-source timeout is
	// not positive or exceeds the overall deadline.
	ErrInvalidSourceTimeout = errors.New("invalid source timeout: must be positive and no longer than the scan deadline")

	// ErrInvalidConcurrency is returned when the concurrency limit is
	// not positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrConflictingReportFormats is returned when both --json and
	// --markdown are specified.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrUnknownCondition is returned when the weight table names a risk
	// condition the scorer does not implement.
	ErrUnknownCondition = errors.New("unknown risk condition in weight table")

	// ErrInvalidWeight is returned when a condition weight is outside
	// (0, 1].
	ErrInvalidWeight = errors.New("invalid condition weight: must be in (0, 1]")

	// ErrDuplicateCondition is returned when the weight table lists the
	// same condition twice. Duplicates would double-count a signal.
	ErrDuplicateCondition = errors.New("duplicate condition in weight table")

	// ErrUnknownSource is returned when the sources section names an
	// evidence source that does not exist.
	ErrUnknownSource = errors.New("unknown evidence source in configuration")

	// ErrInvalidGeoEpsilon is returned when the clustering radius is not
	// positive.
	ErrInvalidGeoEpsilon = errors.New("invalid geo epsilon: must be positive")

	// ErrInvalidGeoMinPoints is returned when the clustering density
	// threshold is below 2.
	ErrInvalidGeoMinPoints = errors.New("invalid geo min points: must be at least 2")

	// ErrInvalidGeoSigma is returned when the anomaly threshold is not
	// positive.
	ErrInvalidGeoSigma = errors.New("invalid geo anomaly sigma: must be positive")

	// ErrConfigNotFound is returned when the configuration file does not
	// exist at the resolved path.
	ErrConfigNotFound = errors.New("configuration file not found")
)
