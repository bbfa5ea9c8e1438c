package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/ghoztwoods/shadowintel/internal/model"
)

// ErrNotFound is returned when a record id matches nothing.
var ErrNotFound = errors.New("record not found")

// dbFileName is the database file created under the store directory.
const dbFileName = "shadowintel.db"

// Store provides SQLite-backed persistence for scan results, movement
// reports, and tips.
//
// Design decision: One database file for all record types rather than a
// file per type. Cross-referencing a tip against past scans of the same
// target is a single-database query, and backup is one file copy.
type Store struct {
	db     *sql.DB
	dbPath string
}

// Options configures Store behavior.
type Options struct {
	// CreateIfNotExists creates the directory and database file when
	// absent. When false, a missing database is an error.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging. Recommended; readers do
	// not block the writer.
	EnableWAL bool
}

// DefaultOptions returns the default store options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the store under dbDir.
func Open(dbDir string, opts Options) (*Store, error) {
	dbPath := filepath.Join(dbDir, dbFileName)

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite supports one writer; a single pooled connection avoids
	// SQLITE_BUSY under concurrent saves.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	s := &Store{db: db, dbPath: dbPath}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := s.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.dbPath
}

// createTables creates the schema if it doesn't exist.
func (s *Store) createTables() error {
	schema := `
	-- Scans hold one row per scan result; summary columns are
	-- duplicated out of the JSON for list queries.
	CREATE TABLE IF NOT EXISTS scans (
		id TEXT PRIMARY KEY,
		target TEXT NOT NULL,
		kind TEXT NOT NULL,
		risk_score REAL NOT NULL,
		status TEXT NOT NULL,
		scanned_at DATETIME NOT NULL,
		result_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_scans_target ON scans(target);
	CREATE INDEX IF NOT EXISTS idx_scans_scanned_at ON scans(scanned_at);
	CREATE INDEX IF NOT EXISTS idx_scans_risk_score ON scans(risk_score);

	-- Movement reports store geo analysis output per target.
	CREATE TABLE IF NOT EXISTS movement_reports (
		id TEXT PRIMARY KEY,
		target TEXT NOT NULL,
		analyzed_at DATETIME NOT NULL,
		observation_count INTEGER NOT NULL,
		anomaly_count INTEGER NOT NULL,
		report_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_movement_target ON movement_reports(target);
	CREATE INDEX IF NOT EXISTS idx_movement_analyzed_at ON movement_reports(analyzed_at);

	-- Tips are informant submissions, reviewed by urgency.
	CREATE TABLE IF NOT EXISTS tips (
		id TEXT PRIMARY KEY,
		submitted_at DATETIME NOT NULL,
		reporter TEXT NOT NULL,
		category TEXT NOT NULL,
		urgency TEXT NOT NULL,
		tip_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_tips_submitted_at ON tips(submitted_at);
	CREATE INDEX IF NOT EXISTS idx_tips_urgency ON tips(urgency);
	`

	_, err := s.db.ExecContext(context.Background(), schema)
	return err
}

// SaveScan persists a scan result. Saving the same result id again
// updates the existing row, so a retried save is a no-op rather than a
// duplicate.
func (s *Store) SaveScan(ctx context.Context, result *model.ScanResult) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to serialize scan result: %w", err)
	}

	query := `
	INSERT INTO scans (id, target, kind, risk_score, status, scanned_at, result_json)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		target = excluded.target,
		kind = excluded.kind,
		risk_score = excluded.risk_score,
		status = excluded.status,
		scanned_at = excluded.scanned_at,
		result_json = excluded.result_json
	`

	_, err = s.db.ExecContext(ctx, query,
		result.ID,
		result.Identifier.Raw,
		result.Identifier.Kind.String(),
		result.RiskScore,
		result.Status.String(),
		result.ScannedAt.UTC().Format(time.RFC3339Nano),
		string(resultJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to save scan result: %w", err)
	}
	return nil
}

// GetScan retrieves a scan result by id.
func (s *Store) GetScan(ctx context.Context, id string) (*model.ScanResult, error) {
	var resultJSON string
	err := s.db.QueryRowContext(ctx,
		`SELECT result_json FROM scans WHERE id = ?`, id).Scan(&resultJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: scan %q", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scan result: %w", err)
	}

	var result model.ScanResult
	if err := json.Unmarshal([]byte(resultJSON), &result); err != nil {
		return nil, fmt.Errorf("failed to parse scan result: %w", err)
	}
	return &result, nil
}

// RecentScans returns the latest scan summaries, newest first.
func (s *Store) RecentScans(ctx context.Context, limit int) ([]model.ScanSummary, error) {
	query := `
	SELECT id, target, kind, risk_score, status, scanned_at
	FROM scans
	ORDER BY scanned_at DESC
	LIMIT ?
	`
	return s.querySummaries(ctx, query, limit)
}

// HighRiskScans returns summaries of scans at or above the threshold,
// highest score first.
func (s *Store) HighRiskScans(ctx context.Context, threshold float64, limit int) ([]model.ScanSummary, error) {
	query := `
	SELECT id, target, kind, risk_score, status, scanned_at
	FROM scans
	WHERE risk_score >= ?
	ORDER BY risk_score DESC, scanned_at DESC
	LIMIT ?
	`
	return s.querySummaries(ctx, query, threshold, limit)
}

// ScanHistory returns all scan summaries for a target, newest first.
func (s *Store) ScanHistory(ctx context.Context, target string) ([]model.ScanSummary, error) {
	query := `
	SELECT id, target, kind, risk_score, status, scanned_at
	FROM scans
	WHERE target = ?
	ORDER BY scanned_at DESC
	`
	return s.querySummaries(ctx, query, target)
}

// querySummaries runs a summary-column query and scans the rows.
func (s *Store) querySummaries(ctx context.Context, query string, args ...any) ([]model.ScanSummary, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query scans: %w", err)
	}
	defer rows.Close()

	var summaries []model.ScanSummary
	for rows.Next() {
		var summary model.ScanSummary
		var kind, status, scannedAt string
		if err := rows.Scan(&summary.ID, &summary.Target, &kind,
			&summary.RiskScore, &status, &scannedAt); err != nil {
			return nil, fmt.Errorf("failed to scan summary row: %w", err)
		}
		summary.Kind = model.ParseKind(kind)
		summary.Status = parseScanStatus(status)
		summary.ScannedAt = parseTimestamp(scannedAt)
		summaries = append(summaries, summary)
	}
	return summaries, rows.Err()
}

// SaveMovementReport persists a movement report keyed by id. Saves are
// idempotent like scan saves.
func (s *Store) SaveMovementReport(ctx context.Context, id string, report *model.MovementReport) error {
	reportJSON, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to serialize movement report: %w", err)
	}

	query := `
	INSERT INTO movement_reports (id, target, analyzed_at, observation_count, anomaly_count, report_json)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		target = excluded.target,
		analyzed_at = excluded.analyzed_at,
		observation_count = excluded.observation_count,
		anomaly_count = excluded.anomaly_count,
		report_json = excluded.report_json
	`

	_, err = s.db.ExecContext(ctx, query,
		id,
		report.Target,
		report.AnalyzedAt.UTC().Format(time.RFC3339Nano),
		report.ObservationCount,
		len(report.Anomalies),
		string(reportJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to save movement report: %w", err)
	}
	return nil
}

// LatestMovementReport retrieves the most recent movement report for a
// target.
func (s *Store) LatestMovementReport(ctx context.Context, target string) (*model.MovementReport, error) {
	var reportJSON string
	err := s.db.QueryRowContext(ctx, `
	SELECT report_json FROM movement_reports
	WHERE target = ?
	ORDER BY analyzed_at DESC
	LIMIT 1
	`, target).Scan(&reportJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: movement report for %q", ErrNotFound, target)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get movement report: %w", err)
	}

	var report model.MovementReport
	if err := json.Unmarshal([]byte(reportJSON), &report); err != nil {
		return nil, fmt.Errorf("failed to parse movement report: %w", err)
	}
	return &report, nil
}

// SaveTip persists an informant tip.
func (s *Store) SaveTip(ctx context.Context, tip *model.Tip) error {
	tipJSON, err := json.Marshal(tip)
	if err != nil {
		return fmt.Errorf("failed to serialize tip: %w", err)
	}

	query := `
	INSERT INTO tips (id, submitted_at, reporter, category, urgency, tip_json)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		submitted_at = excluded.submitted_at,
		reporter = excluded.reporter,
		category = excluded.category,
		urgency = excluded.urgency,
		tip_json = excluded.tip_json
	`

	_, err = s.db.ExecContext(ctx, query,
		tip.ID,
		tip.SubmittedAt.UTC().Format(time.RFC3339Nano),
		tip.Reporter,
		tip.Category,
		tip.Urgency.String(),
		string(tipJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to save tip: %w", err)
	}
	return nil
}

// RecentTips returns the latest tips, newest first.
func (s *Store) RecentTips(ctx context.Context, limit int) ([]model.Tip, error) {
	rows, err := s.db.QueryContext(ctx, `
	SELECT tip_json FROM tips
	ORDER BY submitted_at DESC
	LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query tips: %w", err)
	}
	defer rows.Close()

	var tips []model.Tip
	for rows.Next() {
		var tipJSON string
		if err := rows.Scan(&tipJSON); err != nil {
			return nil, fmt.Errorf("failed to scan tip row: %w", err)
		}
		var tip model.Tip
		if err := json.Unmarshal([]byte(tipJSON), &tip); err != nil {
			continue // Skip malformed rows
		}
		tips = append(tips, tip)
	}
	return tips, rows.Err()
}

// parseScanStatus converts a stored status name back to a ScanStatus.
func parseScanStatus(s string) model.ScanStatus {
	switch s {
	case "completed":
		return model.ScanCompleted
	case "partially_completed":
		return model.ScanPartiallyCompleted
	default:
		return model.ScanFailed
	}
}

// timestampFormats are the timestamp shapes SQLite may hand back,
// most specific first.
var timestampFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999",
}

// parseTimestamp tries the known formats, returning zero time when none
// match.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
