package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/ghoztwoods/shadowintel/internal/aggregate"
	"github.com/ghoztwoods/shadowintel/internal/classify"
	"github.com/ghoztwoods/shadowintel/internal/config"
	"github.com/ghoztwoods/shadowintel/internal/geo"
	"github.com/ghoztwoods/shadowintel/internal/model"
	"github.com/ghoztwoods/shadowintel/internal/score"
	"github.com/ghoztwoods/shadowintel/internal/store"
)

// Engine runs scans, movement analyses, and tip intake over a shared
// store. Safe for concurrent use.
type Engine struct {
	aggregator *aggregate.Aggregator
	scorer     *score.Scorer
	analyzer   *geo.Analyzer
	store      *store.Store
	logger     *slog.Logger
	deadline   time.Duration
	now        func() time.Time

	// nonce distinguishes scans of the same target started within the
	// same clock reading.
	nonce atomic.Uint64
}

// Option configures an Engine.
type Option func(*Engine)

// WithStore attaches a result store. Without one, results are computed
// but not persisted.
func WithStore(s *store.Store) Option {
	return func(e *Engine) {
		e.store = s
	}
}

// WithAnalyzer sets the movement analyzer.
func WithAnalyzer(a *geo.Analyzer) Option {
	return func(e *Engine) {
		e.analyzer = a
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithScanDeadline sets the overall per-scan time budget.
func WithScanDeadline(d time.Duration) Option {
	return func(e *Engine) {
		e.deadline = d
	}
}

// New creates an engine over an aggregator and scorer.
func New(aggregator *aggregate.Aggregator, scorer *score.Scorer, opts ...Option) *Engine {
	e := &Engine{
		aggregator: aggregator,
		scorer:     scorer,
		logger:     slog.Default(),
		deadline:   config.DefaultScanDeadline,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.analyzer == nil {
		e.analyzer = geo.NewAnalyzer(config.GeoSettings{
			EpsilonKm:    config.DefaultGeoEpsilonKm,
			MinPoints:    config.DefaultGeoMinPoints,
			AnomalySigma: config.DefaultGeoAnomalySigma,
		})
	}
	return e
}

// Scan classifies the target, collects evidence under the scan
// deadline, scores it, and persists the result when a store is
// attached. Unclassifiable input returns a ClassificationError with
// nothing persisted.
func (e *Engine) Scan(ctx context.Context, target string) (*model.ScanResult, error) {
	id := classify.Classify(target)
	if id.Kind == model.KindUnknown {
		return nil, &ClassificationError{Input: target}
	}

	e.logger.Info("starting scan", "target", id.Raw, "kind", id.Kind.String())

	scanCtx, cancel := context.WithTimeout(ctx, e.deadline)
	defer cancel()

	scannedAt := e.now().UTC()

	bundle := e.aggregator.Collect(scanCtx, id)

	riskScore, factors := e.scorer.Evaluate(bundle)

	result := &model.ScanResult{
		ID:          model.NewScanID(id.Raw, id.Kind, scannedAt, e.nonce.Add(1)),
		Identifier:  id,
		Bundle:      *bundle,
		RiskScore:   riskScore,
		RiskFactors: factors,
		Status:      bundle.Status,
		ScannedAt:   scannedAt,
	}

	e.logger.Info("scan finished",
		"target", id.Raw,
		"score", riskScore,
		"status", result.Status.String(),
		"factors", len(factors))

	if e.store != nil {
		if err := e.store.SaveScan(ctx, result); err != nil {
			return nil, &PersistenceError{Op: "scan result", Err: err}
		}
	}
	return result, nil
}

// AnalyzeMovement runs the movement analysis for a target and persists
// the report when a store is attached.
func (e *Engine) AnalyzeMovement(ctx context.Context, target string, observations []model.LocationObservation) (*model.MovementReport, error) {
	report := e.analyzer.Analyze(target, observations)

	e.logger.Info("movement analysis finished",
		"target", target,
		"observations", report.ObservationCount,
		"clusters", len(report.Clusters),
		"anomalies", len(report.Anomalies))

	if e.store != nil {
		reportID := model.NewScanID(target, model.KindUnknown, report.AnalyzedAt, e.nonce.Add(1))
		if err := e.store.SaveMovementReport(ctx, reportID, report); err != nil {
			return nil, &PersistenceError{Op: "movement report", Err: err}
		}
	}
	return report, nil
}

// SubmitTip assigns an id and timestamp to a tip and persists it.
// Submitting tips requires a store.
func (e *Engine) SubmitTip(ctx context.Context, tip model.Tip) (*model.Tip, error) {
	if e.store == nil {
		return nil, fmt.Errorf("tip submission requires a result store")
	}

	tip.SubmittedAt = e.now().UTC()
	tip.ID = model.NewScanID(tip.Reporter+"/"+tip.Category, model.KindUnknown, tip.SubmittedAt, e.nonce.Add(1))

	if err := e.store.SaveTip(ctx, &tip); err != nil {
		return nil, &PersistenceError{Op: "tip", Err: err}
	}

	e.logger.Info("tip recorded", "id", tip.ID, "urgency", tip.Urgency.String())
	return &tip, nil
}
