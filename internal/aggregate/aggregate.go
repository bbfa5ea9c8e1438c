package aggregate

import (
	"context"
	"log/slog"
	"time"

	"github.com/ghoztwoods/shadowintel/internal/config"
	"github.com/ghoztwoods/shadowintel/internal/model"
	"github.com/ghoztwoods/shadowintel/internal/source"
)

// Aggregator runs the concurrent evidence collection for one scan.
type Aggregator struct {
	registry      *source.Registry
	logger        *slog.Logger
	sourceTimeout time.Duration
	concurrency   int
	now           func() time.Time
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithSourceTimeout sets the per-source time budget.
func WithSourceTimeout(d time.Duration) Option {
	return func(a *Aggregator) {
		a.sourceTimeout = d
	}
}

// WithConcurrency bounds how many sources query at once.
func WithConcurrency(n int) Option {
	return func(a *Aggregator) {
		a.concurrency = n
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Aggregator) {
		a.logger = logger
	}
}

// NewAggregator creates an aggregator over the registry.
func NewAggregator(registry *source.Registry, opts ...Option) *Aggregator {
	a := &Aggregator{
		registry:      registry,
		logger:        slog.Default(),
		sourceTimeout: config.DefaultSourceTimeout,
		concurrency:   config.DefaultConcurrency,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// indexed carries a source's answer back with its registration slot.
type indexed struct {
	slot int
	item model.EvidenceItem
}

// Collect queries every source registered for the identifier's kind and
// merges the answers into a bundle. It returns when all sources have
// answered or ctx expires, whichever comes first; on expiry the sources
// still pending are recorded as unavailable. A kind with no registered
// sources at all yields an empty bundle with status failed.
//
// Design decision: results travel on a buffered channel sized to the
// source count, so goroutines for sources that answer after the
// deadline complete their send and exit instead of leaking.
func (a *Aggregator) Collect(ctx context.Context, id model.Identifier) *model.EvidenceBundle {
	sources := a.registry.ForKind(id.Kind)
	if len(sources) == 0 {
		a.logger.Warn("no evidence sources registered for kind", "kind", id.Kind.String())
		return &model.EvidenceBundle{
			Identifier:  id,
			CollectedAt: a.now().UTC(),
			Items:       []model.EvidenceItem{},
			Status:      model.ScanFailed,
		}
	}

	// Canceled on return so stragglers stop work early.
	queryCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make(chan indexed, len(sources))
	sem := make(chan struct{}, a.concurrency)

	for i, src := range sources {
		go func(slot int, src source.Source) {
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-queryCtx.Done():
				results <- indexed{slot: slot, item: model.UnavailableItem(src.Name())}
				return
			}

			srcCtx, srcCancel := context.WithTimeout(queryCtx, a.sourceTimeout)
			defer srcCancel()

			start := a.now()
			item := src.Query(srcCtx, id)
			a.logger.Debug("evidence source answered",
				"source", src.Name(),
				"status", item.Status.String(),
				"elapsed", a.now().Sub(start).String())

			results <- indexed{slot: slot, item: item}
		}(i, src)
	}

	items := make([]model.EvidenceItem, len(sources))
	filled := make([]bool, len(sources))
	pending := len(sources)

collect:
	for pending > 0 {
		select {
		case r := <-results:
			items[r.slot] = r.item
			filled[r.slot] = true
			pending--
		case <-ctx.Done():
			break collect
		}
	}

	// Deadline reached: whatever has not answered is unavailable.
	for i, ok := range filled {
		if !ok {
			items[i] = model.UnavailableItem(sources[i].Name())
			a.logger.Warn("evidence source missed the scan deadline", "source", sources[i].Name())
		}
	}

	return &model.EvidenceBundle{
		Identifier:  id,
		CollectedAt: a.now().UTC(),
		Items:       items,
		Status:      bundleStatus(items),
	}
}

// bundleStatus derives the collection outcome. Failed is reserved for
// the no-sources case: even a bundle where every source errored still
// carries diagnostic items, so it reads as partially completed.
func bundleStatus(items []model.EvidenceItem) model.ScanStatus {
	okCount := 0
	for _, item := range items {
		if item.Status == model.StatusOK {
			okCount++
		}
	}
	switch {
	case len(items) == 0:
		return model.ScanFailed
	case okCount < len(items):
		return model.ScanPartiallyCompleted
	default:
		return model.ScanCompleted
	}
}
