package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ghoztwoods/shadowintel/internal/model"
)

// BatchResult pairs one batch target with its outcome. Exactly one of
// Result and Err is set.
type BatchResult struct {
	// Target is the raw input as given in the batch.
	Target string

	// Result is the scan outcome when the scan ran.
	Result *model.ScanResult

	// Err records why the scan did not run (classification failure,
	// collection error).
	Err error
}

// ScanBatch scans multiple targets concurrently, bounded by
// concurrency. Results come back in input order; a failed target
// carries its error in its slot rather than aborting the batch.
//
// Design decision: errgroup.SetLimit bounds the goroutines rather than
// a worker pool, and per-target errors are recorded in the result slot
// instead of returned to the group, so one bad input never cancels the
// scans running beside it. The only error ScanBatch itself returns is
// context cancellation.
func (e *Engine) ScanBatch(ctx context.Context, targets []string, concurrency int) ([]BatchResult, error) {
	if concurrency < 1 {
		concurrency = 1
	}

	e.logger.Info("starting batch scan",
		"total_targets", len(targets),
		"concurrency", concurrency)
	startTime := time.Now()

	results := make([]BatchResult, len(targets))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, target := range targets {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			result, err := e.Scan(gctx, target)
			mu.Lock()
			results[i] = BatchResult{Target: target, Result: result, Err: err}
			mu.Unlock()

			if err != nil {
				// Cancellation propagates; per-target failures stay in
				// their slot.
				if errors.Is(err, context.Canceled) {
					return err
				}
				e.logger.Warn("batch target failed", "target", target, "error", err)
			}
			return nil
		})
	}

	err := g.Wait()

	e.logger.Info("batch scan complete",
		"total_targets", len(targets),
		"elapsed", time.Since(startTime).String())
	return results, err
}
