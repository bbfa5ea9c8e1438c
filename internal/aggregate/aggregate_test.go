package aggregate

import (
	"context"
	"testing"
	"time"

	"github.com/ghoztwoods/shadowintel/internal/model"
	"github.com/ghoztwoods/shadowintel/internal/source"
)

// stubSource answers with a fixed item after an optional delay.
type stubSource struct {
	name  string
	kinds []model.Kind
	item  model.EvidenceItem
	delay time.Duration
}

func (s *stubSource) Name() string        { return s.name }
func (s *stubSource) Kinds() []model.Kind { return s.kinds }

func (s *stubSource) Query(ctx context.Context, _ model.Identifier) model.EvidenceItem {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return model.UnavailableItem(s.name)
		}
	}
	item := s.item
	item.Source = s.name
	return item
}

// okStub builds a stub that answers OK with the given fields.
func okStub(name string, kind model.Kind, fields map[string]any) *stubSource {
	return &stubSource{
		name:  name,
		kinds: []model.Kind{kind},
		item:  model.EvidenceItem{Status: model.StatusOK, Fields: fields},
	}
}

// buildRegistry registers the sources in order, failing the test on error.
func buildRegistry(t *testing.T, sources ...source.Source) *source.Registry {
	t.Helper()
	r := source.NewRegistry()
	for _, s := range sources {
		if err := r.Register(s); err != nil {
			t.Fatalf("failed to register %q: %v", s.Name(), err)
		}
	}
	return r
}

var emailID = model.Identifier{Raw: "user@example.com", Kind: model.KindEmail}

// TestAggregatorCollect tests concurrent evidence collection.
func TestAggregatorCollect(t *testing.T) {
	t.Parallel()

	t.Run("merges all answers in registration order", func(t *testing.T) {
		t.Parallel()

		registry := buildRegistry(t,
			okStub("alpha", model.KindEmail, map[string]any{"a": 1}),
			okStub("beta", model.KindEmail, map[string]any{"b": 2}),
			okStub("gamma", model.KindEmail, map[string]any{"c": 3}),
		)

		agg := NewAggregator(registry)
		bundle := agg.Collect(context.Background(), emailID)

		if bundle.Status != model.ScanCompleted {
			t.Errorf("expected ScanCompleted, got %v", bundle.Status)
		}
		want := []string{"alpha", "beta", "gamma"}
		for i, name := range want {
			if bundle.Items[i].Source != name {
				t.Errorf("slot %d: expected %q, got %q", i, name, bundle.Items[i].Source)
			}
		}
	})

	t.Run("slow source within the deadline is waited for", func(t *testing.T) {
		t.Parallel()

		slow := &stubSource{
			name:  "slow",
			kinds: []model.Kind{model.KindEmail},
			item:  model.EvidenceItem{Status: model.StatusOK, Fields: map[string]any{"x": 1}},
			delay: 100 * time.Millisecond,
		}
		registry := buildRegistry(t, okStub("fast", model.KindEmail, nil), slow)

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		agg := NewAggregator(registry)
		bundle := agg.Collect(ctx, emailID)

		if bundle.Status != model.ScanCompleted {
			t.Errorf("expected ScanCompleted, got %v", bundle.Status)
		}
		if bundle.Items[1].Status != model.StatusOK {
			t.Errorf("expected slow source to answer within deadline, got %v", bundle.Items[1].Status)
		}
	})

	t.Run("source past the deadline becomes unavailable", func(t *testing.T) {
		t.Parallel()

		stuck := &stubSource{
			name:  "stuck",
			kinds: []model.Kind{model.KindEmail},
			item:  model.EvidenceItem{Status: model.StatusOK},
			delay: 5 * time.Second,
		}
		registry := buildRegistry(t, okStub("fast", model.KindEmail, nil), stuck)

		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()

		agg := NewAggregator(registry)
		start := time.Now()
		bundle := agg.Collect(ctx, emailID)

		if elapsed := time.Since(start); elapsed > time.Second {
			t.Errorf("collect did not return at the deadline, took %v", elapsed)
		}
		if bundle.Status != model.ScanPartiallyCompleted {
			t.Errorf("expected ScanPartiallyCompleted, got %v", bundle.Status)
		}
		if bundle.Items[0].Status != model.StatusOK {
			t.Errorf("expected fast source OK, got %v", bundle.Items[0].Status)
		}
		if bundle.Items[1].Status != model.StatusUnavailable {
			t.Errorf("expected stuck source unavailable, got %v", bundle.Items[1].Status)
		}
	})

	t.Run("failing source yields a partial bundle", func(t *testing.T) {
		t.Parallel()

		broken := &stubSource{
			name:  "broken",
			kinds: []model.Kind{model.KindEmail},
			item:  model.EvidenceItem{Status: model.StatusError, Detail: "upstream 500"},
		}
		registry := buildRegistry(t, okStub("fine", model.KindEmail, nil), broken)

		agg := NewAggregator(registry)
		bundle := agg.Collect(context.Background(), emailID)

		if bundle.Status != model.ScanPartiallyCompleted {
			t.Errorf("expected ScanPartiallyCompleted, got %v", bundle.Status)
		}
		if len(bundle.OKItems()) != 1 {
			t.Errorf("expected 1 OK item, got %d", len(bundle.OKItems()))
		}
	})

	t.Run("every source failing still yields a partial bundle", func(t *testing.T) {
		t.Parallel()

		registry := buildRegistry(t, &stubSource{
			name:  "down",
			kinds: []model.Kind{model.KindEmail},
			item:  model.EvidenceItem{Status: model.StatusError, Detail: "unreachable"},
		})

		agg := NewAggregator(registry)
		bundle := agg.Collect(context.Background(), emailID)
		if bundle.Status != model.ScanPartiallyCompleted {
			t.Errorf("expected ScanPartiallyCompleted, got %v", bundle.Status)
		}
		if len(bundle.OKItems()) != 0 {
			t.Errorf("expected no OK items, got %d", len(bundle.OKItems()))
		}
	})

	t.Run("kind without sources yields a failed empty bundle", func(t *testing.T) {
		t.Parallel()

		agg := NewAggregator(source.NewRegistry())
		bundle := agg.Collect(context.Background(), emailID)
		if bundle.Status != model.ScanFailed {
			t.Errorf("expected ScanFailed, got %v", bundle.Status)
		}
		if len(bundle.Items) != 0 {
			t.Errorf("expected no items, got %d", len(bundle.Items))
		}
	})

	t.Run("concurrency bound of one still completes", func(t *testing.T) {
		t.Parallel()

		registry := buildRegistry(t,
			okStub("one", model.KindEmail, nil),
			okStub("two", model.KindEmail, nil),
			okStub("three", model.KindEmail, nil),
		)

		agg := NewAggregator(registry, WithConcurrency(1))
		bundle := agg.Collect(context.Background(), emailID)
		if bundle.Status != model.ScanCompleted {
			t.Errorf("expected ScanCompleted, got %v", bundle.Status)
		}
	})
}
