package score

import (
	"math"
	"reflect"
	"testing"

	"github.com/ghoztwoods/shadowintel/internal/config"
	"github.com/ghoztwoods/shadowintel/internal/model"
)

// bundleWith builds a completed bundle from OK items.
func bundleWith(items ...model.EvidenceItem) *model.EvidenceBundle {
	return &model.EvidenceBundle{
		Identifier: model.Identifier{Raw: "user@example.com", Kind: model.KindEmail},
		Items:      items,
		Status:     model.ScanCompleted,
	}
}

// okItem builds a StatusOK item with fields.
func okItem(source string, fields map[string]any) model.EvidenceItem {
	return model.EvidenceItem{Source: source, Status: model.StatusOK, Fields: fields}
}

// almostEqual compares scores with a float tolerance.
func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// TestScorerEvaluate tests risk score computation.
func TestScorerEvaluate(t *testing.T) {
	t.Parallel()

	scorer := NewScorer(config.DefaultWeightTable())

	t.Run("clean bundle scores zero", func(t *testing.T) {
		t.Parallel()

		b := bundleWith(okItem("breach", map[string]any{model.FieldBreachCount: 0}))
		got, factors := scorer.Evaluate(b)
		if got != 0 {
			t.Errorf("expected score 0, got %v", got)
		}
		if len(factors) != 0 {
			t.Errorf("expected no factors, got %v", factors)
		}
	})

	t.Run("breach count scales per breach", func(t *testing.T) {
		t.Parallel()

		b := bundleWith(okItem("breach", map[string]any{model.FieldBreachCount: 3}))
		got, factors := scorer.Evaluate(b)
		if !almostEqual(got, 0.15) {
			t.Errorf("expected score 0.15, got %v", got)
		}
		if !reflect.DeepEqual(factors, []string{"Found in 3 data breaches"}) {
			t.Errorf("expected breach factor, got %v", factors)
		}
	})

	t.Run("breach contribution is capped", func(t *testing.T) {
		t.Parallel()

		b := bundleWith(okItem("breach", map[string]any{model.FieldBreachCount: 40}))
		got, factors := scorer.Evaluate(b)
		if !almostEqual(got, 0.30) {
			t.Errorf("expected capped score 0.30, got %v", got)
		}
		// The factor still reports the real count.
		if !reflect.DeepEqual(factors, []string{"Found in 40 data breaches"}) {
			t.Errorf("expected uncapped count in factor, got %v", factors)
		}
	})

	t.Run("overlapping catalogs count once", func(t *testing.T) {
		t.Parallel()

		b := bundleWith(
			okItem("breach-a", map[string]any{model.FieldBreachCount: 3}),
			okItem("breach-b", map[string]any{model.FieldBreachCount: 2}),
		)
		got, factors := scorer.Evaluate(b)
		if !almostEqual(got, 0.15) {
			t.Errorf("expected max-wins score 0.15, got %v", got)
		}
		if len(factors) != 1 {
			t.Errorf("expected one deduplicated factor, got %v", factors)
		}
	})

	t.Run("sum is clamped to one", func(t *testing.T) {
		t.Parallel()

		b := bundleWith(
			okItem("reputation", map[string]any{
				model.FieldMalicious: true,
				model.FieldSpamScore: 0.95,
			}),
			okItem("breach", map[string]any{model.FieldBreachCount: 10}),
			okItem("wallet", map[string]any{
				model.FieldMixerLinked:      true,
				model.FieldDarkMarketLinked: true,
			}),
		)
		got, _ := scorer.Evaluate(b)
		if got != 1.0 {
			t.Errorf("expected clamped score 1.0, got %v", got)
		}
	})

	t.Run("failed items contribute nothing", func(t *testing.T) {
		t.Parallel()

		b := &model.EvidenceBundle{
			Identifier: model.Identifier{Raw: "user@example.com", Kind: model.KindEmail},
			Items: []model.EvidenceItem{
				model.ErrorItem("breach", "upstream 500"),
				model.UnavailableItem("reputation"),
			},
			Status: model.ScanFailed,
		}
		got, factors := scorer.Evaluate(b)
		if got != 0 {
			t.Errorf("expected score 0 for all-failed bundle, got %v", got)
		}
		if len(factors) != 0 {
			t.Errorf("expected no factors, got %v", factors)
		}
	})

	t.Run("factors follow weight table order", func(t *testing.T) {
		t.Parallel()

		b := bundleWith(
			okItem("infra", map[string]any{model.FieldSSLIssues: true}),
			okItem("whois", map[string]any{model.FieldDomainAgeDays: 10}),
			okItem("breach", map[string]any{model.FieldBreachCount: 1}),
		)
		_, factors := scorer.Evaluate(b)
		want := []string{
			"Found in 1 data breaches",
			"Recently registered domain",
			"SSL certificate issues",
		}
		if !reflect.DeepEqual(factors, want) {
			t.Errorf("expected factors %v, got %v", want, factors)
		}
	})

	t.Run("stored evidence with json numbers scores identically", func(t *testing.T) {
		t.Parallel()

		// encoding/json round trips integers as float64.
		b := bundleWith(okItem("breach", map[string]any{model.FieldBreachCount: float64(3)}))
		got, _ := scorer.Evaluate(b)
		if !almostEqual(got, 0.15) {
			t.Errorf("expected score 0.15 from float64 field, got %v", got)
		}
	})

	t.Run("evaluation is pure", func(t *testing.T) {
		t.Parallel()

		b := bundleWith(okItem("reputation", map[string]any{model.FieldMalicious: true}))
		first, firstFactors := scorer.Evaluate(b)
		second, secondFactors := scorer.Evaluate(b)
		if first != second || !reflect.DeepEqual(firstFactors, secondFactors) {
			t.Error("expected identical results across evaluations of the same bundle")
		}
	})
}

// TestScorerConditions tests individual condition evaluators.
func TestScorerConditions(t *testing.T) {
	t.Parallel()

	scorer := NewScorer(config.DefaultWeightTable())

	tests := []struct {
		name   string
		fields map[string]any
		score  float64
		factor string
	}{
		{
			name:   "voip number",
			fields: map[string]any{model.FieldLineType: "voip"},
			score:  0.15,
			factor: "VOIP number",
		},
		{
			name:   "disposable email",
			fields: map[string]any{model.FieldDisposable: true},
			score:  0.15,
			factor: "Disposable email address",
		},
		{
			name:   "spam score at threshold",
			fields: map[string]any{model.FieldSpamScore: 0.7},
			score:  0.25,
			factor: "High spam score",
		},
		{
			name:   "no social presence",
			fields: map[string]any{model.FieldSocialProfiles: []string{}},
			score:  0.10,
			factor: "No social media presence",
		},
		{
			name:   "suspicious transactions",
			fields: map[string]any{model.FieldSuspiciousTx: true},
			score:  0.20,
			factor: "Suspicious transaction patterns",
		},
		{
			name:   "connected domains above threshold",
			fields: map[string]any{model.FieldConnectedDomains: 51},
			score:  0.10,
			factor: "Connected to 51 domains",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, factors := scorer.Evaluate(bundleWith(okItem("test", tt.fields)))
			if !almostEqual(got, tt.score) {
				t.Errorf("expected score %v, got %v", tt.score, got)
			}
			if len(factors) != 1 || factors[0] != tt.factor {
				t.Errorf("expected factor %q, got %v", tt.factor, factors)
			}
		})
	}

	t.Run("spam score below threshold does not fire", func(t *testing.T) {
		t.Parallel()

		got, _ := scorer.Evaluate(bundleWith(okItem("test", map[string]any{model.FieldSpamScore: 0.5})))
		if got != 0 {
			t.Errorf("expected score 0, got %v", got)
		}
	})

	t.Run("mobile line type does not fire", func(t *testing.T) {
		t.Parallel()

		got, _ := scorer.Evaluate(bundleWith(okItem("test", map[string]any{model.FieldLineType: "mobile"})))
		if got != 0 {
			t.Errorf("expected score 0, got %v", got)
		}
	})

	t.Run("found social presence does not fire", func(t *testing.T) {
		t.Parallel()

		got, _ := scorer.Evaluate(bundleWith(okItem("test", map[string]any{
			model.FieldSocialProfiles: []string{"gravatar"},
		})))
		if got != 0 {
			t.Errorf("expected score 0, got %v", got)
		}
	})

	t.Run("condition absent from table never fires", func(t *testing.T) {
		t.Parallel()

		partial := NewScorer(config.WeightTable{
			Version: 1,
			Entries: []config.WeightEntry{
				{Condition: config.ConditionKnownMalicious, Weight: 0.30},
			},
		})
		got, factors := partial.Evaluate(bundleWith(okItem("test", map[string]any{
			model.FieldDisposable: true,
		})))
		if got != 0 || len(factors) != 0 {
			t.Errorf("expected nothing to fire, got score %v factors %v", got, factors)
		}
	})
}
