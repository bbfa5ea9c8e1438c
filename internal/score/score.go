package score

import (
	"fmt"

	"github.com/ghoztwoods/shadowintel/internal/config"
	"github.com/ghoztwoods/shadowintel/internal/model"
)

// Scorer evaluates a weight table against evidence bundles. It is
// immutable after construction and safe for concurrent use.
type Scorer struct {
	table config.WeightTable
}

// NewScorer creates a scorer over a validated weight table.
func NewScorer(table config.WeightTable) *Scorer {
	return &Scorer{table: table}
}

// finding is one fired condition: its score contribution and the factor
// string shown to analysts.
type finding struct {
	contribution float64
	factor       string
}

// evaluator checks one condition against the bundle. It returns nil
// when the condition does not fire. weight is the table weight for the
// condition.
type evaluator func(b *model.EvidenceBundle, weight float64) *finding

// evaluators maps condition names to their checks. Every condition in
// config's known set has exactly one entry here.
var evaluators = map[string]evaluator{
	config.ConditionBreachCount:      evalBreachCount,
	config.ConditionKnownMalicious:   evalKnownMalicious,
	config.ConditionSpamScore:        evalSpamScore,
	config.ConditionVOIPNumber:       evalVOIPNumber,
	config.ConditionDisposableEmail:  evalDisposableEmail,
	config.ConditionNewDomain:        evalNewDomain,
	config.ConditionNoSocialPresence: evalNoSocialPresence,
	config.ConditionSSLIssues:        evalSSLIssues,
	config.ConditionMixingService:    evalMixingService,
	config.ConditionDarkMarket:       evalDarkMarket,
	config.ConditionSuspiciousTx:     evalSuspiciousTx,
	config.ConditionConnectedDomains: evalConnectedDomains,
}

// Evaluate computes the risk score and factor list for a bundle. The
// score is the clamped sum of fired condition weights; factors are
// emitted in weight-table order, one per fired condition, with no
// duplicates even when several sources report the same signal.
func (s *Scorer) Evaluate(b *model.EvidenceBundle) (float64, []string) {
	total := 0.0
	factors := []string{}

	for _, entry := range s.table.Entries {
		eval, ok := evaluators[entry.Condition]
		if !ok {
			continue
		}
		if f := eval(b, entry.Weight); f != nil {
			total += f.contribution
			factors = append(factors, f.factor)
		}
	}

	if total > 1.0 {
		total = 1.0
	}
	return total, factors
}

// Version returns the weight table revision the scorer applies.
func (s *Scorer) Version() int {
	return s.table.Version
}

func evalBreachCount(b *model.EvidenceBundle, weight float64) *finding {
	// Several sources may report breach counts; the largest wins rather
	// than the sum, so overlapping catalogs are not double counted.
	n, ok := maxInt(b, model.FieldBreachCount)
	if !ok || n <= 0 {
		return nil
	}
	capped := n
	if capped > config.BreachCountCap {
		capped = config.BreachCountCap
	}
	return &finding{
		contribution: weight * float64(capped),
		factor:       fmt.Sprintf("Found in %d data breaches", n),
	}
}

func evalKnownMalicious(b *model.EvidenceBundle, weight float64) *finding {
	if !anyTrue(b, model.FieldMalicious) {
		return nil
	}
	return &finding{contribution: weight, factor: "Known malicious identifier"}
}

func evalSpamScore(b *model.EvidenceBundle, weight float64) *finding {
	score, ok := maxFloat(b, model.FieldSpamScore)
	if !ok || score < config.SpamScoreThreshold {
		return nil
	}
	return &finding{contribution: weight, factor: "High spam score"}
}

func evalVOIPNumber(b *model.EvidenceBundle, weight float64) *finding {
	for _, item := range b.OKItems() {
		if item.Field(model.FieldLineType) == "voip" {
			return &finding{contribution: weight, factor: "VOIP number"}
		}
	}
	return nil
}

func evalDisposableEmail(b *model.EvidenceBundle, weight float64) *finding {
	if !anyTrue(b, model.FieldDisposable) {
		return nil
	}
	return &finding{contribution: weight, factor: "Disposable email address"}
}

func evalNewDomain(b *model.EvidenceBundle, weight float64) *finding {
	age, ok := minInt(b, model.FieldDomainAgeDays)
	if !ok || age >= config.NewDomainAgeDays {
		return nil
	}
	return &finding{contribution: weight, factor: "Recently registered domain"}
}

func evalNoSocialPresence(b *model.EvidenceBundle, weight float64) *finding {
	// The condition needs positive evidence of absence: a source must
	// have looked and found nothing. Items without the field never fire.
	looked := false
	for _, item := range b.OKItems() {
		profiles, ok := item.Field(model.FieldSocialProfiles).([]string)
		if !ok {
			continue
		}
		looked = true
		if len(profiles) > 0 {
			return nil
		}
	}
	if !looked {
		return nil
	}
	return &finding{contribution: weight, factor: "No social media presence"}
}

func evalSSLIssues(b *model.EvidenceBundle, weight float64) *finding {
	if !anyTrue(b, model.FieldSSLIssues) {
		return nil
	}
	return &finding{contribution: weight, factor: "SSL certificate issues"}
}

func evalMixingService(b *model.EvidenceBundle, weight float64) *finding {
	if !anyTrue(b, model.FieldMixerLinked) {
		return nil
	}
	return &finding{contribution: weight, factor: "Connected to mixing services"}
}

func evalDarkMarket(b *model.EvidenceBundle, weight float64) *finding {
	if !anyTrue(b, model.FieldDarkMarketLinked) {
		return nil
	}
	return &finding{contribution: weight, factor: "Dark market association"}
}

func evalSuspiciousTx(b *model.EvidenceBundle, weight float64) *finding {
	if !anyTrue(b, model.FieldSuspiciousTx) {
		return nil
	}
	return &finding{contribution: weight, factor: "Suspicious transaction patterns"}
}

func evalConnectedDomains(b *model.EvidenceBundle, weight float64) *finding {
	n, ok := maxInt(b, model.FieldConnectedDomains)
	if !ok || n <= config.ConnectedDomainsThreshold {
		return nil
	}
	return &finding{
		contribution: weight,
		factor:       fmt.Sprintf("Connected to %d domains", n),
	}
}
