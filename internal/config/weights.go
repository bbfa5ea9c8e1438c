package config

import "fmt"

// Risk condition names. The scorer evaluates conditions in the order of
// the weight table; each name here has exactly one evaluator in
// internal/score.
//
// Design decision: Condition names live in config rather than in the
// scorer because the weight table is configuration and must be validated
// at startup, before the scorer is ever invoked. This is the single
// source of truth for what can be weighted, mirroring the idea of one
// centralized severity mapping rather than per-call tables.
const (
	// ConditionBreachCount fires when the identifier appears in data
	// breaches. Its weight is applied per breach, capped at
	// BreachCountCap occurrences.
	ConditionBreachCount = "breach_count"

	// ConditionKnownMalicious fires when any source flags the
	// identifier on a known-malicious list.
	ConditionKnownMalicious = "known_malicious"

	// ConditionSpamScore fires when a reputation source reports a spam
	// score above SpamScoreThreshold.
	ConditionSpamScore = "spam_score"

	// ConditionVOIPNumber fires when a phone resolves to a VOIP line,
	// the line type most commonly used in scam operations.
	ConditionVOIPNumber = "voip_number"

	// ConditionDisposableEmail fires when the email domain belongs to a
	// disposable-address provider.
	ConditionDisposableEmail = "disposable_email"

	// ConditionNewDomain fires when a domain was registered within
	// NewDomainAgeDays of the scan.
	ConditionNewDomain = "newly_registered_domain"

	// ConditionNoSocialPresence fires when no legitimate social media
	// presence is found for an email.
	ConditionNoSocialPresence = "no_social_presence"

	// ConditionSSLIssues fires when certificate problems are detected
	// on a domain (expired, self-signed, hostname mismatch).
	ConditionSSLIssues = "ssl_issues"

	// ConditionMixingService fires when a crypto address is connected
	// to mixing services.
	ConditionMixingService = "mixing_service"

	// ConditionDarkMarket fires when a crypto address's wallet cluster
	// is associated with dark markets.
	ConditionDarkMarket = "dark_market"

	// ConditionSuspiciousTx fires when transaction patterns match known
	// high-risk shapes (peel chains, rapid fan-out).
	ConditionSuspiciousTx = "suspicious_tx_patterns"

	// ConditionConnectedDomains fires when a domain shares
	// infrastructure with more than ConnectedDomainsThreshold others.
	ConditionConnectedDomains = "excessive_connected_domains"
)

// Thresholds referenced by the condition evaluators. These are part of
// the versioned scoring scheme, not tunable per call.
const (
	// BreachCountCap bounds how many breach occurrences contribute to
	// the score. Beyond six breaches the marginal signal is negligible.
	BreachCountCap = 6

	// SpamScoreThreshold is the reputation spam score above which
	// ConditionSpamScore fires.
	SpamScoreThreshold = 0.7

	// NewDomainAgeDays is the registration age below which a domain
	// counts as newly registered.
	NewDomainAgeDays = 90

	// ConnectedDomainsThreshold is the connected-domain count above
	// which ConditionConnectedDomains fires.
	ConnectedDomainsThreshold = 50
)

// WeightEntry assigns a weight to one risk condition.
type WeightEntry struct {
	// Condition is the condition name; it must be one of the Condition*
	// constants.
	Condition string `yaml:"condition"`

	// Weight is the score contribution in (0, 1] when the condition
	// fires. For per-occurrence conditions (breach_count) it is the
	// contribution per occurrence before capping.
	Weight float64 `yaml:"weight"`
}

// WeightTable is the ordered, versioned risk-weight configuration. Order
// matters: the scorer evaluates conditions and emits factors in table
// order, which is what makes factor lists deterministic.
type WeightTable struct {
	// Version identifies the scoring scheme revision.
	Version int `yaml:"version"`

	// Entries are the weighted conditions in evaluation order.
	Entries []WeightEntry `yaml:"entries"`
}

// knownConditions is the set of condition names the scorer implements.
var knownConditions = map[string]bool{
	ConditionBreachCount:      true,
	ConditionKnownMalicious:   true,
	ConditionSpamScore:        true,
	ConditionVOIPNumber:       true,
	ConditionDisposableEmail:  true,
	ConditionNewDomain:        true,
	ConditionNoSocialPresence: true,
	ConditionSSLIssues:        true,
	ConditionMixingService:    true,
	ConditionDarkMarket:       true,
	ConditionSuspiciousTx:     true,
	ConditionConnectedDomains: true,
}

// DefaultWeightTable returns the built-in scoring scheme. The weights
// reflect how strongly each signal correlates with scam activity:
// list-based signals (malicious lists, dark markets, mixers) weigh most,
// circumstantial signals (line type, domain age) weigh less.
func DefaultWeightTable() WeightTable {
	return WeightTable{
		Version: 1,
		Entries: []WeightEntry{
			{Condition: ConditionBreachCount, Weight: 0.05},
			{Condition: ConditionKnownMalicious, Weight: 0.30},
			{Condition: ConditionSpamScore, Weight: 0.25},
			{Condition: ConditionVOIPNumber, Weight: 0.15},
			{Condition: ConditionDisposableEmail, Weight: 0.15},
			{Condition: ConditionNewDomain, Weight: 0.15},
			{Condition: ConditionNoSocialPresence, Weight: 0.10},
			{Condition: ConditionSSLIssues, Weight: 0.10},
			{Condition: ConditionMixingService, Weight: 0.30},
			{Condition: ConditionDarkMarket, Weight: 0.30},
			{Condition: ConditionSuspiciousTx, Weight: 0.20},
			{Condition: ConditionConnectedDomains, Weight: 0.10},
		},
	}
}

// Validate checks that every entry names a known condition exactly once
// with a weight in range.
func (t WeightTable) Validate() error {
	seen := make(map[string]bool, len(t.Entries))
	for _, e := range t.Entries {
		if !knownConditions[e.Condition] {
			return fmt.Errorf("%w: %q", ErrUnknownCondition, e.Condition)
		}
		if seen[e.Condition] {
			return fmt.Errorf("%w: %q", ErrDuplicateCondition, e.Condition)
		}
		seen[e.Condition] = true
		if e.Weight <= 0 || e.Weight > 1 {
			return fmt.Errorf("%w: %q has weight %v", ErrInvalidWeight, e.Condition, e.Weight)
		}
	}
	return nil
}

// Weight returns the configured weight for a condition and whether the
// condition is present in the table. Conditions absent from the table do
// not fire at all.
func (t WeightTable) Weight(condition string) (float64, bool) {
	for _, e := range t.Entries {
		if e.Condition == condition {
			return e.Weight, true
		}
	}
	return 0, false
}
