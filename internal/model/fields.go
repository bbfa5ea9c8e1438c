package model

// Well-known evidence field names. Sources may attach any fields they
// like, but these are the ones the risk scorer's condition table matches
// on. Keeping the vocabulary here gives sources and scorer one shared
// definition instead of stringly-typed coupling.
const (
	// FieldBreachCount (int) is the number of data breaches the
	// identifier appears in.
	FieldBreachCount = "breach_count"

	// FieldLineType (string) is the phone line type: "mobile",
	// "landline", "voip", or "unknown".
	FieldLineType = "line_type"

	// FieldDisposable (bool) marks an email on a disposable-address
	// provider.
	FieldDisposable = "disposable"

	// FieldDomainAgeDays (int) is the domain registration age.
	FieldDomainAgeDays = "domain_age_days"

	// FieldMalicious (bool) marks an identifier on a known-malicious
	// list.
	FieldMalicious = "malicious"

	// FieldSpamScore (float64) is a reputation spam score in [0, 1].
	FieldSpamScore = "spam_score"

	// FieldMixerLinked (bool) marks a crypto address connected to
	// mixing services.
	FieldMixerLinked = "mixer_linked"

	// FieldDarkMarketLinked (bool) marks a wallet cluster associated
	// with dark markets.
	FieldDarkMarketLinked = "dark_market_linked"

	// FieldSuspiciousTx (bool) marks high-risk transaction patterns.
	FieldSuspiciousTx = "suspicious_tx"

	// FieldConnectedDomains (int) counts domains sharing infrastructure
	// with the target.
	FieldConnectedDomains = "connected_domains"

	// FieldSocialProfiles ([]string) lists discovered social presence.
	// An empty (but present) list means the lookup ran and found none.
	FieldSocialProfiles = "social_profiles"

	// FieldSSLIssues (bool) marks certificate problems on a domain.
	FieldSSLIssues = "ssl_issues"
)
