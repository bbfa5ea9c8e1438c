package model

// Kind classifies a raw identifier into one of the investigation targets
// the engine knows how to handle.
//
// Design decision: We use iota-based constants rather than string constants
// for efficiency in comparisons and map keys. The String() method provides
// human-readable output for reports and logs.
type Kind int

const (
	// KindUnknown indicates the input matched no recognized identifier
	// pattern. Unknown is a valid classification, not an error; the
	// aggregator rejects it because no evidence source applies.
	KindUnknown Kind = iota

	// KindPhone indicates a phone number (7-15 digits with optional
	// formatting symbols).
	KindPhone

	// KindEmail indicates an email address (exactly one @ with valid
	// local and domain parts).
	KindEmail

	// KindDomain indicates a DNS hostname (dot-separated labels with an
	// alphabetic TLD of at least two characters).
	KindDomain

	// KindCryptoAddress indicates a cryptocurrency address (base58,
	// bech32, or 0x-prefixed hex).
	KindCryptoAddress
)

// String returns a human-readable representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindPhone:
		return "phone"
	case KindEmail:
		return "email"
	case KindDomain:
		return "domain"
	case KindCryptoAddress:
		return "crypto_address"
	default:
		return "unknown"
	}
}

// ParseKind converts a kind name back into a Kind.
// Unrecognized names map to KindUnknown, mirroring the classifier's
// total-function contract.
func ParseKind(s string) Kind {
	switch s {
	case "phone":
		return KindPhone
	case "email":
		return KindEmail
	case "domain":
		return KindDomain
	case "crypto_address":
		return KindCryptoAddress
	default:
		return KindUnknown
	}
}

// Identifier is an immutable value pairing a raw input string with its
// classified kind. The Raw field holds the normalized form (trimmed,
// NFKC-folded) that sources should query, not the original user input.
type Identifier struct {
	// Raw is the normalized identifier string.
	Raw string `json:"raw"`

	// Kind is the classification result.
	Kind Kind `json:"kind"`
}

// String returns the identifier in "kind:raw" form for logs.
func (id Identifier) String() string {
	return id.Kind.String() + ":" + id.Raw
}
