package model

import "time"

// Urgency grades how quickly a submitted tip should be reviewed.
type Urgency int

const (
	// UrgencyLow marks tips with no time pressure.
	UrgencyLow Urgency = iota

	// UrgencyMedium marks tips about ongoing but non-escalating activity.
	UrgencyMedium

	// UrgencyHigh marks tips about active scams with victims at risk.
	UrgencyHigh
)

// String returns a human-readable representation of the urgency.
func (u Urgency) String() string {
	switch u {
	case UrgencyHigh:
		return "high"
	case UrgencyMedium:
		return "medium"
	default:
		return "low"
	}
}

// ParseUrgency converts an urgency name back into an Urgency.
// Unrecognized names map to UrgencyLow.
func ParseUrgency(s string) Urgency {
	switch s {
	case "high":
		return UrgencyHigh
	case "medium":
		return UrgencyMedium
	default:
		return UrgencyLow
	}
}

// Tip is a free-form report submitted by an informant. Tips are persisted
// under their own namespace in the result store, separate from scans.
type Tip struct {
	// ID is the content-derived tip identity, assigned on submission.
	ID string `json:"id"`

	// SubmittedAt is the submission timestamp.
	SubmittedAt time.Time `json:"submitted_at"`

	// Reporter describes who is reporting (e.g. "victim", "witness",
	// "investigator").
	Reporter string `json:"reporter"`

	// Category names the scam category the tip concerns.
	Category string `json:"category"`

	// Urgency grades review priority.
	Urgency Urgency `json:"urgency"`

	// Details carries the free-form structured payload of the tip.
	Details map[string]any `json:"details,omitempty"`
}
