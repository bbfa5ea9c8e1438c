package model

import "time"

// EvidenceStatus describes the outcome of one source's query.
type EvidenceStatus int

const (
	// StatusOK indicates the source returned usable data.
	StatusOK EvidenceStatus = iota

	// StatusUnavailable indicates the source did not answer within its
	// time budget. No retry is attempted; the aggregator records the
	// item and moves on.
	StatusUnavailable

	// StatusError indicates the source failed (network, parsing, auth).
	// The Detail field of the item carries the failure description.
	StatusError
)

// String returns a human-readable representation of the status.
func (s EvidenceStatus) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusUnavailable:
		return "unavailable"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// EvidenceItem is one source's contribution to a scan. Items are immutable
// once produced; the aggregator collects them into a bundle without
// modification.
//
// Design decision: Fields is an open map of named values rather than a
// fixed struct because the schema varies by source and identifier kind.
// Well-known field names (see the fields package-level constants in
// internal/source) are what the risk scorer's condition table matches on;
// everything else is carried for display and storage only.
type EvidenceItem struct {
	// Source is the name of the evidence source that produced this item.
	Source string `json:"source"`

	// Status records whether the query succeeded.
	Status EvidenceStatus `json:"status"`

	// Detail holds the failure description when Status is StatusError.
	Detail string `json:"detail,omitempty"`

	// Fields maps named fields to values. Values are strings, numbers,
	// booleans, or nested maps depending on the source.
	Fields map[string]any `json:"fields,omitempty"`

	// RiskFactors lists human-readable risk observations flagged by the
	// source, in the order the source raised them. These are for
	// display; the scorer derives its own deduplicated factor list from
	// Fields.
	RiskFactors []string `json:"risk_factors,omitempty"`
}

// ErrorItem builds an EvidenceItem recording a source failure.
func ErrorItem(source, detail string) EvidenceItem {
	return EvidenceItem{Source: source, Status: StatusError, Detail: detail}
}

// UnavailableItem builds an EvidenceItem recording a source timeout.
func UnavailableItem(source string) EvidenceItem {
	return EvidenceItem{Source: source, Status: StatusUnavailable}
}

// Field returns the named field value, or nil if the item carries no such
// field or the item is not StatusOK. Failed items contribute no fields,
// which is what keeps absence of data from ever counting as risk.
func (e EvidenceItem) Field(name string) any {
	if e.Status != StatusOK || e.Fields == nil {
		return nil
	}
	return e.Fields[name]
}

// ScanStatus describes the overall outcome of a scan.
type ScanStatus int

const (
	// ScanCompleted indicates every applicable source succeeded.
	ScanCompleted ScanStatus = iota

	// ScanPartiallyCompleted indicates at least one source failed or
	// timed out, but usable evidence was still collected.
	ScanPartiallyCompleted

	// ScanFailed indicates no evidence source exists for the
	// identifier's kind, so nothing could be collected.
	ScanFailed
)

// String returns a human-readable representation of the scan status.
func (s ScanStatus) String() string {
	switch s {
	case ScanCompleted:
		return "completed"
	case ScanPartiallyCompleted:
		return "partially_completed"
	case ScanFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// EvidenceBundle is the merged output of all applicable evidence sources
// for one identifier. Item order follows source registration order, not
// completion order, so display output is deterministic.
type EvidenceBundle struct {
	// Identifier is the classified target of the scan.
	Identifier Identifier `json:"identifier"`

	// CollectedAt is the collection timestamp.
	CollectedAt time.Time `json:"collected_at"`

	// Items are the per-source contributions in registration order.
	Items []EvidenceItem `json:"items"`

	// Status summarizes the collection outcome.
	Status ScanStatus `json:"status"`
}

// OKItems returns the items that carry usable data.
func (b *EvidenceBundle) OKItems() []EvidenceItem {
	ok := make([]EvidenceItem, 0, len(b.Items))
	for _, item := range b.Items {
		if item.Status == StatusOK {
			ok = append(ok, item)
		}
	}
	return ok
}

// SourceStatuses returns a source-name to status mapping for the
// per-source transparency list in scan responses.
func (b *EvidenceBundle) SourceStatuses() []SourceStatus {
	statuses := make([]SourceStatus, 0, len(b.Items))
	for _, item := range b.Items {
		statuses = append(statuses, SourceStatus{
			Source: item.Source,
			Status: item.Status.String(),
			Detail: item.Detail,
		})
	}
	return statuses
}

// SourceStatus is one entry of the per-source status list exposed to
// callers of the scan boundary.
type SourceStatus struct {
	Source string `json:"source"`
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}
