package model

import (
	"testing"
	"time"
)

// TestNewScanID tests that scan identity derivation is deterministic and
// collision-resistant across inputs.
func TestNewScanID(t *testing.T) {
	t.Parallel()

	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	id1 := NewScanID("user@example.com", KindEmail, at, 0)
	id2 := NewScanID("user@example.com", KindEmail, at, 0)
	if id1 != id2 {
		t.Errorf("same inputs produced different ids: %q vs %q", id1, id2)
	}
	if len(id1) != scanIDLength {
		t.Errorf("id length = %d, expected %d", len(id1), scanIDLength)
	}

	testCases := []struct {
		name   string
		target string
		kind   Kind
		at     time.Time
		nonce  uint64
	}{
		{"different target", "other@example.com", KindEmail, at, 0},
		{"different kind", "user@example.com", KindDomain, at, 0},
		{"different time", "user@example.com", KindEmail, at.Add(time.Nanosecond), 0},
		{"different nonce", "user@example.com", KindEmail, at, 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := NewScanID(tc.target, tc.kind, tc.at, tc.nonce); got == id1 {
				t.Errorf("expected distinct id for %s, got collision %q", tc.name, got)
			}
		})
	}
}

// TestScanResultSummary tests that the indexable projection carries the
// fields list queries need.
func TestScanResultSummary(t *testing.T) {
	t.Parallel()

	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	result := &ScanResult{
		ID:         "abc123",
		Identifier: Identifier{Raw: "example.com", Kind: KindDomain},
		RiskScore:  0.45,
		Status:     ScanPartiallyCompleted,
		ScannedAt:  at,
	}

	summary := result.Summary()
	if summary.ID != "abc123" {
		t.Errorf("ID = %q, expected %q", summary.ID, "abc123")
	}
	if summary.Target != "example.com" {
		t.Errorf("Target = %q, expected %q", summary.Target, "example.com")
	}
	if summary.Kind != KindDomain {
		t.Errorf("Kind = %v, expected %v", summary.Kind, KindDomain)
	}
	if summary.RiskScore != 0.45 {
		t.Errorf("RiskScore = %v, expected 0.45", summary.RiskScore)
	}
	if !summary.ScannedAt.Equal(at) {
		t.Errorf("ScannedAt = %v, expected %v", summary.ScannedAt, at)
	}
}
