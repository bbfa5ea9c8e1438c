package model

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/crypto/blake2b"
)

// scanIDLength is the length of the hex-encoded scan identifier.
// 16 bytes of a BLAKE2b digest gives a collision margin far beyond the
// number of scans a single database will ever hold.
const scanIDLength = 32

// ScanResult is the complete, persisted outcome of one scan invocation.
// Results are created once by the engine and never mutated afterwards;
// the store treats them as append-only records.
type ScanResult struct {
	// ID is the content-derived identity of this scan. It is
	// deterministic for a given target, timestamp, and nonce, so a
	// retried write of the same result lands on the same row.
	ID string `json:"id"`

	// Identifier is the classified scan target.
	Identifier Identifier `json:"identifier"`

	// Bundle holds the collected evidence.
	Bundle EvidenceBundle `json:"bundle"`

	// RiskScore is the bounded risk summary in [0, 1].
	RiskScore float64 `json:"risk_score"`

	// RiskFactors lists the human-readable contributing factors in the
	// scorer's fixed evaluation order.
	RiskFactors []string `json:"risk_factors"`

	// Status mirrors the bundle's collection outcome.
	Status ScanStatus `json:"status"`

	// ScannedAt is the scan timestamp.
	ScannedAt time.Time `json:"scanned_at"`
}

// NewScanID derives a scan identity from the target, the scan timestamp,
// and a caller-supplied nonce.
//
// Design decision: We hash rather than use a random UUID because identity
// must be reproducible: the engine derives the id before persisting, and a
// retried save of the identical result must overwrite, not duplicate. The
// nonce distinguishes two deliberate scans of the same target in the same
// nanosecond, which random ids would also do but at the cost of losing
// idempotent retries.
func NewScanID(target string, kind Kind, scannedAt time.Time, nonce uint64) string {
	h, err := blake2b.New256(nil)
	if err != nil {
		// blake2b.New256 only fails with an oversized key; nil never does.
		panic(err)
	}
	h.Write([]byte(target))
	h.Write([]byte{0})
	h.Write([]byte(kind.String()))
	h.Write([]byte{0})
	h.Write([]byte(strconv.FormatInt(scannedAt.UTC().UnixNano(), 10)))
	h.Write([]byte{0})
	h.Write([]byte(strconv.FormatUint(nonce, 10)))
	return hex.EncodeToString(h.Sum(nil))[:scanIDLength]
}

// ScanSummary is the lightweight, indexable projection of a ScanResult
// used by list queries. It is stored in dedicated columns so that listing
// recent or high-risk scans never deserializes full bundles.
type ScanSummary struct {
	ID        string     `json:"id"`
	Target    string     `json:"target"`
	Kind      Kind       `json:"kind"`
	RiskScore float64    `json:"risk_score"`
	Status    ScanStatus `json:"status"`
	ScannedAt time.Time  `json:"scanned_at"`
}

// Summary derives the indexable projection of the result.
func (r *ScanResult) Summary() ScanSummary {
	return ScanSummary{
		ID:        r.ID,
		Target:    r.Identifier.Raw,
		Kind:      r.Identifier.Kind,
		RiskScore: r.RiskScore,
		Status:    r.Status,
		ScannedAt: r.ScannedAt,
	}
}

// String returns a one-line description for logs.
func (r *ScanResult) String() string {
	return fmt.Sprintf("%s %s score=%.2f %s", r.ID, r.Identifier, r.RiskScore, r.Status)
}
