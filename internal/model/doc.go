// Package model defines the core data structures shared across the
// shadowintel engine: classified identifiers, evidence items and bundles,
// scan results, movement reports, and tip submissions.
//
// # Design Philosophy
//
// All types in this package are immutable once produced. Evidence items are
// created by a single source and never modified afterwards; scan results are
// written once and read many times. This immutability is what makes the risk
// scorer reproducible: scoring the same bundle twice always yields the same
// score and factor list.
//
// Design decision: We keep these types free of behavior that touches the
// network or the filesystem because:
//  1. Every other package depends on model, so it must stay dependency-light
//  2. Pure value types are trivial to construct in tests
//  3. Serialization (JSON for storage and reports) works without adapters
package model
