// Package score turns an evidence bundle into a bounded risk score.
//
// Scoring is a pure function of the bundle and the weight table: no
// network, no clock, no randomness. Each condition in the table is
// evaluated once against the bundle's usable evidence, contributes its
// weight when it fires, and the sum is clamped to 1.0. Items that
// failed or timed out carry no fields, so missing evidence can only
// ever lower a score, never raise it.
package score
