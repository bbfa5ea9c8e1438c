// Package geo analyzes the movement pattern behind a sequence of
// location observations: recurring locations via density-based
// clustering, travel segments with great-circle distances and speeds,
// and speed outliers that indicate VPN exit hopping or fabricated
// position data.
//
// Analysis is a pure function of the observations and the configured
// parameters. The input slice is never modified; observations are
// copied and time-sorted internally.
package geo
