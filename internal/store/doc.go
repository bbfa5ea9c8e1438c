// Package store persists scan results, movement reports, and informant
// tips in a single SQLite database.
//
// Full records are stored as JSON documents; the columns list queries
// filter and sort on (target, risk score, status, timestamp) are
// duplicated alongside, so listing recent or high-risk scans never
// deserializes a bundle. Saves are idempotent: writing the same record
// id twice updates the existing row.
package store
