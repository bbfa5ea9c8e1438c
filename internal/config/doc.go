// Package config holds all configuration for the shadowintel engine:
// scan timing and concurrency, the versioned risk-weight table, geo
// analysis parameters, and per-source settings.
//
// # Lifecycle
//
// Configuration is loaded once at startup, validated, and then treated as
// immutable. It is injected into the aggregator, the evidence sources, and
// the movement analyzer rather than read from globals; nothing in the
// engine consults configuration state after construction.
//
// Validation fails fast: an unknown weight condition, an unknown source
// name, or an out-of-range geo parameter aborts startup before any scan is
// accepted. No recognized option silently falls back to an undocumented
// default; every default is a named constant in this package.
package config
