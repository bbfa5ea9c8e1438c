// Package engine wires classification, evidence aggregation, risk
// scoring, and persistence into the scan operations the CLI exposes.
//
// The engine owns the scan lifecycle: classify the raw input, collect
// evidence under the scan deadline, score the bundle, and persist the
// result. Unclassifiable input fails before any source is queried and
// before anything touches the store.
package engine
