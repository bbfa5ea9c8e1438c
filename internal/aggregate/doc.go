// Package aggregate fans an identifier out to every applicable evidence
// source concurrently and merges the answers into a single bundle.
//
// The aggregator owns the scan's time budget: each source runs under its
// own per-source timeout within the overall deadline, and when the
// deadline arrives, sources that have not answered are recorded as
// unavailable rather than waited for. One slow or broken source can
// therefore never stall a scan past its deadline or sink it entirely.
//
// Bundle items are ordered by source registration order regardless of
// which source answered first, so two scans of the same identifier
// produce bundles that compare field-for-field.
package aggregate
