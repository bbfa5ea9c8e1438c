package report

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/ghoztwoods/shadowintel/internal/model"
)

// SimpleWriter outputs human-readable text for terminal display.
//
// Design decision: Plain ASCII rather than ANSI colors. It works in
// every terminal and pipes cleanly into files and other tools.
type SimpleWriter struct {
	baseWriter

	// verbose includes per-source evidence fields in the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables per-source evidence detail.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WriteScan outputs the scan result as formatted text.
func (w *SimpleWriter) WriteScan(result *model.ScanResult) (int, error) {
	var sb strings.Builder

	divider := strings.Repeat("=", 60)
	fmt.Fprintln(&sb, divider)
	fmt.Fprintf(&sb, "SCAN REPORT: %s (%s)\n", result.Identifier.Raw, result.Identifier.Kind)
	fmt.Fprintln(&sb, divider)
	fmt.Fprintf(&sb, "Scan ID:    %s\n", result.ID)
	fmt.Fprintf(&sb, "Scanned At: %s\n", result.ScannedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&sb, "Status:     %s\n", result.Status)
	fmt.Fprintf(&sb, "Risk Score: %.2f (%s)\n", result.RiskScore, riskLabel(result.RiskScore))
	fmt.Fprintln(&sb)

	if len(result.RiskFactors) > 0 {
		fmt.Fprintln(&sb, "Risk Factors:")
		for _, factor := range result.RiskFactors {
			fmt.Fprintf(&sb, "  - %s\n", factor)
		}
		fmt.Fprintln(&sb)
	}

	fmt.Fprintln(&sb, "Evidence Sources:")
	for _, item := range result.Bundle.Items {
		line := fmt.Sprintf("  [%s] %s", item.Status, item.Source)
		if item.Detail != "" {
			line += " - " + item.Detail
		}
		fmt.Fprintln(&sb, line)

		if w.verbose && item.Status == model.StatusOK {
			for _, key := range sortedFieldKeys(item.Fields) {
				fmt.Fprintf(&sb, "      %s: %v\n", key, item.Fields[key])
			}
		}
	}
	fmt.Fprintln(&sb, divider)

	return w.output.Write([]byte(sb.String()))
}

// WriteMovement outputs the movement report as formatted text.
func (w *SimpleWriter) WriteMovement(report *model.MovementReport) (int, error) {
	var sb strings.Builder

	divider := strings.Repeat("=", 60)
	fmt.Fprintln(&sb, divider)
	fmt.Fprintf(&sb, "MOVEMENT REPORT: %s\n", report.Target)
	fmt.Fprintln(&sb, divider)
	fmt.Fprintf(&sb, "Analyzed At:  %s\n", report.AnalyzedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&sb, "Observations: %d\n", report.ObservationCount)
	fmt.Fprintln(&sb)

	fmt.Fprintf(&sb, "Recurring Locations (%d):\n", len(report.Clusters))
	for i, c := range report.Clusters {
		marker := ""
		if c.Frequent {
			marker = " [frequent]"
		}
		fmt.Fprintf(&sb, "  %d. (%.4f, %.4f) - %d observations%s\n",
			i+1, c.CenterLatitude, c.CenterLongitude, c.Size, marker)
	}
	fmt.Fprintln(&sb)

	if len(report.Anomalies) > 0 {
		fmt.Fprintf(&sb, "Speed Anomalies (%d):\n", len(report.Anomalies))
		for _, a := range report.Anomalies {
			fmt.Fprintf(&sb, "  - %.0f km/h at (%.4f, %.4f) on %s (%.1f sigma)\n",
				a.SpeedKmh, a.Latitude, a.Longitude,
				a.Timestamp.Format("2006-01-02 15:04"), a.Deviation)
		}
	} else {
		fmt.Fprintln(&sb, "Speed Anomalies: none")
	}
	fmt.Fprintln(&sb, divider)

	return w.output.Write([]byte(sb.String()))
}

// sortedFieldKeys returns the field names in stable order.
func sortedFieldKeys(fields map[string]any) []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
