package report

import (
	"io"

	"github.com/ghoztwoods/shadowintel/internal/model"
)

// Writer renders analysis output in one format.
//
// Design decision: One interface for both record types rather than a
// writer per type, because the CLI composes the same destinations
// (terminal, file) for scans and movement analyses alike.
type Writer interface {
	// WriteScan outputs a scan result. Returns bytes written.
	WriteScan(result *model.ScanResult) (int, error)

	// WriteMovement outputs a movement report. Returns bytes written.
	WriteMovement(report *model.MovementReport) (int, error)
}

// riskLabel maps a score to a display band.
func riskLabel(score float64) string {
	switch {
	case score >= 0.8:
		return "CRITICAL"
	case score >= 0.6:
		return "HIGH"
	case score >= 0.4:
		return "MEDIUM"
	case score >= 0.2:
		return "LOW"
	default:
		return "MINIMAL"
	}
}

// MultiWriter writes to multiple Writers, stopping at the first error.
// Useful for terminal output plus a report file in one scan.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer fanning out to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// WriteScan outputs the result to all configured Writers.
func (m *MultiWriter) WriteScan(result *model.ScanResult) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WriteScan(result)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// WriteMovement outputs the report to all configured Writers.
func (m *MultiWriter) WriteMovement(report *model.MovementReport) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WriteMovement(report)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides the shared output destination.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
