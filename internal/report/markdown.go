package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/ghoztwoods/shadowintel/internal/model"
)

// MarkdownWriter outputs records as Markdown for case files and
// sharing.
//
// Design decision: We use the nao1215/markdown library for fluent,
// type-safe markdown generation with table and alert support.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given
// writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// WriteScan outputs the scan result as Markdown.
func (w *MarkdownWriter) WriteScan(result *model.ScanResult) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Intelligence Scan Report")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Target", "`" + result.Identifier.Raw + "`"},
			{"Kind", result.Identifier.Kind.String()},
			{"Scan ID", "`" + result.ID + "`"},
			{"Scanned", result.ScannedAt.Format("2006-01-02 15:04:05 MST")},
			{"Status", result.Status.String()},
			{"Risk Score", fmt.Sprintf("%.2f (%s)", result.RiskScore, riskLabel(result.RiskScore))},
		},
	})
	md.PlainText("")

	w.writeRiskAlert(md, result.RiskScore)

	if len(result.Bundle.Items) > 0 {
		w.writeSourcePieChart(md, result)
	}

	if len(result.RiskFactors) > 0 {
		md.H2("Risk Factors")
		md.PlainText("")
		md.BulletList(result.RiskFactors...)
		md.PlainText("")
	}

	md.H2("Evidence Sources")
	md.PlainText("")
	rows := make([][]string, 0, len(result.Bundle.Items))
	for _, item := range result.Bundle.Items {
		detail := item.Detail
		if detail == "" && item.Status == model.StatusOK {
			detail = fmt.Sprintf("%d fields", len(item.Fields))
		}
		rows = append(rows, []string{item.Source, item.Status.String(), detail})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Source", "Status", "Detail"},
		Rows:   rows,
	})

	return len(md.String()), md.Build()
}

// writeSourcePieChart writes a mermaid pie chart of the evidence source
// outcome distribution.
func (w *MarkdownWriter) writeSourcePieChart(md *markdown.Markdown, result *model.ScanResult) {
	var ok, unavailable, failed int
	for _, item := range result.Bundle.Items {
		switch item.Status {
		case model.StatusOK:
			ok++
		case model.StatusUnavailable:
			unavailable++
		case model.StatusError:
			failed++
		}
	}

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Evidence Source Outcomes"),
		piechart.WithShowData(true),
	)
	if ok > 0 {
		chart.LabelAndIntValue("OK", uint64(ok))
	}
	if unavailable > 0 {
		chart.LabelAndIntValue("Unavailable", uint64(unavailable))
	}
	if failed > 0 {
		chart.LabelAndIntValue("Error", uint64(failed))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeRiskAlert adds a GitHub-flavored alert sized to the score.
func (w *MarkdownWriter) writeRiskAlert(md *markdown.Markdown, score float64) {
	switch {
	case score >= 0.8:
		md.Cautionf("Critical risk. Treat this identifier as actively malicious.")
	case score >= 0.6:
		md.Warningf("High risk. Strong indicators of scam activity.")
	case score >= 0.4:
		md.Importantf("Medium risk. Several indicators warrant closer review.")
	default:
		md.Note("Low risk based on collected evidence.")
	}
	md.PlainText("")
}

// WriteMovement outputs the movement report as Markdown.
func (w *MarkdownWriter) WriteMovement(report *model.MovementReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Movement Analysis Report")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Target", "`" + report.Target + "`"},
			{"Analyzed", report.AnalyzedAt.Format("2006-01-02 15:04:05 MST")},
			{"Observations", strconv.Itoa(report.ObservationCount)},
			{"Recurring Locations", strconv.Itoa(len(report.Clusters))},
			{"Speed Anomalies", strconv.Itoa(len(report.Anomalies))},
		},
	})
	md.PlainText("")

	if len(report.Anomalies) > 0 {
		md.Warningf("Impossible travel detected. Location data is likely spoofed or VPN-routed.")
		md.PlainText("")
	}

	if len(report.Clusters) > 0 {
		md.H2("Recurring Locations")
		md.PlainText("")
		rows := make([][]string, 0, len(report.Clusters))
		for _, c := range report.Clusters {
			frequent := ""
			if c.Frequent {
				frequent = "yes"
			}
			rows = append(rows, []string{
				fmt.Sprintf("%.4f, %.4f", c.CenterLatitude, c.CenterLongitude),
				strconv.Itoa(c.Size),
				frequent,
			})
		}
		md.Table(markdown.TableSet{
			Header: []string{"Center", "Observations", "Frequent"},
			Rows:   rows,
		})
		md.PlainText("")
	}

	if len(report.Anomalies) > 0 {
		md.H2("Speed Anomalies")
		md.PlainText("")
		rows := make([][]string, 0, len(report.Anomalies))
		for _, a := range report.Anomalies {
			rows = append(rows, []string{
				a.Timestamp.Format("2006-01-02 15:04"),
				fmt.Sprintf("%.4f, %.4f", a.Latitude, a.Longitude),
				fmt.Sprintf("%.0f km/h", a.SpeedKmh),
				fmt.Sprintf("%.1f", a.Deviation),
			})
		}
		md.Table(markdown.TableSet{
			Header: []string{"Time", "Position", "Speed", "Sigma"},
			Rows:   rows,
		})
	}

	return len(md.String()), md.Build()
}
