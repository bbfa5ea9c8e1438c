// Package report renders scan results and movement reports for output.
//
// Three formats are provided: human-readable text for terminal display,
// JSON for tool integration, and Markdown for case files and sharing.
// Writers implement a common interface and can be composed with
// MultiWriter to emit several formats from one scan.
package report
