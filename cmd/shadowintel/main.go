// Package main provides the entry point for the ShadowIntel CLI.
//
// ShadowIntel is an intelligence aggregation tool for scam investigation.
// It classifies identifiers (phone numbers, emails, domains, crypto
// addresses), queries evidence sources concurrently, and computes a
// bounded risk score from the merged evidence.
//
// Usage:
//
//	shadowintel scan <identifier>
//	shadowintel geo <target> --input observations.json
//
// See --help for all available options.
package main

// main is the entry point for ShadowIntel.
func main() {
	Execute()
}
