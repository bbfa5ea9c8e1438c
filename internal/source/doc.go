// Package source implements the evidence sources the aggregator fans out
// to, plus the registry that maps identifier kinds to the sources able to
// handle them.
//
// # Architecture
//
// Each source implements the Source interface and is queried
// independently; no source depends on another's result. Sources obey one
// hard contract: Query never propagates a failure. Network errors, bad
// payloads, and authentication problems all come back as an evidence item
// with StatusError, and deadline expiry as StatusUnavailable, so a single
// broken collaborator can never abort a scan.
//
// Design decision: Query returns only an EvidenceItem, with no error
// return, because the contract makes "failed" a value, not an exception.
// An error return would invite callers to branch on it and reintroduce
// exactly the partial-failure fragility the interface exists to remove.
//
// # Sources
//
//   - carrier         (phone): carrier, region, and line-type lookup
//   - breach          (email, phone): breach-database occurrences
//   - mail_intel      (email): format, disposable-domain, MX, gravatar
//   - dns_intel       (domain): A/MX/NS/TXT investigation
//   - whois           (domain): registrar and registration age
//   - infrastructure  (domain): TLS certificate probe
//   - reputation      (all kinds): DNSBL and known-malicious list
//   - blockchain      (crypto): explorer transaction history
//   - wallet_cluster  (crypto): cluster membership and tags
//
// HTTP-backed sources share one outbound Client with per-host rate
// limiting and a response cache, so a rescan of the same identifier
// within the cache TTL never re-queries the backing service.
package source
