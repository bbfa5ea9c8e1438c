// Package log provides secure logging with automatic sanitization of
// sensitive values, built on top of the standard slog package.
//
// Evidence sources authenticate against third-party intelligence APIs, so
// configuration and request attributes routinely carry API keys. The
// SecureHandler masks those before they reach log output, even in verbose
// mode, so a shared debug log never leaks a credential.
//
// One deliberate difference from generic secret scrubbers: long
// alphanumeric strings are NOT masked by pattern, because cryptocurrency
// addresses and scan identifiers are legitimate log data in this domain
// and would match any such pattern. Masking is driven by attribute keys
// and by unambiguous value shapes (bearer headers, JWTs, private key
// markers) instead.
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	logger.Info("querying source",
//	    "source", "breach",
//	    "api_key", cfg.APIKey, // masked
//	    "target", "user@example.com",
//	)
package log
