// Package classify turns raw investigation input into a classified
// identifier. Classification is a pure, total function: it never fails,
// never touches the network, and maps unrecognized input to KindUnknown.
//
// # Rule Precedence
//
// Rules are checked in a fixed order and the first match wins:
//
//  1. Phone  — digits and formatting symbols only, 7-15 digits
//  2. Email  — exactly one @ with valid local and domain parts
//  3. Crypto — base58, bech32, or 0x-prefixed 40-hex-char address
//  4. Domain — dot-separated hostname labels with an alphabetic TLD
//
// Phone is checked first because digit-only domains and emails do not
// exist in practice, so the cheap digit test can short-circuit. Crypto is
// checked before Domain because base58 strings occasionally satisfy the
// hostname grammar.
package classify
