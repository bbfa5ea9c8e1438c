package classify

import (
	"regexp"
	"strings"

	"golang.org/x/net/idna"
	"golang.org/x/text/unicode/norm"

	"github.com/ghoztwoods/shadowintel/internal/model"
)

// Phone number length bounds follow ITU-T E.164: national significant
// numbers are at least 7 digits, international numbers at most 15.
const (
	minPhoneDigits = 7
	maxPhoneDigits = 15
)

// phoneSymbols are the formatting characters tolerated in phone input.
// The dot is deliberately excluded so dotted numeric strings (IPv4
// addresses, version numbers) fall through to Unknown instead of being
// misread as phones.
const phoneSymbols = "+-() "

var (
	// emailLocalPattern validates the local part of an email address.
	emailLocalPattern = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+$`)

	// ethAddressPattern matches 0x-prefixed 40-hex-char addresses.
	ethAddressPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

	// base58AddressPattern matches legacy base58check addresses
	// (version byte 1 or 3, 25-34 chars of the base58 alphabet).
	base58AddressPattern = regexp.MustCompile(`^[13][1-9A-HJ-NP-Za-km-z]{25,34}$`)

	// bech32AddressPattern matches bech32 segwit addresses.
	bech32AddressPattern = regexp.MustCompile(`^(?:bc1|tb1)[02-9ac-hj-np-z]{11,87}$`)

	// domainLabelPattern validates one hostname label after IDNA
	// conversion: alphanumerics and interior hyphens.
	domainLabelPattern = regexp.MustCompile(`^[A-Za-z0-9]([A-Za-z0-9\-]*[A-Za-z0-9])?$`)

	// tldPattern validates the final label: alphabetic, at least two
	// characters. Rejecting numeric TLDs is what keeps IP-ish strings
	// out of the Domain kind.
	tldPattern = regexp.MustCompile(`^[A-Za-z]{2,}$`)
)

// Classify maps a raw string to a classified identifier. It is total:
// unrecognized input yields KindUnknown, never an error.
//
// Input is trimmed and NFKC-normalized before matching so that full-width
// digits and compatibility forms classify the same as their ASCII
// equivalents. The returned Identifier carries the normalized form.
func Classify(raw string) model.Identifier {
	normalized := strings.TrimSpace(norm.NFKC.String(raw))
	if normalized == "" {
		return model.Identifier{Raw: normalized, Kind: model.KindUnknown}
	}

	switch {
	case isPhone(normalized):
		return model.Identifier{Raw: normalized, Kind: model.KindPhone}
	case isEmail(normalized):
		return model.Identifier{Raw: strings.ToLower(normalized), Kind: model.KindEmail}
	case isCryptoAddress(normalized):
		return model.Identifier{Raw: normalized, Kind: model.KindCryptoAddress}
	case isDomain(normalized):
		return model.Identifier{Raw: strings.ToLower(normalized), Kind: model.KindDomain}
	default:
		return model.Identifier{Raw: normalized, Kind: model.KindUnknown}
	}
}

// isPhone reports whether s consists solely of digits and phone
// formatting symbols, with a digit count inside E.164 bounds.
func isPhone(s string) bool {
	digits := 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case strings.ContainsRune(phoneSymbols, r):
			// formatting only
		default:
			return false
		}
	}
	return digits >= minPhoneDigits && digits <= maxPhoneDigits
}

// isEmail reports whether s is an email address: exactly one @ separating
// a valid local part from a valid domain.
func isEmail(s string) bool {
	at := strings.Index(s, "@")
	if at <= 0 || at != strings.LastIndex(s, "@") || at == len(s)-1 {
		return false
	}
	local, domain := s[:at], s[at+1:]
	if !emailLocalPattern.MatchString(local) {
		return false
	}
	if strings.HasPrefix(local, ".") || strings.HasSuffix(local, ".") || strings.Contains(local, "..") {
		return false
	}
	return isDomain(domain)
}

// isCryptoAddress reports whether s matches a known cryptocurrency
// address shape.
func isCryptoAddress(s string) bool {
	return ethAddressPattern.MatchString(s) ||
		base58AddressPattern.MatchString(s) ||
		bech32AddressPattern.MatchString(strings.ToLower(s))
}

// isDomain reports whether s satisfies the hostname grammar. Unicode
// hostnames are accepted by converting through IDNA first; conversion
// failure means the input is not a valid domain.
func isDomain(s string) bool {
	ascii, err := idna.Lookup.ToASCII(s)
	if err != nil {
		return false
	}
	labels := strings.Split(ascii, ".")
	if len(labels) < 2 {
		return false
	}
	for _, label := range labels {
		if len(label) > 63 || !domainLabelPattern.MatchString(label) {
			return false
		}
	}
	tld := labels[len(labels)-1]
	// Internationalized TLDs arrive punycoded after IDNA conversion.
	return tldPattern.MatchString(tld) || strings.HasPrefix(tld, "xn--")
}
