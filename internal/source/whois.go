package source

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	"github.com/ghoztwoods/shadowintel/internal/config"
	"github.com/ghoztwoods/shadowintel/internal/model"
)

// whoisPort is the WHOIS service port per RFC 3912.
const whoisPort = "43"

// maxWhoisResponse bounds how much of a WHOIS answer is read.
const maxWhoisResponse = 64 * 1024

// whoisServers maps TLDs to their registry WHOIS servers. Unlisted TLDs
// fall back to IANA, which refers to the authoritative server in its
// answer; we take what IANA itself returns rather than following the
// referral, trading some completeness for a single round trip.
var whoisServers = map[string]string{
	"com":  "whois.verisign-grs.com",
	"net":  "whois.verisign-grs.com",
	"org":  "whois.publicinterestregistry.org",
	"info": "whois.nic.info",
	"biz":  "whois.nic.biz",
	"io":   "whois.nic.io",
	"co":   "whois.nic.co",
	"me":   "whois.nic.me",
	"ru":   "whois.tcinet.ru",
	"uk":   "whois.nic.uk",
	"de":   "whois.denic.de",
	"app":  "whois.nic.google",
	"dev":  "whois.nic.google",
	"xyz":  "whois.nic.xyz",
	"top":  "whois.nic.top",
	"shop": "whois.nic.shop",
	"site": "whois.nic.site",
}

// whoisDateLayouts covers the creation-date formats registries actually
// emit. Tried in order; first parse wins.
var whoisDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05Z",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02-Jan-2006",
	"2006.01.02",
	"02.01.2006",
}

// creationKeys are the WHOIS field labels that carry the registration
// date, lowercased.
var creationKeys = []string{
	"creation date",
	"created",
	"created on",
	"registered on",
	"registration time",
	"domain registration date",
}

// WHOISSource queries domain registration records over the WHOIS
// protocol. Its main contribution to scoring is the domain age; it also
// records registrar and expiry for the analyst.
type WHOISSource struct {
	// dial is swapped by tests to point at a local listener.
	dial func(ctx context.Context, server string) (net.Conn, error)

	// now is swapped by tests to pin age calculations.
	now func() time.Time
}

// NewWHOISSource creates a WHOIS source.
func NewWHOISSource() *WHOISSource {
	return &WHOISSource{
		dial: func(ctx context.Context, server string) (net.Conn, error) {
			var d net.Dialer
			return d.DialContext(ctx, "tcp", net.JoinHostPort(server, whoisPort))
		},
		now: time.Now,
	}
}

// Name returns the registry name.
func (s *WHOISSource) Name() string { return config.SourceWHOIS }

// Kinds returns the identifier kinds this source handles.
func (s *WHOISSource) Kinds() []model.Kind { return []model.Kind{model.KindDomain} }

// Query fetches and parses the domain's WHOIS record.
func (s *WHOISSource) Query(ctx context.Context, id model.Identifier) model.EvidenceItem {
	return guard(s.Name(), func() model.EvidenceItem {
		domain := id.Raw
		raw, err := s.lookup(ctx, domain)
		if err != nil {
			return statusFromErr(ctx, s.Name(), err)
		}

		record := parseWHOIS(raw)
		item := model.EvidenceItem{
			Source: s.Name(),
			Status: model.StatusOK,
			Fields: map[string]any{},
		}
		if record.registrar != "" {
			item.Fields["registrar"] = record.registrar
		}
		if record.expires != "" {
			item.Fields["expires"] = record.expires
		}
		if !record.created.IsZero() {
			age := int(s.now().Sub(record.created).Hours() / 24)
			item.Fields["created"] = record.created.Format("2006-01-02")
			item.Fields[model.FieldDomainAgeDays] = age
			if age < config.NewDomainAgeDays {
				item.RiskFactors = append(item.RiskFactors, "Recently registered domain")
			}
		}
		return item
	})
}

// lookup performs one WHOIS round trip.
func (s *WHOISSource) lookup(ctx context.Context, domain string) (string, error) {
	server := whoisServers[tldOf(domain)]
	if server == "" {
		server = "whois.iana.org"
	}

	conn, err := s.dial(ctx, server)
	if err != nil {
		return "", fmt.Errorf("failed to reach whois server %s: %w", server, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	if _, err := fmt.Fprintf(conn, "%s\r\n", domain); err != nil {
		return "", err
	}

	raw, err := io.ReadAll(io.LimitReader(conn, maxWhoisResponse))
	if err != nil && len(raw) == 0 {
		return "", err
	}
	return string(raw), nil
}

// whoisRecord is the subset of a WHOIS answer the source extracts.
type whoisRecord struct {
	registrar string
	expires   string
	created   time.Time
}

// parseWHOIS extracts the registrar, expiry, and creation date from a
// raw WHOIS response.
func parseWHOIS(raw string) whoisRecord {
	var record whoisRecord

	scanner := bufio.NewScanner(strings.NewReader(raw))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}

		switch {
		case key == "registrar" && record.registrar == "":
			record.registrar = value
		case (key == "registry expiry date" || key == "expiry date" || key == "expires") && record.expires == "":
			record.expires = value
		case record.created.IsZero() && isCreationKey(key):
			record.created = parseWHOISDate(value)
		}
	}
	return record
}

// isCreationKey reports whether a lowercased WHOIS label names the
// registration date.
func isCreationKey(key string) bool {
	for _, k := range creationKeys {
		if key == k {
			return true
		}
	}
	return false
}

// parseWHOISDate tries the known registry date formats, returning the
// zero time when none match.
func parseWHOISDate(value string) time.Time {
	// Some registries append a timezone label after the timestamp.
	if i := strings.IndexByte(value, ' '); i > 0 && strings.Contains(value[:i], "T") {
		value = value[:i]
	}
	for _, layout := range whoisDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}

// tldOf returns the last label of a domain name.
func tldOf(domain string) string {
	i := strings.LastIndexByte(domain, '.')
	if i < 0 {
		return domain
	}
	return strings.ToLower(domain[i+1:])
}
