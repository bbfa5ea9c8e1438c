package source

import (
	"context"
	"strings"

	"github.com/ghoztwoods/shadowintel/internal/config"
	"github.com/ghoztwoods/shadowintel/internal/model"
)

// dnsBlocklist is the DNSBL zone queried for domain reputation.
const dnsBlocklist = "dbl.spamhaus.org"

// ReputationSource checks identifiers against reputation data: the
// operator-maintained malicious list from configuration, applied to
// every identifier kind, and a DNS blocklist for domains and mail
// domains.
type ReputationSource struct {
	resolver  Resolver
	malicious map[string]bool
}

// NewReputationSource creates a reputation source. A nil resolver uses
// the system resolver. maliciousList entries are matched exactly,
// case-insensitively.
func NewReputationSource(resolver Resolver, maliciousList []string) *ReputationSource {
	malicious := make(map[string]bool, len(maliciousList))
	for _, entry := range maliciousList {
		malicious[strings.ToLower(strings.TrimSpace(entry))] = true
	}
	return &ReputationSource{
		resolver:  defaultResolver(resolver),
		malicious: malicious,
	}
}

// Name returns the registry name.
func (s *ReputationSource) Name() string { return config.SourceReputation }

// Kinds returns the identifier kinds this source handles.
func (s *ReputationSource) Kinds() []model.Kind {
	return []model.Kind{model.KindPhone, model.KindEmail, model.KindDomain, model.KindCryptoAddress}
}

// Query checks the identifier's reputation.
func (s *ReputationSource) Query(ctx context.Context, id model.Identifier) model.EvidenceItem {
	return guard(s.Name(), func() model.EvidenceItem {
		listed := s.malicious[strings.ToLower(id.Raw)]

		item := model.EvidenceItem{
			Source: s.Name(),
			Status: model.StatusOK,
			Fields: map[string]any{
				model.FieldMalicious: listed,
			},
		}
		if listed {
			item.RiskFactors = append(item.RiskFactors, "Identifier on known-malicious list")
		}

		if domain := reputationDomain(id); domain != "" {
			blocked, checked := s.blocklisted(ctx, domain)
			if checked {
				score := 0.0
				if blocked {
					score = 1.0
					item.RiskFactors = append(item.RiskFactors, "Domain on spam blocklist")
				}
				item.Fields[model.FieldSpamScore] = score
			}
		}

		return item
	})
}

// blocklisted queries the DNSBL for a domain. The second return value
// is false when the lookup never completed, distinguishing "not listed"
// from "could not check".
func (s *ReputationSource) blocklisted(ctx context.Context, domain string) (bool, bool) {
	addrs, err := s.resolver.LookupHost(ctx, domain+"."+dnsBlocklist)
	if err != nil {
		// NXDOMAIN is the DNSBL's way of saying "not listed".
		if ctx.Err() != nil {
			return false, false
		}
		return false, true
	}
	return len(addrs) > 0, true
}

// reputationDomain extracts the domain to check against the blocklist,
// or "" when the identifier kind has none.
func reputationDomain(id model.Identifier) string {
	switch id.Kind {
	case model.KindDomain:
		return id.Raw
	case model.KindEmail:
		if _, domain, ok := strings.Cut(id.Raw, "@"); ok {
			return domain
		}
	}
	return ""
}
