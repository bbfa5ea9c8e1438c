package source

import (
	"context"
	"strings"

	"github.com/ghoztwoods/shadowintel/internal/config"
	"github.com/ghoztwoods/shadowintel/internal/model"
)

// DNSIntelSource collects the DNS posture of a domain: address, mail,
// and name-server records plus SPF and DMARC policies. A domain that
// resolves nowhere, or one without mail authentication, is a common
// shape for freshly minted scam infrastructure.
type DNSIntelSource struct {
	resolver Resolver
}

// NewDNSIntelSource creates a DNS intelligence source. A nil resolver
// uses the system resolver.
func NewDNSIntelSource(resolver Resolver) *DNSIntelSource {
	return &DNSIntelSource{resolver: defaultResolver(resolver)}
}

// Name returns the registry name.
func (s *DNSIntelSource) Name() string { return config.SourceDNSIntel }

// Kinds returns the identifier kinds this source handles.
func (s *DNSIntelSource) Kinds() []model.Kind { return []model.Kind{model.KindDomain} }

// Query resolves the domain's DNS records.
func (s *DNSIntelSource) Query(ctx context.Context, id model.Identifier) model.EvidenceItem {
	return guard(s.Name(), func() model.EvidenceItem {
		domain := id.Raw

		addrs, hostErr := s.resolver.LookupHost(ctx, domain)
		if hostErr != nil && ctx.Err() != nil {
			return model.UnavailableItem(s.Name())
		}

		item := model.EvidenceItem{
			Source: s.Name(),
			Status: model.StatusOK,
			Fields: map[string]any{
				"addresses": addrs,
			},
		}
		if len(addrs) == 0 {
			item.RiskFactors = append(item.RiskFactors, "Domain does not resolve")
		}

		if mx, err := s.resolver.LookupMX(ctx, domain); err == nil {
			names := make([]string, 0, len(mx))
			for _, rec := range mx {
				names = append(names, strings.TrimSuffix(rec.Host, "."))
			}
			item.Fields["mx_records"] = names
		}

		if ns, err := s.resolver.LookupNS(ctx, domain); err == nil {
			names := make([]string, 0, len(ns))
			for _, rec := range ns {
				names = append(names, strings.TrimSuffix(rec.Host, "."))
			}
			item.Fields["name_servers"] = names
		}

		spf := s.spfRecord(ctx, domain)
		item.Fields["spf"] = spf != ""

		dmarc := s.dmarcRecord(ctx, domain)
		item.Fields["dmarc"] = dmarc != ""

		// Mail auth only matters for domains that actually resolve.
		if len(addrs) > 0 && spf == "" && dmarc == "" {
			item.RiskFactors = append(item.RiskFactors, "No mail authentication (SPF/DMARC)")
		}

		return item
	})
}

// spfRecord returns the domain's SPF policy, or "" when absent.
func (s *DNSIntelSource) spfRecord(ctx context.Context, domain string) string {
	txts, err := s.resolver.LookupTXT(ctx, domain)
	if err != nil {
		return ""
	}
	for _, txt := range txts {
		if strings.HasPrefix(txt, "v=spf1") {
			return txt
		}
	}
	return ""
}

// dmarcRecord returns the domain's DMARC policy, or "" when absent.
func (s *DNSIntelSource) dmarcRecord(ctx context.Context, domain string) string {
	txts, err := s.resolver.LookupTXT(ctx, "_dmarc."+domain)
	if err != nil {
		return ""
	}
	for _, txt := range txts {
		if strings.HasPrefix(txt, "v=DMARC1") {
			return txt
		}
	}
	return ""
}
