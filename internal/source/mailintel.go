package source

import (
	"context"
	"crypto/md5"
	"fmt"
	"net/http"
	"strings"

	"github.com/ghoztwoods/shadowintel/internal/config"
	"github.com/ghoztwoods/shadowintel/internal/model"
)

// disposableDomains lists well-known throwaway email providers. The
// list is intentionally short; operators extend coverage by pointing
// the source at a live disposable-domain API via configuration.
var disposableDomains = map[string]bool{
	"10minutemail.com":  true,
	"guerrillamail.com": true,
	"mailinator.com":    true,
	"maildrop.cc":       true,
	"sharklasers.com":   true,
	"temp-mail.org":     true,
	"tempmail.com":      true,
	"throwawaymail.com": true,
	"trashmail.com":     true,
	"yopmail.com":       true,
}

// freeDomains lists major free mail providers, recorded as context for
// analysts rather than as a risk signal.
var freeDomains = map[string]bool{
	"aol.com":        true,
	"gmail.com":      true,
	"gmx.com":        true,
	"hotmail.com":    true,
	"icloud.com":     true,
	"mail.ru":        true,
	"outlook.com":    true,
	"protonmail.com": true,
	"proton.me":      true,
	"yahoo.com":      true,
	"yandex.com":     true,
	"zoho.com":       true,
}

// gravatarEndpoint serves avatar lookups; ?d=404 makes a missing
// avatar answer 404 instead of a generated placeholder.
const gravatarEndpoint = "https://www.gravatar.com/avatar"

// MailIntelSource analyzes email addresses: disposable-provider and
// free-provider classification, mail-domain deliverability via MX
// lookup, and social presence via a Gravatar probe.
type MailIntelSource struct {
	client   *Client
	resolver Resolver

	// gravatarBase is swapped by tests to point at a local server.
	gravatarBase string
}

// NewMailIntelSource creates a mail intelligence source. A nil resolver
// uses the system resolver.
func NewMailIntelSource(client *Client, resolver Resolver) *MailIntelSource {
	return &MailIntelSource{
		client:       client,
		resolver:     defaultResolver(resolver),
		gravatarBase: gravatarEndpoint,
	}
}

// Name returns the registry name.
func (s *MailIntelSource) Name() string { return config.SourceMailIntel }

// Kinds returns the identifier kinds this source handles.
func (s *MailIntelSource) Kinds() []model.Kind { return []model.Kind{model.KindEmail} }

// Query analyzes an email address.
func (s *MailIntelSource) Query(ctx context.Context, id model.Identifier) model.EvidenceItem {
	return guard(s.Name(), func() model.EvidenceItem {
		addr := strings.ToLower(strings.TrimSpace(id.Raw))
		_, domain, ok := strings.Cut(addr, "@")
		if !ok {
			return model.ErrorItem(s.Name(), "malformed email address")
		}

		disposable := disposableDomains[domain]
		free := freeDomains[domain]

		item := model.EvidenceItem{
			Source: s.Name(),
			Status: model.StatusOK,
			Fields: map[string]any{
				model.FieldDisposable: disposable,
				"free_provider":       free,
				"mail_domain":         domain,
			},
		}
		if disposable {
			item.RiskFactors = append(item.RiskFactors, "Disposable email address")
		}

		if mx, err := s.resolver.LookupMX(ctx, domain); err == nil {
			item.Fields["mx_records"] = len(mx)
			if len(mx) == 0 {
				item.RiskFactors = append(item.RiskFactors, "Mail domain has no MX records")
			}
		}

		profiles := s.socialPresence(ctx, addr)
		if profiles != nil {
			item.Fields[model.FieldSocialProfiles] = profiles
			if len(profiles) == 0 {
				item.RiskFactors = append(item.RiskFactors, "No social media presence")
			}
		}

		return item
	})
}

// socialPresence probes Gravatar for the address. It returns nil when
// the probe itself fails, so an unreachable Gravatar never reads as
// "no presence".
func (s *MailIntelSource) socialPresence(ctx context.Context, addr string) []string {
	hash := md5.Sum([]byte(addr))
	u := fmt.Sprintf("%s/%x?d=404", s.gravatarBase, hash)

	status, err := s.client.Head(ctx, u)
	if err != nil {
		return nil
	}
	if status == http.StatusOK {
		return []string{"gravatar"}
	}
	return []string{}
}
