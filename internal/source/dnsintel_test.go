package source

import (
	"context"
	"net"
	"reflect"
	"testing"

	"github.com/ghoztwoods/shadowintel/internal/model"
)

// TestDNSIntelSource tests domain DNS posture analysis.
func TestDNSIntelSource(t *testing.T) {
	t.Parallel()

	t.Run("collects records for a well-configured domain", func(t *testing.T) {
		t.Parallel()

		resolver := &fakeResolver{
			hosts: map[string][]string{"example.com": {"93.184.216.34"}},
			mx:    map[string][]*net.MX{"example.com": {{Host: "mail.example.com."}}},
			ns:    map[string][]*net.NS{"example.com": {{Host: "ns1.example.com."}, {Host: "ns2.example.com."}}},
			txt: map[string][]string{
				"example.com":        {"v=spf1 include:_spf.example.com ~all"},
				"_dmarc.example.com": {"v=DMARC1; p=reject"},
			},
		}

		src := NewDNSIntelSource(resolver)
		item := src.Query(context.Background(), model.Identifier{Raw: "example.com", Kind: model.KindDomain})

		if item.Status != model.StatusOK {
			t.Fatalf("expected StatusOK, got %v", item.Status)
		}
		if got := item.Field("mx_records"); !reflect.DeepEqual(got, []string{"mail.example.com"}) {
			t.Errorf("expected trimmed MX names, got %v", got)
		}
		if got := item.Field("spf"); got != true {
			t.Errorf("expected spf=true, got %v", got)
		}
		if got := item.Field("dmarc"); got != true {
			t.Errorf("expected dmarc=true, got %v", got)
		}
		if len(item.RiskFactors) != 0 {
			t.Errorf("expected no risk factors, got %v", item.RiskFactors)
		}
	})

	t.Run("flags a non-resolving domain", func(t *testing.T) {
		t.Parallel()

		src := NewDNSIntelSource(&fakeResolver{})
		item := src.Query(context.Background(), model.Identifier{Raw: "nxdomain.example", Kind: model.KindDomain})

		if item.Status != model.StatusOK {
			t.Fatalf("expected StatusOK, got %v", item.Status)
		}
		if !hasFactor(item, "Domain does not resolve") {
			t.Errorf("expected non-resolving risk factor, got %v", item.RiskFactors)
		}
		// Mail auth is not judged for a dead domain.
		if hasFactor(item, "No mail authentication (SPF/DMARC)") {
			t.Error("mail-auth factor must not apply to non-resolving domains")
		}
	})

	t.Run("flags missing mail authentication", func(t *testing.T) {
		t.Parallel()

		resolver := &fakeResolver{
			hosts: map[string][]string{"scam.example": {"203.0.113.7"}},
		}
		src := NewDNSIntelSource(resolver)
		item := src.Query(context.Background(), model.Identifier{Raw: "scam.example", Kind: model.KindDomain})

		if !hasFactor(item, "No mail authentication (SPF/DMARC)") {
			t.Errorf("expected mail-auth risk factor, got %v", item.RiskFactors)
		}
	})
}
