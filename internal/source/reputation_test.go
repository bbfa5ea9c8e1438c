package source

import (
	"context"
	"testing"

	"github.com/ghoztwoods/shadowintel/internal/model"
)

// TestReputationSource tests malicious-list and blocklist checks.
func TestReputationSource(t *testing.T) {
	t.Parallel()

	t.Run("matches the malicious list case-insensitively", func(t *testing.T) {
		t.Parallel()

		src := NewReputationSource(&fakeResolver{}, []string{"Scam.Example", " bad@example.com "})
		item := src.Query(context.Background(), model.Identifier{Raw: "scam.example", Kind: model.KindDomain})

		if got := item.Field(model.FieldMalicious); got != true {
			t.Errorf("expected malicious=true, got %v", got)
		}
		if !hasFactor(item, "Identifier on known-malicious list") {
			t.Errorf("expected malicious risk factor, got %v", item.RiskFactors)
		}
	})

	t.Run("unlisted identifier is clean", func(t *testing.T) {
		t.Parallel()

		src := NewReputationSource(&fakeResolver{}, []string{"scam.example"})
		item := src.Query(context.Background(), model.Identifier{Raw: "+15551234567", Kind: model.KindPhone})

		if got := item.Field(model.FieldMalicious); got != false {
			t.Errorf("expected malicious=false, got %v", got)
		}
		if len(item.RiskFactors) != 0 {
			t.Errorf("expected no risk factors, got %v", item.RiskFactors)
		}
	})

	t.Run("blocklisted domain scores as spam", func(t *testing.T) {
		t.Parallel()

		resolver := &fakeResolver{hosts: map[string][]string{
			"spam.example." + dnsBlocklist: {"127.0.1.2"},
		}}
		src := NewReputationSource(resolver, nil)
		item := src.Query(context.Background(), model.Identifier{Raw: "spam.example", Kind: model.KindDomain})

		if got := item.Field(model.FieldSpamScore); got != 1.0 {
			t.Errorf("expected spam score 1.0, got %v", got)
		}
		if !hasFactor(item, "Domain on spam blocklist") {
			t.Errorf("expected blocklist risk factor, got %v", item.RiskFactors)
		}
	})

	t.Run("checks the mail domain of an email", func(t *testing.T) {
		t.Parallel()

		resolver := &fakeResolver{hosts: map[string][]string{
			"spam.example." + dnsBlocklist: {"127.0.1.2"},
		}}
		src := NewReputationSource(resolver, nil)
		item := src.Query(context.Background(), model.Identifier{Raw: "user@spam.example", Kind: model.KindEmail})

		if got := item.Field(model.FieldSpamScore); got != 1.0 {
			t.Errorf("expected spam score 1.0, got %v", got)
		}
	})

	t.Run("crypto addresses skip the blocklist", func(t *testing.T) {
		t.Parallel()

		src := NewReputationSource(&fakeResolver{}, nil)
		item := src.Query(context.Background(), model.Identifier{
			Raw:  "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa",
			Kind: model.KindCryptoAddress,
		})

		if item.Field(model.FieldSpamScore) != nil {
			t.Errorf("expected no spam score, got %v", item.Field(model.FieldSpamScore))
		}
	})
}
