package source

import (
	"context"
	"crypto/x509"
	"crypto/x509/pkix"
	"fmt"
	"testing"
	"time"

	"github.com/ghoztwoods/shadowintel/internal/model"
)

// stubCert builds a certificate for handshake stubs.
func stubCert(subject, issuer string, notBefore, notAfter time.Time, sans []string) *x509.Certificate {
	return &x509.Certificate{
		Subject:   pkix.Name{CommonName: subject},
		Issuer:    pkix.Name{CommonName: issuer},
		NotBefore: notBefore,
		NotAfter:  notAfter,
		DNSNames:  sans,
	}
}

// TestInfrastructureSource tests TLS certificate analysis.
func TestInfrastructureSource(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	newSource := func(cert *x509.Certificate, err error) *InfrastructureSource {
		src := NewInfrastructureSource()
		src.now = func() time.Time { return now }
		src.handshake = func(_ context.Context, _ string) (*x509.Certificate, error) {
			return cert, err
		}
		return src
	}

	id := model.Identifier{Raw: "example.com", Kind: model.KindDomain}

	t.Run("healthy certificate raises nothing", func(t *testing.T) {
		t.Parallel()

		cert := stubCert("example.com", "Example CA",
			now.AddDate(0, -3, 0), now.AddDate(0, 3, 0),
			[]string{"example.com", "www.example.com"})
		item := newSource(cert, nil).Query(context.Background(), id)

		if item.Status != model.StatusOK {
			t.Fatalf("expected StatusOK, got %v", item.Status)
		}
		if got := item.Field(model.FieldSSLIssues); got != false {
			t.Errorf("expected ssl_issues=false, got %v", got)
		}
		if got := item.Field(model.FieldConnectedDomains); got != 1 {
			t.Errorf("expected 1 connected domain, got %v", got)
		}
		if len(item.RiskFactors) != 0 {
			t.Errorf("expected no risk factors, got %v", item.RiskFactors)
		}
	})

	t.Run("self-signed certificate is flagged", func(t *testing.T) {
		t.Parallel()

		cert := stubCert("example.com", "example.com",
			now.AddDate(0, -1, 0), now.AddDate(1, 0, 0),
			[]string{"example.com"})
		item := newSource(cert, nil).Query(context.Background(), id)

		if got := item.Field(model.FieldSSLIssues); got != true {
			t.Errorf("expected ssl_issues=true, got %v", got)
		}
		if !hasFactor(item, "Self-signed SSL certificate") {
			t.Errorf("expected self-signed risk factor, got %v", item.RiskFactors)
		}
	})

	t.Run("expired certificate is flagged", func(t *testing.T) {
		t.Parallel()

		cert := stubCert("example.com", "Example CA",
			now.AddDate(-2, 0, 0), now.AddDate(-1, 0, 0),
			[]string{"example.com"})
		item := newSource(cert, nil).Query(context.Background(), id)

		if got := item.Field(model.FieldSSLIssues); got != true {
			t.Errorf("expected ssl_issues=true, got %v", got)
		}
		if !hasFactor(item, "Expired SSL certificate") {
			t.Errorf("expected expired risk factor, got %v", item.RiskFactors)
		}
	})

	t.Run("certificate shared across many domains is flagged", func(t *testing.T) {
		t.Parallel()

		sans := []string{"example.com"}
		for i := 0; i < 60; i++ {
			sans = append(sans, fmt.Sprintf("site%d.example", i))
		}
		cert := stubCert("example.com", "Example CA",
			now.AddDate(0, -1, 0), now.AddDate(0, 6, 0), sans)
		item := newSource(cert, nil).Query(context.Background(), id)

		if got := item.Field(model.FieldConnectedDomains); got != 60 {
			t.Errorf("expected 60 connected domains, got %v", got)
		}
		if !hasFactor(item, "Certificate shared across 60 domains") {
			t.Errorf("expected shared-certificate risk factor, got %v", item.RiskFactors)
		}
	})

	t.Run("handshake failure yields an error item", func(t *testing.T) {
		t.Parallel()

		item := newSource(nil, fmt.Errorf("connection refused")).Query(context.Background(), id)
		if item.Status != model.StatusError {
			t.Errorf("expected StatusError, got %v", item.Status)
		}
	})
}
