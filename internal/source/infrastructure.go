package source

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net"
	"time"

	"github.com/ghoztwoods/shadowintel/internal/config"
	"github.com/ghoztwoods/shadowintel/internal/model"
)

// httpsPort is where the certificate probe connects.
const httpsPort = "443"

// InfrastructureSource inspects a domain's TLS deployment. The
// certificate is evidence in two directions: its health (expiry,
// self-signing) and its subject alternative names, which enumerate the
// other domains sharing the same certificate and therefore, usually,
// the same operator.
type InfrastructureSource struct {
	// handshake is swapped by tests to return canned certificates.
	handshake func(ctx context.Context, domain string) (*x509.Certificate, error)

	// now is swapped by tests to pin expiry checks.
	now func() time.Time
}

// NewInfrastructureSource creates an infrastructure source.
func NewInfrastructureSource() *InfrastructureSource {
	return &InfrastructureSource{
		handshake: tlsHandshake,
		now:       time.Now,
	}
}

// Name returns the registry name.
func (s *InfrastructureSource) Name() string { return config.SourceInfrastructure }

// Kinds returns the identifier kinds this source handles.
func (s *InfrastructureSource) Kinds() []model.Kind { return []model.Kind{model.KindDomain} }

// Query probes the domain's TLS certificate.
func (s *InfrastructureSource) Query(ctx context.Context, id model.Identifier) model.EvidenceItem {
	return guard(s.Name(), func() model.EvidenceItem {
		cert, err := s.handshake(ctx, id.Raw)
		if err != nil {
			return statusFromErr(ctx, s.Name(), err)
		}

		now := s.now()
		selfSigned := cert.Issuer.String() == cert.Subject.String()
		expired := now.After(cert.NotAfter) || now.Before(cert.NotBefore)

		connected := 0
		for _, san := range cert.DNSNames {
			if san != id.Raw {
				connected++
			}
		}

		item := model.EvidenceItem{
			Source: s.Name(),
			Status: model.StatusOK,
			Fields: map[string]any{
				"subject":                   cert.Subject.CommonName,
				"issuer":                    cert.Issuer.CommonName,
				"not_after":                 cert.NotAfter.Format("2006-01-02"),
				"self_signed":               selfSigned,
				model.FieldSSLIssues:        selfSigned || expired,
				model.FieldConnectedDomains: connected,
			},
		}
		if selfSigned {
			item.RiskFactors = append(item.RiskFactors, "Self-signed SSL certificate")
		}
		if expired {
			item.RiskFactors = append(item.RiskFactors, "Expired SSL certificate")
		}
		if connected > config.ConnectedDomainsThreshold {
			item.RiskFactors = append(item.RiskFactors,
				fmt.Sprintf("Certificate shared across %d domains", connected))
		}
		return item
	})
}

// tlsHandshake connects to the domain's HTTPS port and returns its leaf
// certificate. Verification is skipped: an invalid certificate is the
// evidence being collected, not a reason to abort.
func tlsHandshake(ctx context.Context, domain string) (*x509.Certificate, error) {
	dialer := &tls.Dialer{
		Config: &tls.Config{
			ServerName:         domain,
			InsecureSkipVerify: true,
		},
	}
	conn, err := dialer.DialContext(ctx, "tcp", net.JoinHostPort(domain, httpsPort))
	if err != nil {
		return nil, fmt.Errorf("tls handshake with %s failed: %w", domain, err)
	}
	defer conn.Close()

	certs := conn.(*tls.Conn).ConnectionState().PeerCertificates
	if len(certs) == 0 {
		return nil, fmt.Errorf("no certificate presented by %s", domain)
	}
	return certs[0], nil
}
