package source

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/ghoztwoods/shadowintel/internal/config"
	"github.com/ghoztwoods/shadowintel/internal/model"
)

// defaultBreachEndpoint is the HIBP-compatible API base.
const defaultBreachEndpoint = "https://haveibeenpwned.com/api/v3"

// breachEntry is one breach record from a HIBP-style API.
type breachEntry struct {
	Name       string `json:"Name"`
	BreachDate string `json:"BreachDate"`
}

// BreachSource checks whether an email address or phone number appears
// in known data breaches. It speaks the HIBP v3 API shape; a 404 from
// the service means "not found in any breach" and yields a clean item
// with a zero count rather than an error.
type BreachSource struct {
	client   *Client
	endpoint string
	apiKey   string
}

// NewBreachSource creates a breach source.
func NewBreachSource(client *Client, s config.SourceSettings) *BreachSource {
	endpoint := s.Endpoint
	if endpoint == "" {
		endpoint = defaultBreachEndpoint
	}
	return &BreachSource{
		client:   client,
		endpoint: strings.TrimRight(endpoint, "/"),
		apiKey:   s.APIKey,
	}
}

// Name returns the registry name.
func (s *BreachSource) Name() string { return config.SourceBreach }

// Kinds returns the identifier kinds this source handles.
func (s *BreachSource) Kinds() []model.Kind {
	return []model.Kind{model.KindEmail, model.KindPhone}
}

// Query looks the identifier up in the breach database.
func (s *BreachSource) Query(ctx context.Context, id model.Identifier) model.EvidenceItem {
	return guard(s.Name(), func() model.EvidenceItem {
		u := fmt.Sprintf("%s/breachedaccount/%s?truncateResponse=false",
			s.endpoint, url.PathEscape(id.Raw))
		headers := map[string]string{"user-agent": config.AppName}
		if s.apiKey != "" {
			headers["hibp-api-key"] = s.apiKey
		}

		var entries []breachEntry
		err := s.client.GetJSON(ctx, u, headers, &entries)
		switch {
		case errors.Is(err, ErrNotFound):
			entries = nil
		case err != nil:
			return statusFromErr(ctx, s.Name(), err)
		}

		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name)
		}

		item := model.EvidenceItem{
			Source: s.Name(),
			Status: model.StatusOK,
			Fields: map[string]any{
				model.FieldBreachCount: len(entries),
				"breaches":             names,
			},
		}
		if len(entries) > 0 {
			item.RiskFactors = append(item.RiskFactors,
				fmt.Sprintf("Found in %d data breaches", len(entries)))
		}
		return item
	})
}
