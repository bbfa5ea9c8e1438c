package source

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/ghoztwoods/shadowintel/internal/config"
	"github.com/ghoztwoods/shadowintel/internal/model"
)

// countryCodes maps leading dial codes to country names. Longest match
// wins, so "44" is tried before "4".
var countryCodes = map[string]string{
	"1":   "United States / Canada",
	"7":   "Russia / Kazakhstan",
	"20":  "Egypt",
	"27":  "South Africa",
	"30":  "Greece",
	"31":  "Netherlands",
	"32":  "Belgium",
	"33":  "France",
	"34":  "Spain",
	"39":  "Italy",
	"40":  "Romania",
	"41":  "Switzerland",
	"44":  "United Kingdom",
	"45":  "Denmark",
	"46":  "Sweden",
	"47":  "Norway",
	"48":  "Poland",
	"49":  "Germany",
	"52":  "Mexico",
	"55":  "Brazil",
	"60":  "Malaysia",
	"61":  "Australia",
	"62":  "Indonesia",
	"63":  "Philippines",
	"64":  "New Zealand",
	"65":  "Singapore",
	"66":  "Thailand",
	"81":  "Japan",
	"82":  "South Korea",
	"84":  "Vietnam",
	"86":  "China",
	"90":  "Turkey",
	"91":  "India",
	"92":  "Pakistan",
	"234": "Nigeria",
	"254": "Kenya",
	"351": "Portugal",
	"353": "Ireland",
	"358": "Finland",
	"380": "Ukraine",
	"420": "Czechia",
	"852": "Hong Kong",
	"886": "Taiwan",
	"971": "United Arab Emirates",
	"972": "Israel",
}

// carrierResponse is the numverify-style lookup payload.
type carrierResponse struct {
	Valid       bool   `json:"valid"`
	CountryName string `json:"country_name"`
	Carrier     string `json:"carrier"`
	LineType    string `json:"line_type"`
}

// CarrierSource resolves phone-number metadata: country, carrier, and
// line type. With an endpoint configured it queries a numverify-style
// lookup API; without one it falls back to offline dial-code analysis,
// which still yields the country and number shape.
type CarrierSource struct {
	client   *Client
	endpoint string
	apiKey   string
}

// NewCarrierSource creates a carrier source.
func NewCarrierSource(client *Client, s config.SourceSettings) *CarrierSource {
	return &CarrierSource{
		client:   client,
		endpoint: s.Endpoint,
		apiKey:   s.APIKey,
	}
}

// Name returns the registry name.
func (s *CarrierSource) Name() string { return config.SourceCarrier }

// Kinds returns the identifier kinds this source handles.
func (s *CarrierSource) Kinds() []model.Kind { return []model.Kind{model.KindPhone} }

// Query looks up carrier metadata for a phone number.
func (s *CarrierSource) Query(ctx context.Context, id model.Identifier) model.EvidenceItem {
	return guard(s.Name(), func() model.EvidenceItem {
		digits := normalizePhone(id.Raw)

		if s.endpoint == "" {
			return s.offlineLookup(digits)
		}

		u := fmt.Sprintf("%s?access_key=%s&number=%s",
			strings.TrimRight(s.endpoint, "/"), url.QueryEscape(s.apiKey), url.QueryEscape(digits))
		var resp carrierResponse
		if err := s.client.GetJSON(ctx, u, nil, &resp); err != nil {
			return statusFromErr(ctx, s.Name(), err)
		}

		item := model.EvidenceItem{
			Source: s.Name(),
			Status: model.StatusOK,
			Fields: map[string]any{
				"valid":            resp.Valid,
				"country":          resp.CountryName,
				"carrier":          resp.Carrier,
				model.FieldLineType: normalizeLineType(resp.LineType),
			},
		}
		if item.Fields[model.FieldLineType] == "voip" {
			item.RiskFactors = append(item.RiskFactors, "VOIP number")
		}
		if !resp.Valid {
			item.RiskFactors = append(item.RiskFactors, "Invalid phone number")
		}
		return item
	})
}

// offlineLookup derives what it can from the number itself.
func (s *CarrierSource) offlineLookup(digits string) model.EvidenceItem {
	country := "Unknown"
	// Longest dial-code prefix wins.
	for l := 3; l >= 1; l-- {
		if len(digits) < l {
			continue
		}
		if name, ok := countryCodes[digits[:l]]; ok {
			country = name
			break
		}
	}

	return model.EvidenceItem{
		Source: s.Name(),
		Status: model.StatusOK,
		Fields: map[string]any{
			"country":          country,
			"digits":           len(digits),
			model.FieldLineType: "unknown",
		},
	}
}

// normalizePhone strips formatting symbols, leaving digits only.
func normalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// normalizeLineType folds provider-specific line type labels into the
// vocabulary the scorer matches on.
func normalizeLineType(lineType string) string {
	switch strings.ToLower(strings.TrimSpace(lineType)) {
	case "mobile", "cell":
		return "mobile"
	case "landline", "fixed_line", "fixed":
		return "landline"
	case "voip", "special_services", "virtual":
		return "voip"
	default:
		return "unknown"
	}
}
