package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ghoztwoods/shadowintel/internal/config"
	"github.com/ghoztwoods/shadowintel/internal/model"
)

// TestCarrierSourceOffline tests the dial-code fallback.
func TestCarrierSourceOffline(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		country string
	}{
		{name: "US number", raw: "+1-555-123-4567", country: "United States / Canada"},
		{name: "UK number", raw: "+44 20 7946 0958", country: "United Kingdom"},
		{name: "Nigerian number", raw: "+2348012345678", country: "Nigeria"},
		{name: "unknown prefix", raw: "+999123456789", country: "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src := NewCarrierSource(NewClient(), config.SourceSettings{})
			item := src.Query(context.Background(), model.Identifier{Raw: tt.raw, Kind: model.KindPhone})

			if item.Status != model.StatusOK {
				t.Fatalf("expected StatusOK, got %v", item.Status)
			}
			if got := item.Field("country"); got != tt.country {
				t.Errorf("expected country %q, got %v", tt.country, got)
			}
			if got := item.Field(model.FieldLineType); got != "unknown" {
				t.Errorf("expected line type 'unknown' offline, got %v", got)
			}
		})
	}
}

// TestCarrierSourceAPI tests the lookup-API path.
func TestCarrierSourceAPI(t *testing.T) {
	t.Parallel()

	t.Run("flags VOIP numbers", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"valid":true,"country_name":"United States","carrier":"Example VoIP","line_type":"voip"}`))
		}))
		defer srv.Close()

		src := NewCarrierSource(testClient(srv), config.SourceSettings{Endpoint: srv.URL, APIKey: "k"})
		item := src.Query(context.Background(), model.Identifier{Raw: "+15551234567", Kind: model.KindPhone})

		if item.Status != model.StatusOK {
			t.Fatalf("expected StatusOK, got %v", item.Status)
		}
		if got := item.Field(model.FieldLineType); got != "voip" {
			t.Errorf("expected line type 'voip', got %v", got)
		}
		if len(item.RiskFactors) != 1 || item.RiskFactors[0] != "VOIP number" {
			t.Errorf("expected VOIP risk factor, got %v", item.RiskFactors)
		}
	})

	t.Run("unreachable API yields an error item", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		src := NewCarrierSource(testClient(srv), config.SourceSettings{Endpoint: srv.URL})
		item := src.Query(context.Background(), model.Identifier{Raw: "+15551234567", Kind: model.KindPhone})

		if item.Status != model.StatusError {
			t.Errorf("expected StatusError, got %v", item.Status)
		}
	})
}

// TestNormalizeLineType tests line-type vocabulary folding.
func TestNormalizeLineType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "Mobile", want: "mobile"},
		{in: "fixed_line", want: "landline"},
		{in: "special_services", want: "voip"},
		{in: "satellite", want: "unknown"},
		{in: "", want: "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			if got := normalizeLineType(tt.in); got != tt.want {
				t.Errorf("normalizeLineType(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
