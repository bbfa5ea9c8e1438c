package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ghoztwoods/shadowintel/internal/config"
	"github.com/ghoztwoods/shadowintel/internal/model"
)

// TestBreachSource tests breach lookups against a HIBP-shaped server.
func TestBreachSource(t *testing.T) {
	t.Parallel()

	t.Run("counts breaches and flags the finding", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("hibp-api-key") != "k" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.Write([]byte(`[{"Name":"Adobe","BreachDate":"2013-10-04"},{"Name":"LinkedIn","BreachDate":"2012-05-05"},{"Name":"Dropbox","BreachDate":"2012-07-01"}]`))
		}))
		defer srv.Close()

		src := NewBreachSource(testClient(srv), config.SourceSettings{Endpoint: srv.URL, APIKey: "k"})
		item := src.Query(context.Background(), model.Identifier{Raw: "user@example.com", Kind: model.KindEmail})

		if item.Status != model.StatusOK {
			t.Fatalf("expected StatusOK, got %v (detail %q)", item.Status, item.Detail)
		}
		if got := item.Field(model.FieldBreachCount); got != 3 {
			t.Errorf("expected breach count 3, got %v", got)
		}
		if len(item.RiskFactors) != 1 || item.RiskFactors[0] != "Found in 3 data breaches" {
			t.Errorf("expected breach risk factor, got %v", item.RiskFactors)
		}
	})

	t.Run("treats 404 as a clean zero-count result", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		src := NewBreachSource(testClient(srv), config.SourceSettings{Endpoint: srv.URL})
		item := src.Query(context.Background(), model.Identifier{Raw: "clean@example.com", Kind: model.KindEmail})

		if item.Status != model.StatusOK {
			t.Fatalf("expected StatusOK, got %v", item.Status)
		}
		if got := item.Field(model.FieldBreachCount); got != 0 {
			t.Errorf("expected breach count 0, got %v", got)
		}
		if len(item.RiskFactors) != 0 {
			t.Errorf("expected no risk factors, got %v", item.RiskFactors)
		}
	})

	t.Run("service failure yields an error item", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer srv.Close()

		src := NewBreachSource(testClient(srv), config.SourceSettings{Endpoint: srv.URL})
		item := src.Query(context.Background(), model.Identifier{Raw: "user@example.com", Kind: model.KindEmail})

		if item.Status != model.StatusError {
			t.Errorf("expected StatusError, got %v", item.Status)
		}
		if item.Field(model.FieldBreachCount) != nil {
			t.Error("expected no fields on a failed item")
		}
	})
}
