package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ghoztwoods/shadowintel/internal/config"
)

// TestNewGeoCmd tests the geo command creation.
func TestNewGeoCmd(t *testing.T) {
	t.Parallel()

	cmd := NewGeoCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "geo [target]" {
			t.Errorf("expected use 'geo [target]', got %q", cmd.Use)
		}
	})

	t.Run("has input flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("input")
		if flag == nil {
			t.Fatal("expected input flag")
		}
		if flag.Shorthand != "i" {
			t.Errorf("expected shorthand 'i', got %q", flag.Shorthand)
		}
	})

	t.Run("has tuning flags", func(t *testing.T) {
		t.Parallel()
		for _, name := range []string{"epsilon", "min-points", "sigma"} {
			if cmd.Flags().Lookup(name) == nil {
				t.Errorf("expected %s flag", name)
			}
		}
	})
}

// TestGeoSettings tests flag validation for the analyzer parameters.
func TestGeoSettings(t *testing.T) {
	t.Parallel()

	t.Run("defaults are valid", func(t *testing.T) {
		t.Parallel()

		cmd := NewGeoCmd()
		settings, err := geoSettings(cmd)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if settings.EpsilonKm != config.DefaultGeoEpsilonKm {
			t.Errorf("expected default epsilon, got %v", settings.EpsilonKm)
		}
		if settings.MinPoints != config.DefaultGeoMinPoints {
			t.Errorf("expected default min points, got %d", settings.MinPoints)
		}
	})

	t.Run("rejects non-positive epsilon", func(t *testing.T) {
		t.Parallel()

		cmd := NewGeoCmd()
		if err := cmd.Flags().Set("epsilon", "0"); err != nil {
			t.Fatal(err)
		}
		if _, err := geoSettings(cmd); !errors.Is(err, config.ErrInvalidGeoEpsilon) {
			t.Errorf("expected ErrInvalidGeoEpsilon, got %v", err)
		}
	})

	t.Run("rejects min points below two", func(t *testing.T) {
		t.Parallel()

		cmd := NewGeoCmd()
		if err := cmd.Flags().Set("min-points", "1"); err != nil {
			t.Fatal(err)
		}
		if _, err := geoSettings(cmd); !errors.Is(err, config.ErrInvalidGeoMinPoints) {
			t.Errorf("expected ErrInvalidGeoMinPoints, got %v", err)
		}
	})
}

// TestReadObservations tests observation file parsing.
func TestReadObservations(t *testing.T) {
	t.Parallel()

	t.Run("parses a valid file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "obs.json")
		content := `[
			{"latitude": 6.5244, "longitude": 3.3792,
			 "timestamp": "2026-08-01T09:00:00Z", "source": "login"},
			{"latitude": 6.5300, "longitude": 3.3800,
			 "timestamp": "2026-08-01T10:00:00Z", "source": "login"}
		]`
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}

		observations, err := readObservations(NewGeoCmd(), path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(observations) != 2 {
			t.Fatalf("expected 2 observations, got %d", len(observations))
		}
		if observations[0].Latitude != 6.5244 {
			t.Errorf("expected latitude 6.5244, got %v", observations[0].Latitude)
		}
		if observations[1].Source != "login" {
			t.Errorf("expected source 'login', got %q", observations[1].Source)
		}
	})

	t.Run("missing file is an error", func(t *testing.T) {
		t.Parallel()

		if _, err := readObservations(NewGeoCmd(), filepath.Join(t.TempDir(), "nope.json")); err == nil {
			t.Error("expected error for missing file")
		}
	})

	t.Run("invalid JSON is an error", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "bad.json")
		if err := os.WriteFile(path, []byte("not json"), 0600); err != nil {
			t.Fatal(err)
		}
		if _, err := readObservations(NewGeoCmd(), path); err == nil {
			t.Error("expected error for invalid JSON")
		}
	})
}
