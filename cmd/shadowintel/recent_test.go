package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/ghoztwoods/shadowintel/internal/config"
	"github.com/ghoztwoods/shadowintel/internal/model"
)

// TestNewRecentCmd tests the recent command creation.
func TestNewRecentCmd(t *testing.T) {
	t.Parallel()

	cmd := NewRecentCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "recent [identifier]" {
			t.Errorf("expected use 'recent [identifier]', got %q", cmd.Use)
		}
	})

	t.Run("has limit flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("limit")
		if flag == nil {
			t.Fatal("expected limit flag")
		}
		if flag.Shorthand != "n" {
			t.Errorf("expected shorthand 'n', got %q", flag.Shorthand)
		}
	})

	t.Run("has json flag", func(t *testing.T) {
		t.Parallel()
		if cmd.Flags().Lookup("json") == nil {
			t.Fatal("expected json flag")
		}
	})
}

// TestNewHighRiskCmd tests the highrisk command creation.
func TestNewHighRiskCmd(t *testing.T) {
	t.Parallel()

	cmd := NewHighRiskCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "highrisk" {
			t.Errorf("expected use 'highrisk', got %q", cmd.Use)
		}
	})

	t.Run("threshold defaults to high-risk cutoff", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("threshold")
		if flag == nil {
			t.Fatal("expected threshold flag")
		}
		threshold, err := cmd.Flags().GetFloat64("threshold")
		if err != nil {
			t.Fatal(err)
		}
		if threshold != config.DefaultHighRiskThreshold {
			t.Errorf("expected default threshold %v, got %v",
				config.DefaultHighRiskThreshold, threshold)
		}
	})
}

// TestPrintSummaries tests the table rendering.
func TestPrintSummaries(t *testing.T) {
	t.Parallel()

	summaries := []model.ScanSummary{
		{
			ID:        "abc123",
			Target:    "user@example.com",
			Kind:      model.KindEmail,
			RiskScore: 0.45,
			Status:    model.ScanCompleted,
			ScannedAt: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		},
	}

	var buf bytes.Buffer
	cmd := NewRecentCmd()
	cmd.SetOut(&buf)

	if err := printSummaries(cmd, summaries); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"TARGET", "user@example.com", "0.45", "abc123"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q\n%s", want, out)
		}
	}
}
