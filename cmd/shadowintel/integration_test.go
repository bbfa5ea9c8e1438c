package main

import (
	"errors"
	"testing"

	"github.com/ghoztwoods/shadowintel/internal/engine"
)

// TestScanUnclassifiableInput tests the full command path for input
// that matches no identifier kind. No network access and no store
// writes happen before classification, so this runs offline.
func TestScanUnclassifiableInput(t *testing.T) {
	cmd := NewRootCmd()
	cmd.SetArgs([]string{"scan", "--no-save", "8.8.8.8"})

	err := cmd.Execute()
	if err == nil {
		t.Fatal("expected classification error")
	}

	var classErr *engine.ClassificationError
	if !errors.As(err, &classErr) {
		t.Fatalf("expected ClassificationError, got %T: %v", err, err)
	}
	if classErr.Input != "8.8.8.8" {
		t.Errorf("expected input '8.8.8.8', got %q", classErr.Input)
	}
}
