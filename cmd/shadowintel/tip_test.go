package main

import (
	"testing"
)

// TestNewTipCmd tests the tip command creation.
func TestNewTipCmd(t *testing.T) {
	t.Parallel()

	cmd := NewTipCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "tip" {
			t.Errorf("expected use 'tip', got %q", cmd.Use)
		}
	})

	t.Run("has submission flags", func(t *testing.T) {
		t.Parallel()
		for _, name := range []string{"reporter", "category", "urgency", "detail"} {
			if cmd.Flags().Lookup(name) == nil {
				t.Errorf("expected %s flag", name)
			}
		}
	})

	t.Run("urgency defaults to low", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("urgency")
		if flag == nil {
			t.Fatal("expected urgency flag")
		}
		if flag.DefValue != "low" {
			t.Errorf("expected default 'low', got %q", flag.DefValue)
		}
	})

	t.Run("has list flags", func(t *testing.T) {
		t.Parallel()
		for _, name := range []string{"list", "limit", "json"} {
			if cmd.Flags().Lookup(name) == nil {
				t.Errorf("expected %s flag", name)
			}
		}
	})
}
