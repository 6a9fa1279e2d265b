package id

import (
	"strings"
	"testing"
)

func TestNewFormat(t *testing.T) {
	value := New()
	if len(value) != 26 {
		t.Fatalf("expected 26 characters, got %d (%q)", len(value), value)
	}
	if value != strings.ToLower(value) {
		t.Fatalf("expected lowercase identifier, got %q", value)
	}
	if strings.ContainsAny(value, "=/+") {
		t.Fatalf("identifier contains unsafe characters: %q", value)
	}
}

func TestNewUniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		value := New()
		if seen[value] {
			t.Fatalf("duplicate identifier generated: %q", value)
		}
		seen[value] = true
	}
}
