// ABOUTME: Tests for version constants
// ABOUTME: Ensures the strings reported in logs and telemetry are usable
package version

import (
	"strings"
	"testing"
)

func TestConstantsDefined(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"Version", Version},
		{"Product", Product},
		{"Manufacturer", Manufacturer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value == "" {
				t.Errorf("%s should not be empty", tt.name)
			}
			if len(tt.value) > 100 {
				t.Errorf("%s is unreasonably long: %d chars", tt.name, len(tt.value))
			}
			if strings.TrimSpace(tt.value) != tt.value {
				t.Errorf("%s has surrounding whitespace: %q", tt.name, tt.value)
			}
		})
	}
}

func TestVersionIsSemver(t *testing.T) {
	parts := strings.Split(Version, ".")
	if len(parts) != 3 {
		t.Fatalf("expected MAJOR.MINOR.PATCH, got %q", Version)
	}
	for _, p := range parts {
		if p == "" || strings.Trim(p, "0123456789") != "" {
			t.Errorf("expected numeric version component, got %q in %q", p, Version)
		}
	}
}
