package query

import (
	"testing"

	"github.com/driftmesh/roomsearch/pkg/engine"
)

func TestTranslateFullWebSyntax(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{
			name:     "bare terms pass through",
			raw:      "quick brown",
			expected: "quick brown",
		},
		{
			name:     "phrase stays quoted",
			raw:      `"quick brown"`,
			expected: `"quick brown"`,
		},
		{
			name:     "or group stays an or group",
			raw:      "furphy OR fox",
			expected: "furphy OR fox",
		},
		{
			name:     "negation keeps its dash",
			raw:      "-fox",
			expected: "-fox",
		},
		{
			name:     "operators keep their position",
			raw:      `dog "quick brown" -lazy furphy OR fox`,
			expected: `dog "quick brown" -lazy furphy OR fox`,
		},
		{
			name:     "input is normalized to lowercase",
			raw:      "Furphy OR Fox",
			expected: "furphy OR fox",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Translate(Parse(tt.raw), engine.FullWebSyntax)
			if got != tt.expected {
				t.Errorf("Translate(%q, web) = %q, want %q", tt.raw, got, tt.expected)
			}
		})
	}
}

func TestTranslatePlainBestEffort(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{
			name:     "quotes stripped, phrase degrades to terms",
			raw:      `"quick brown"`,
			expected: "quick brown",
		},
		{
			name:     "or passes through as a literal token",
			raw:      "furphy OR fox",
			expected: "furphy OR fox",
		},
		{
			name:     "dash prefix passes through as a literal token",
			raw:      "-nope",
			expected: "-nope",
		},
		{
			name:     "mixed query loses structure but keeps words",
			raw:      `dog "quick brown" -lazy`,
			expected: "dog quick brown -lazy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Translate(Parse(tt.raw), engine.PlainBestEffort)
			if got != tt.expected {
				t.Errorf("Translate(%q, plain) = %q, want %q", tt.raw, got, tt.expected)
			}
		})
	}
}

func TestTranslateNoStructuredSyntax(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{
			name:     "phrase reduced to bare tokens",
			raw:      `"quick brown"`,
			expected: "quick brown",
		},
		{
			name:     "or operator stripped",
			raw:      "furphy OR fox",
			expected: "furphy fox",
		},
		{
			name:     "negation stripped to a plain word",
			raw:      "-fox quick",
			expected: "fox quick",
		},
		{
			name:     "empty query",
			raw:      "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Translate(Parse(tt.raw), engine.NoStructuredSyntax)
			if got != tt.expected {
				t.Errorf("Translate(%q, none) = %q, want %q", tt.raw, got, tt.expected)
			}
		})
	}
}

// Translation must be deterministic: the same parsed query and capability
// always render the same engine query.
func TestTranslateDeterministic(t *testing.T) {
	q := Parse(`dog "quick brown" -lazy furphy OR fox`)
	for _, c := range []engine.Capability{engine.FullWebSyntax, engine.PlainBestEffort, engine.NoStructuredSyntax} {
		first := Translate(q, c)
		for i := 0; i < 5; i++ {
			if got := Translate(q, c); got != first {
				t.Fatalf("capability %v: translation changed between calls: %q vs %q", c, first, got)
			}
		}
	}
}
