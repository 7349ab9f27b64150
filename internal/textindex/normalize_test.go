// ReelRadar - Watchlist-Driven Media Recommendations
// Copyright 2026 ReelRadar contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelradar/reelradar

package textindex

import (
	"math"
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercase", "The MATRIX", "the matrix"},
		{"punctuation collapses", "sci-fi, action!", "sci fi action"},
		{"digits kept", "Blade Runner 2049", "blade runner 2049"},
		{"leading trailing trimmed", "  hello  world  ", "hello world"},
		{"only punctuation", "?!...", ""},
		{"empty", "", ""},
		{"unicode stripped", "Amélie über alles", "am lie ber alles"},
		{"newlines and tabs", "a\tb\nc", "a b c"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.input)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeOutputAlphabet(t *testing.T) {
	inputs := []string{
		"Hello, World! 123",
		"çàé ÄÖÜ 日本語",
		strings.Repeat("a!", 100),
		"\x00\x7f\xff",
	}
	for _, in := range inputs {
		got := Normalize(in)
		for i := 0; i < len(got); i++ {
			c := got[i]
			ok := (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') || c == ' '
			if !ok {
				t.Fatalf("Normalize(%q) produced byte %q outside [a-z0-9 ]", in, c)
			}
		}
		if strings.Contains(got, "  ") {
			t.Errorf("Normalize(%q) = %q contains a double space", in, got)
		}
	}
}

func TestFlatten(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
	}{
		{"nil", nil, ""},
		{"string", "hello", "hello"},
		{"nan", math.NaN(), ""},
		{"whole float", 28.0, "28"},
		{"fractional float", 7.5, "7.5"},
		{"int", 42, "42"},
		{"string slice", []string{"Action", "Drama"}, "Action Drama"},
		{"any slice", []any{"Action", 16.0}, "Action 16"},
		{"map with name", map[string]any{"id": 28.0, "name": "Action"}, "Action"},
		{"map without name", map[string]any{"b": "two", "a": "one"}, "one two"},
		{"nested slice of maps", []any{
			map[string]any{"name": "Action"},
			map[string]any{"name": "Sci-Fi"},
		}, "Action Sci-Fi"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Flatten(tt.input)
			if got != tt.want {
				t.Errorf("Flatten(%v) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestClean(t *testing.T) {
	got := Clean([]any{"Sci-Fi & Fantasy", map[string]any{"name": "Action!"}})
	want := "sci fi fantasy action"
	if got != want {
		t.Errorf("Clean = %q, want %q", got, want)
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"drops single chars", "a be sea d", []string{"be", "sea"}},
		{"empty", "", nil},
		{"digits count", "blade runner 2049", []string{"blade", "runner", "2049"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tokenize(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("Tokenize(%q) = %v, want %v", tt.input, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Tokenize(%q)[%d] = %q, want %q", tt.input, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestIsStopword(t *testing.T) {
	for _, w := range []string{"the", "and", "of", "with"} {
		if !IsStopword(w) {
			t.Errorf("IsStopword(%q) = false, want true", w)
		}
	}
	for _, w := range []string{"matrix", "space", "2049"} {
		if IsStopword(w) {
			t.Errorf("IsStopword(%q) = true, want false", w)
		}
	}
}
