package textfit

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestFit(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		maxChars int
		want     string
	}{
		{"short unchanged", "Laptop", 30, "Laptop"},
		{"exact length unchanged", "abcde", 5, "abcde"},
		{"truncated", "Professional laptop with 16GB RAM", 10, "Profess..."},
		{"budget three", "abcdef", 3, "..."},
		{"budget two", "abcdef", 2, ".."},
		{"budget one", "abcdef", 1, "."},
		{"budget zero", "abcdef", 0, ""},
		{"negative budget", "abcdef", -4, ""},
		{"short under small budget", "ab", 2, "ab"},
		{"empty text", "", 0, ""},
		{"multibyte", "Größenverstellbarer Stuhl", 8, "Größe..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Fit(tt.text, tt.maxChars); got != tt.want {
				t.Errorf("Fit(%q, %d) = %q, want %q", tt.text, tt.maxChars, got, tt.want)
			}
		})
	}
}

func TestFitBound(t *testing.T) {
	inputs := []string{
		"",
		"a",
		"Laptop Computer",
		strings.Repeat("x", 100),
		"Kaffeevollautomat mit Milchaufschäumer und Display",
		"日本語のテキストはここにあります",
	}
	for _, s := range inputs {
		for m := 3; m <= 70; m++ {
			got := Fit(s, m)
			if n := utf8.RuneCountInString(got); n > m {
				t.Errorf("Fit(%q, %d) has %d chars, want <= %d", s, m, n, m)
			}
			if utf8.RuneCountInString(s) <= m && got != s {
				t.Errorf("Fit(%q, %d) = %q, want unchanged", s, m, got)
			}
		}
	}
}
