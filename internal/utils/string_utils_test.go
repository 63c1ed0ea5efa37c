package utils

import (
	"reflect"
	"testing"
	"time"
)

func TestSanitizeText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain text", "hello world", "hello world"},
		{"strips tags", "<b>bold</b> move", "bold move"},
		{"strips script", "<script>alert(1)</script>safe", "safe"},
		{"collapses whitespace", "  a \n\t b  ", "a b"},
		{"decodes entities", "fish &amp; chips", "fish & chips"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeText(tt.input); got != tt.want {
				t.Errorf("SanitizeText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestInitials(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"two names", "Jane Doe", "JD"},
		{"single name", "Jane", "J"},
		{"three names capped at two", "Jane Ann Doe", "JA"},
		{"lowercase input", "jane doe", "JD"},
		{"empty", "", ""},
		{"unicode", "élodie dubois", "ÉD"},
		{"unicode both tokens", "Álvaro Gómez", "ÁG"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Initials(tt.input); got != tt.want {
				t.Errorf("Initials(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseLabels(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"simple", "a,b,c", []string{"a", "b", "c"}},
		{"trims entries", " a , b ", []string{"a", "b"}},
		{"drops empties", "a,,b,", []string{"a", "b"}},
		{"empty input", "", []string{}},
		{"only commas", ",,,", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseLabels(tt.input)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseLabels(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseDueDate(t *testing.T) {
	got, err := ParseDueDate("2026-03-15")
	if err != nil {
		t.Fatalf("ParseDueDate returned error: %v", err)
	}
	want := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	if got == nil || !got.Equal(want) {
		t.Errorf("ParseDueDate = %v, want %v", got, want)
	}
}

func TestParseDueDateEmpty(t *testing.T) {
	got, err := ParseDueDate("")
	if err != nil {
		t.Fatalf("ParseDueDate(\"\") returned error: %v", err)
	}
	if got != nil {
		t.Errorf("ParseDueDate(\"\") = %v, want nil", got)
	}
}

func TestParseDueDateInvalid(t *testing.T) {
	for _, input := range []string{"15-03-2026", "2026/03/15", "tomorrow"} {
		if _, err := ParseDueDate(input); err == nil {
			t.Errorf("ParseDueDate(%q) should fail", input)
		}
	}
}

func TestNormalizeSearch(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercases", "Hello World", "hello world"},
		{"strips diacritics", "Café résumé", "cafe resume"},
		{"plain ascii untouched", "deploy api", "deploy api"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeSearch(tt.input); got != tt.want {
				t.Errorf("NormalizeSearch(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
