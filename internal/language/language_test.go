package language

import (
	"testing"
)

func TestCanonical(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"english", "eng"},
		{" German ", "deu"},
		{"de", "deu"},
		{"farsi", "fas"},
		{"ger", "ger"},
		{"FRE", "fre"},
		{"qaa", "qaa"},
		{"en-US", "en-US"},
		{"klingon", "klingon"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if result := Canonical(tt.input); result != tt.expected {
				t.Errorf("Canonical(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"eng", "English"},
		{"fre", "French"},
		{"en-US", "English (en-US)"},
		{"", "Undetermined"},
		{"und", "Undetermined"},
		{"cym", "Welsh"},
		{"xyz", "XYZ"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if result := DisplayName(tt.input); result != tt.expected {
				t.Errorf("DisplayName(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}
