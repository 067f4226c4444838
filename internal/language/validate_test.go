package language

import (
	"errors"
	"strings"
	"testing"

	"mkvmux/internal/services"
)

func TestIsISO6392(t *testing.T) {
	valid := []string{"eng", "fre", "fra", "ger", "deu", "jpn", "und", "alb", "mul", "mis", "zxx", "qaa", "qtz", "haw"}
	for _, code := range valid {
		if !IsISO6392(code) {
			t.Errorf("IsISO6392(%q) = false, want true", code)
		}
	}
	invalid := []string{"", "en", "english", "ENG", "e1g", "en-US", "cmn", "yue", "arb", "abc", "xxx", "qua"}
	for _, code := range invalid {
		if IsISO6392(code) {
			t.Errorf("IsISO6392(%q) = true, want false", code)
		}
	}
}

func TestIsBCP47(t *testing.T) {
	valid := []string{"und", "en", "en-US", "pt-BR", "zh-Hant-TW", "sr-Latn"}
	for _, tag := range valid {
		if !IsBCP47(tag) {
			t.Errorf("IsBCP47(%q) = false, want true", tag)
		}
	}
	invalid := []string{"", "not a tag", "x", " en", "en_US", "pt_BR"}
	for _, tag := range invalid {
		if IsBCP47(tag) {
			t.Errorf("IsBCP47(%q) = true, want false", tag)
		}
	}
}

func TestValidateSuggests(t *testing.T) {
	err := ValidateISO6392("englsh")
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(err.Error(), "did you mean eng") {
		t.Fatalf("expected suggestion in %q", err.Error())
	}
	if Suggest("q") != "" {
		t.Fatal("expected no suggestion for single character input")
	}
}

func TestPairMutualExclusion(t *testing.T) {
	p := NewPair("eng", "en-US")
	if p.Effective() != "en-US" {
		t.Fatalf("Effective() = %q, want IETF value when both present", p.Effective())
	}

	if err := p.SetLegacy("ger"); err != nil {
		t.Fatalf("SetLegacy: %v", err)
	}
	if p.IETF() != "" || p.Legacy() != "ger" || p.Effective() != "ger" {
		t.Fatalf("unexpected pair after SetLegacy: %+v", p)
	}

	if err := p.SetIETF("de-AT"); err != nil {
		t.Fatalf("SetIETF: %v", err)
	}
	if p.Legacy() != "" || p.Effective() != "de-AT" {
		t.Fatalf("unexpected pair after SetIETF: %+v", p)
	}

	if err := p.SetLegacy("bogus"); err == nil {
		t.Fatal("expected error for invalid legacy code")
	}
	if p.IETF() != "de-AT" {
		t.Fatal("failed set must not clear the sibling field")
	}

	if err := p.SetIETF(""); err != nil {
		t.Fatalf("clearing IETF: %v", err)
	}
	if p.Effective() != "" {
		t.Fatalf("Effective() = %q after clearing", p.Effective())
	}
}
