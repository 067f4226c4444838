package fileutil

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mkvmux/internal/services"
)

func TestCheckFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tags.xml")
	if err := os.WriteFile(path, []byte("<Tags/>"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := CheckFile(path)
	if err != nil {
		t.Fatalf("CheckFile: %v", err)
	}
	if got != path {
		t.Fatalf("CheckFile returned %q, want %q", got, path)
	}

	if _, err := CheckFile(filepath.Join(dir, "missing.xml")); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := CheckFile(dir); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found for directory, got %v", err)
	}
	if _, err := CheckFile(" "); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for blank path, got %v", err)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := ExpandPath("~/media/a.mkv"); got != filepath.Join(home, "media", "a.mkv") {
		t.Fatalf("ExpandPath = %q", got)
	}
	if got := ExpandPath("/tmp/../tmp/x.mkv"); got != "/tmp/x.mkv" {
		t.Fatalf("ExpandPath = %q", got)
	}
	if ExpandPath("") != "" {
		t.Fatal("expected empty result")
	}
}

func TestGuessMIME(t *testing.T) {
	tests := map[string]string{
		"font.TTF":  "font/ttf",
		"cover.jpg": "image/jpeg",
		"noext":     "",
	}
	for in, want := range tests {
		if got := GuessMIME(in); got != want {
			t.Errorf("GuessMIME(%q) = %q, want %q", in, got, want)
		}
	}
	if got := GuessMIME("page.html"); !strings.HasPrefix(got, "text/html") {
		t.Errorf("GuessMIME(page.html) = %q", got)
	}
}

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	if err := EnsureDir(dir); err != nil {
		t.Fatalf("EnsureDir: %v", err)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Fatalf("expected directory, got %v", err)
	}
}

func TestSanitizeFileName(t *testing.T) {
	cases := map[string]string{
		"  Director's Cut  ":    "Director's Cut",
		"AC/DC: Live":           "AC-DC- Live",
		`What? "Really" <yes>|`: "What Really yes",
		"":                      "",
	}
	for in, want := range cases {
		if got := SanitizeFileName(in); got != want {
			t.Errorf("SanitizeFileName(%q) = %q, want %q", in, got, want)
		}
	}
}
