package chapters_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"mkvmux/internal/chapters"
	"mkvmux/internal/services"
)

func TestAddSimpleCreatesEdition(t *testing.T) {
	var c chapters.Chapters
	if err := c.AddSimple("00:00", "Intro", ""); err != nil {
		t.Fatalf("AddSimple: %v", err)
	}
	if err := c.AddSimple(300, "Act One", "fre"); err != nil {
		t.Fatalf("AddSimple: %v", err)
	}
	if len(c.Editions) != 1 || len(c.Editions[0].Atoms) != 2 {
		t.Fatalf("unexpected structure: %+v", c)
	}
	first := c.Editions[0].Atoms[0]
	if first.TimeStart != "00:00:00.0" || first.Displays[0].Language != chapters.DefaultLanguage {
		t.Fatalf("unexpected first atom: %+v", first)
	}
	if got := c.Editions[0].Atoms[1].TimeStart; got != "00:05:00.0" {
		t.Fatalf("unexpected second start %q", got)
	}
	if c.Count() != 2 {
		t.Fatalf("Count() = %d", c.Count())
	}
}

func TestAddSimpleValidates(t *testing.T) {
	var c chapters.Chapters
	if err := c.AddSimple("bad", "x", ""); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err := c.AddSimple("00:10", "x", "english"); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected language validation error, got %v", err)
	}
}

func TestXMLRendersFlagsAndSkipsUnset(t *testing.T) {
	uid := uint64(42)
	c := chapters.Chapters{Editions: []chapters.Edition{{
		UID:     &uid,
		Default: chapters.FlagOf(true),
		Atoms: []chapters.Atom{{
			TimeStart: "00:00:00.0",
			Hidden:    chapters.FlagOf(false),
			Displays:  []chapters.Display{{String: "Intro", Language: "eng"}},
			Atoms:     []chapters.Atom{{TimeStart: "00:00:30.0"}},
		}},
	}}}
	out, err := c.XML()
	if err != nil {
		t.Fatalf("XML: %v", err)
	}
	for _, want := range []string{
		`<?xml version="1.0" encoding="UTF-8"?>`,
		"<Chapters>",
		"<EditionUID>42</EditionUID>",
		"<EditionFlagDefault>1</EditionFlagDefault>",
		"<ChapterFlagHidden>0</ChapterFlagHidden>",
		"<ChapterString>Intro</ChapterString>",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in\n%s", want, out)
		}
	}
	for _, unwanted := range []string{"EditionFlagHidden", "ChapterTimeEnd", "ChapterCountry", "ChapterFlagEnabled"} {
		if strings.Contains(out, unwanted) {
			t.Fatalf("did not expect %q in\n%s", unwanted, out)
		}
	}
	if c.Count() != 2 {
		t.Fatalf("Count() = %d, want nested atoms counted", c.Count())
	}
}

func TestWriteFileRoundTrip(t *testing.T) {
	var c chapters.Chapters
	if err := c.AddSimple("00:01:00", "One", "eng"); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "chapters.xml")
	if err := c.WriteFile(path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	decoded, err := chapters.Decode(f)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if decoded.Count() != 1 || decoded.Editions[0].Atoms[0].Displays[0].String != "One" {
		t.Fatalf("unexpected decoded chapters: %+v", decoded)
	}
}
