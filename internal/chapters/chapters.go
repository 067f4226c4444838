// Package chapters builds Matroska chapter trees in memory and serializes
// them to the XML format mkvmerge reads with --chapters.
package chapters

import (
	"bytes"
	"encoding/xml"
	"io"
	"os"

	"mkvmux/internal/language"
	"mkvmux/internal/services"
	"mkvmux/internal/timestamp"
)

// DefaultLanguage is used for chapter titles without an explicit language.
const DefaultLanguage = "eng"

// chapterTimeForm keeps hours so mkvmerge never misreads MM:SS as HH:MM.
const chapterTimeForm = "HH:MM:SS.NNNNNNNNN"

// Flag renders as 1 or 0 in chapter XML.
type Flag bool

func (f Flag) MarshalText() ([]byte, error) {
	if f {
		return []byte("1"), nil
	}
	return []byte("0"), nil
}

func (f *Flag) UnmarshalText(data []byte) error {
	*f = string(bytes.TrimSpace(data)) == "1"
	return nil
}

// FlagOf returns a pointer suitable for the optional flag fields.
func FlagOf(v bool) *Flag {
	f := Flag(v)
	return &f
}

// Chapters is the document root.
type Chapters struct {
	XMLName  xml.Name  `xml:"Chapters"`
	Editions []Edition `xml:"EditionEntry"`
}

// Edition groups chapter atoms.
type Edition struct {
	UID     *uint64 `xml:"EditionUID,omitempty"`
	Hidden  *Flag   `xml:"EditionFlagHidden,omitempty"`
	Default *Flag   `xml:"EditionFlagDefault,omitempty"`
	Ordered *Flag   `xml:"EditionFlagOrdered,omitempty"`
	Atoms   []Atom  `xml:"ChapterAtom"`
}

// Atom is one chapter, optionally with nested chapters.
type Atom struct {
	TimeStart string    `xml:"ChapterTimeStart"`
	TimeEnd   string    `xml:"ChapterTimeEnd,omitempty"`
	UID       *uint64   `xml:"ChapterUID,omitempty"`
	Hidden    *Flag     `xml:"ChapterFlagHidden,omitempty"`
	Enabled   *Flag     `xml:"ChapterFlagEnabled,omitempty"`
	Displays  []Display `xml:"ChapterDisplay"`
	Atoms     []Atom    `xml:"ChapterAtom"`
}

// Display is a localized chapter title.
type Display struct {
	String   string `xml:"ChapterString"`
	Language string `xml:"ChapterLanguage"`
	Country  string `xml:"ChapterCountry,omitempty"`
}

// AddSimple appends a titled chapter starting at start to the first edition,
// creating the edition when needed. start accepts anything timestamp.From does.
// An empty lang means DefaultLanguage.
func (c *Chapters) AddSimple(start any, title, lang string) error {
	ts, err := timestamp.From(start)
	if err != nil {
		return err
	}
	if lang == "" {
		lang = DefaultLanguage
	}
	if err := language.ValidateISO6392(lang); err != nil {
		return err
	}
	rendered, err := ts.Format(chapterTimeForm)
	if err != nil {
		return err
	}
	if len(c.Editions) == 0 {
		c.Editions = append(c.Editions, Edition{})
	}
	c.Editions[0].Atoms = append(c.Editions[0].Atoms, Atom{
		TimeStart: rendered,
		Displays:  []Display{{String: title, Language: lang}},
	})
	return nil
}

// Count returns the number of chapter atoms across all editions, nested ones
// included.
func (c *Chapters) Count() int {
	if c == nil {
		return 0
	}
	total := 0
	for _, e := range c.Editions {
		total += countAtoms(e.Atoms)
	}
	return total
}

func countAtoms(atoms []Atom) int {
	n := len(atoms)
	for _, a := range atoms {
		n += countAtoms(a.Atoms)
	}
	return n
}

// Encode writes the XML document, declaration included.
func (c *Chapters) Encode(w io.Writer) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(c); err != nil {
		return services.Wrap(services.ErrValidation, "chapters", "encode", "", err)
	}
	if err := enc.Close(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// XML renders the document to a string.
func (c *Chapters) XML() (string, error) {
	var buf bytes.Buffer
	if err := c.Encode(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WriteFile writes the document to path.
func (c *Chapters) WriteFile(path string) error {
	var buf bytes.Buffer
	if err := c.Encode(&buf); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return services.Wrap(services.ErrValidation, "chapters", "write", path, err)
	}
	return nil
}

// Decode reads a chapter XML document.
func Decode(r io.Reader) (*Chapters, error) {
	var c Chapters
	if err := xml.NewDecoder(r).Decode(&c); err != nil {
		return nil, services.Wrap(services.ErrValidation, "chapters", "decode", "invalid chapter XML", err)
	}
	return &c, nil
}
