package job

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"mkvmux/internal/fileutil"
	"mkvmux/internal/services"
)

// Spec is the decoded job file.
type Spec struct {
	Output                     string       `toml:"output"`
	Title                      string       `toml:"title"`
	DisableTrackStatisticsTags *bool        `toml:"disable_track_statistics_tags"`
	GlobalTags                 string       `toml:"global_tags"`
	Inputs                     []Input      `toml:"inputs"`
	Attachments                []Attachment `toml:"attachments"`
	Chapters                   Chapters     `toml:"chapters"`
	Link                       Link         `toml:"link"`
	Split                      Split        `toml:"split"`

	dir string
}

// Input is one source file.
type Input struct {
	Path string `toml:"path"`
	// Tracks keeps only the listed track ids. Empty keeps every track.
	Tracks []int `toml:"tracks"`
	// Attachments keeps only the listed stored attachment ids. Nil keeps all;
	// an empty list drops them.
	Attachments   []int           `toml:"attachments"`
	NoChapters    bool            `toml:"no_chapters"`
	NoGlobalTags  bool            `toml:"no_global_tags"`
	NoTrackTags   bool            `toml:"no_track_tags"`
	NoAttachments bool            `toml:"no_attachments"`
	Overrides     []TrackOverride `toml:"track"`
}

// TrackOverride changes properties of one track of an input. Unset fields keep
// the identified value.
type TrackOverride struct {
	ID              int     `toml:"id"`
	Name            *string `toml:"name"`
	Language        string  `toml:"language"`
	LanguageIETF    string  `toml:"language_ietf"`
	Default         *bool   `toml:"default"`
	Forced          *bool   `toml:"forced"`
	HearingImpaired *bool   `toml:"hearing_impaired"`
	VisualImpaired  *bool   `toml:"visual_impaired"`
	Original        *bool   `toml:"original"`
	Commentary      *bool   `toml:"commentary"`
	Sync            *int    `toml:"sync"`
	Tags            string  `toml:"tags"`
	Timestamps      string  `toml:"timestamps"`
	Compression     string  `toml:"compression"`
}

// Attachment is a new file to embed.
type Attachment struct {
	Path        string `toml:"path"`
	Name        string `toml:"name"`
	Description string `toml:"description"`
	MIMEType    string `toml:"mime_type"`
	Once        bool   `toml:"once"`
}

// Chapters selects a chapter file or inline chapter entries.
type Chapters struct {
	File     string         `toml:"file"`
	Language string         `toml:"language"`
	Entries  []ChapterEntry `toml:"entry"`
}

// ChapterEntry is one inline chapter. Start may be a timestamp string or
// whole seconds.
type ChapterEntry struct {
	Start    any    `toml:"start"`
	Title    string `toml:"title"`
	Language string `toml:"language"`
}

// Link chains the output to neighbouring segments.
type Link struct {
	Previous string `toml:"previous"`
	Next     string `toml:"next"`
}

// Split selects the split strategy. Only the field matching Mode is read.
type Split struct {
	Mode       string  `toml:"mode"`
	Size       string  `toml:"size"`
	Duration   any     `toml:"duration"`
	Timestamps []any   `toml:"timestamps"`
	Frames     []int64 `toml:"frames"`
	Chapters   []int64 `toml:"chapters"`
	Parts      [][]any `toml:"parts"`
	Link       bool    `toml:"link"`
}

// Decode reads a job from r. Relative paths resolve against dir.
func Decode(r io.Reader, dir string) (*Spec, error) {
	var spec Spec
	dec := toml.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&spec); err != nil {
		return nil, services.Wrap(services.ErrValidation, "job", "parse", "", err)
	}
	spec.dir = dir
	return &spec, nil
}

// Load reads the job file at path.
func Load(path string) (*Spec, error) {
	checked, err := fileutil.CheckFile(path)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(checked)
	if err != nil {
		return nil, services.Wrap(services.ErrNotFound, "job", "open", checked, err)
	}
	defer file.Close()
	spec, err := Decode(file, filepath.Dir(checked))
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "job", "load", checked, err)
	}
	return spec, nil
}

// Resolve makes path absolute relative to the job directory. Empty stays
// empty.
func (s *Spec) Resolve(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	path = fileutil.ExpandPath(path)
	if filepath.IsAbs(path) || s.dir == "" {
		return path
	}
	return filepath.Join(s.dir, path)
}

// OutputPath returns the resolved output, preferring override when set.
func (s *Spec) OutputPath(override string) string {
	if strings.TrimSpace(override) != "" {
		return fileutil.ExpandPath(override)
	}
	return s.Resolve(s.Output)
}
