package command

import (
	"slices"
	"strconv"
	"strings"

	"mkvmux/internal/mkv"
)

// Snapshot is the input shared by every generator.
type Snapshot struct {
	File   *mkv.File
	Output string
	// ChaptersFile replaces File.ChaptersFile when set. The muxer uses it after
	// writing an in-memory chapter tree to disk.
	ChaptersFile string
}

func (s Snapshot) chaptersFile() string {
	if s.ChaptersFile != "" {
		return s.ChaptersFile
	}
	return s.File.ChaptersFile()
}

// Generator contributes one ordered slice of arguments.
type Generator interface {
	Name() string
	Generate(s Snapshot) []string
}

type generator struct {
	name string
	fn   func(Snapshot) []string
}

func (g generator) Name() string                 { return g.name }
func (g generator) Generate(s Snapshot) []string { return g.fn(s) }

// Pipeline lists the generators in the order their output is concatenated.
var Pipeline = []Generator{
	generator{"base", baseOptions},
	generator{"global", globalOptions},
	generator{"chapters", chapterOptions},
	generator{"linking", linkingOptions},
	generator{"tracks", trackOptions},
	generator{"attachments", attachmentOptions},
	generator{"track-order", trackOrderOptions},
	generator{"split", splitOptions},
}

func baseOptions(s Snapshot) []string {
	args := []string{"-o", s.Output}
	if s.File.Title != "" {
		args = append(args, "--title", s.File.Title)
	}
	if s.File.DisableTrackStatistics {
		args = append(args, "--disable-track-statistics-tags")
	}
	return args
}

func globalOptions(s Snapshot) []string {
	if tags := s.File.GlobalTags(); tags != "" {
		return []string{"--global-tags", tags}
	}
	return nil
}

func chapterOptions(s Snapshot) []string {
	var args []string
	if lang := s.File.ChapterLanguage(); lang != "" {
		args = append(args, "--chapter-language", lang)
	}
	if path := s.chaptersFile(); path != "" {
		args = append(args, "--chapters", path)
	}
	return args
}

func linkingOptions(s Snapshot) []string {
	var args []string
	if prev := s.File.LinkPrevious(); prev != "" {
		args = append(args, "--link-to-previous", "="+prev)
	}
	if next := s.File.LinkNext(); next != "" {
		args = append(args, "--link-to-next", "="+next)
	}
	return args
}

func attachmentOptions(s Snapshot) []string {
	var args []string
	for _, a := range s.File.Attachments() {
		if _, _, existing := a.Source(); existing {
			continue
		}
		if a.Name != "" {
			args = append(args, "--attachment-name", a.Name)
		}
		if a.Description != "" {
			args = append(args, "--attachment-description", a.Description)
		}
		if mt := a.MIMEType(); mt != "" {
			args = append(args, "--attachment-mime-type", mt)
		}
		if a.AttachOnce {
			args = append(args, "--attach-file-once", a.Path())
		} else {
			args = append(args, "--attach-file", a.Path())
		}
	}
	return args
}

func trackOrderOptions(s Snapshot) []string {
	var order []string
	for _, t := range s.File.Tracks() {
		fid, ok := t.FileID()
		if !ok {
			continue
		}
		order = append(order, strconv.Itoa(fid)+":"+strconv.Itoa(t.TrackID()))
	}
	if len(order) == 0 {
		return nil
	}
	return []string{"--track-order", strings.Join(order, ",")}
}

func splitOptions(s Snapshot) []string {
	return s.File.Split().Args()
}

func joinIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}

func sortedUnique(ids []int) []int {
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}
