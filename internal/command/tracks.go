package command

import (
	"slices"
	"strconv"

	"mkvmux/internal/mkv"
)

// trackProperty maps one track attribute onto its mkvmerge flag. value reports
// false when nothing should be written.
type trackProperty struct {
	flag  string
	value func(t *mkv.Track) (string, bool)
}

func text(get func(t *mkv.Track) string) func(t *mkv.Track) (string, bool) {
	return func(t *mkv.Track) (string, bool) {
		v := get(t)
		return v, v != ""
	}
}

func boolean(get func(t *mkv.Track) bool) func(t *mkv.Track) (string, bool) {
	return func(t *mkv.Track) (string, bool) {
		if get(t) {
			return "1", true
		}
		return "0", true
	}
}

var trackProperties = []trackProperty{
	{"--track-name", text(func(t *mkv.Track) string { return t.Name })},
	{"--language", text((*mkv.Track).EffectiveLanguage)},
	{"--sync", func(t *mkv.Track) (string, bool) {
		ms, ok := t.Sync()
		return strconv.Itoa(ms), ok
	}},
	{"--tags", text((*mkv.Track).Tags)},
	{"--timestamps", text((*mkv.Track).Timestamps)},
	{"--default-track", boolean(func(t *mkv.Track) bool { return t.Flags.Default })},
	{"--forced-track", boolean(func(t *mkv.Track) bool { return t.Flags.Forced })},
	{"--hearing-impaired-flag", boolean(func(t *mkv.Track) bool { return t.Flags.HearingImpaired })},
	{"--visual-impaired-flag", boolean(func(t *mkv.Track) bool { return t.Flags.VisualImpaired })},
	{"--original-flag", boolean(func(t *mkv.Track) bool { return t.Flags.Original })},
	{"--commentary-flag", boolean(func(t *mkv.Track) bool { return t.Flags.Commentary })},
	{"--compression", func(t *mkv.Track) (string, bool) {
		c := t.Compression.String()
		return c, c != ""
	}},
}

func trackPropertyArgs(t *mkv.Track) []string {
	id := strconv.Itoa(t.TrackID()) + ":"
	var args []string
	for _, p := range trackProperties {
		if v, ok := p.value(t); ok {
			args = append(args, p.flag, id+v)
		}
	}
	return args
}

type sourceGroup struct {
	path   string
	tracks []*mkv.Track
}

// groupBySource groups tracks by source path in first-seen order.
func groupBySource(tracks []*mkv.Track) []sourceGroup {
	var groups []sourceGroup
	index := make(map[string]int)
	for _, t := range tracks {
		i, ok := index[t.Path()]
		if !ok {
			i = len(groups)
			index[t.Path()] = i
			groups = append(groups, sourceGroup{path: t.Path()})
		}
		groups[i].tracks = append(groups[i].tracks, t)
	}
	return groups
}

// selection lists the selector and exclusion flag per kind, in output order.
var selection = []struct {
	kind    mkv.Kind
	include string
	exclude string
}{
	{mkv.KindAudio, "--audio-tracks", "--no-audio"},
	{mkv.KindVideo, "--video-tracks", "--no-video"},
	{mkv.KindSubtitles, "--subtitle-tracks", "--no-subtitles"},
}

func trackOptions(s Snapshot) []string {
	var args []string
	for _, g := range groupBySource(s.File.Tracks()) {
		for _, t := range g.tracks {
			args = append(args, trackPropertyArgs(t)...)
		}

		excl, dropAttachments := exclusionArgs(g.tracks)
		args = append(args, excl...)

		for _, sel := range selection {
			var ids []int
			for _, t := range g.tracks {
				if t.Kind() == sel.kind {
					ids = append(ids, t.TrackID())
				}
			}
			if len(ids) > 0 {
				args = append(args, sel.include, joinIDs(ids))
			} else {
				args = append(args, sel.exclude)
			}
		}

		if !dropAttachments {
			args = append(args, attachmentFilter(s.File, g.path)...)
		}
		args = append(args, g.path)
	}
	return args
}

// exclusionArgs merges per-track exclusions into the per-source flags
// mkvmerge expects, each written at most once. Track tags can be dropped for a
// subset of tracks, in which case the kept ids are listed instead.
func exclusionArgs(tracks []*mkv.Track) (args []string, dropAttachments bool) {
	var chapters, globalTags bool
	var keepTags []int
	for _, t := range tracks {
		chapters = chapters || t.Exclusions.NoChapters
		globalTags = globalTags || t.Exclusions.NoGlobalTags
		dropAttachments = dropAttachments || t.Exclusions.NoAttachments
		if !t.Exclusions.NoTrackTags {
			keepTags = append(keepTags, t.TrackID())
		}
	}
	if chapters {
		args = append(args, "--no-chapters")
	}
	if globalTags {
		args = append(args, "--no-global-tags")
	}
	switch {
	case len(keepTags) == 0:
		args = append(args, "--no-track-tags")
	case len(keepTags) < len(tracks):
		args = append(args, "--track-tags", joinIDs(keepTags))
	}
	if dropAttachments {
		args = append(args, "--no-attachments")
	}
	return args, dropAttachments
}

// attachmentFilter decides which of a source container's stored attachments
// survive. Attachments are matched to the source by the path recorded at
// identification rather than by name.
func attachmentFilter(f *mkv.File, path string) []string {
	all := sortedUnique(f.SourceAttachmentIDs(path))
	if len(all) == 0 {
		return nil
	}
	var kept []int
	for _, a := range f.Attachments() {
		src, id, ok := a.Source()
		if ok && src == path && slices.Contains(all, id) {
			kept = append(kept, id)
		}
	}
	kept = sortedUnique(kept)
	switch {
	case len(kept) == 0:
		return []string{"--no-attachments"}
	case len(kept) < len(all):
		return []string{"--attachments", joinIDs(kept)}
	default:
		return nil
	}
}
