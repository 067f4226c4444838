package job_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"mkvmux/internal/command"
	"mkvmux/internal/job"
	"mkvmux/internal/media/identify"
	"mkvmux/internal/mkv"
	"mkvmux/internal/services"
	"mkvmux/internal/split"
)

type stubInspector struct {
	infos map[string]identify.Info
}

func (s stubInspector) Identify(_ context.Context, path string) (identify.Info, error) {
	info, ok := s.infos[filepath.Base(path)]
	if !ok {
		return identify.Info{}, services.Wrap(services.ErrNotFound, "stub", "identify", path, nil)
	}
	return info, nil
}

func ripInfo() identify.Info {
	return identify.Info{
		Container: identify.Container{Recognized: true, Supported: true, Type: "Matroska",
			Properties: identify.ContainerProperties{Title: "Rip Title"}},
		Tracks: []identify.Track{
			{ID: 0, Type: "video", Codec: "HEVC", Properties: identify.TrackProperties{DefaultTrack: true}},
			{ID: 1, Type: "audio", Codec: "AC-3", Properties: identify.TrackProperties{Language: "eng"}},
			{ID: 2, Type: "audio", Codec: "AAC", Properties: identify.TrackProperties{Language: "eng"}},
			{ID: 3, Type: "subtitles", Codec: "SubRip/SRT", Properties: identify.TrackProperties{Language: "eng"}},
		},
		Attachments: []identify.Attachment{
			{ID: 1, FileName: "font.ttf", ContentType: "font/ttf"},
			{ID: 2, FileName: "cover.jpg", ContentType: "image/jpeg"},
		},
	}
}

func touch(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func decode(t *testing.T, dir, body string) *job.Spec {
	t.Helper()
	spec, err := job.Decode(strings.NewReader(body), dir)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	return spec
}

func buildFile(t *testing.T, spec *job.Spec, defaults job.Defaults) *mkv.File {
	t.Helper()
	insp := stubInspector{infos: map[string]identify.Info{"rip.mkv": ripInfo()}}
	f, err := spec.Build(context.Background(), insp, defaults)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return f
}

func valueAfter(args []string, flag string) string {
	i := slices.Index(args, flag)
	if i < 0 || i+1 >= len(args) {
		return ""
	}
	return args[i+1]
}

func TestBuildSubsetWithOverrides(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "rip.mkv")
	spec := decode(t, dir, `
output = "out/Feature.mkv"

[[inputs]]
path = "rip.mkv"
tracks = [0, 2]
attachments = [2]

[[inputs.track]]
id = 2
name = "Stereo"
language = "ger"
default = true
sync = -120
compression = "zlib"
`)
	f := buildFile(t, spec, job.Defaults{})

	if f.Title != "Rip Title" {
		t.Fatalf("expected title carried from the first input, got %q", f.Title)
	}
	if f.TrackCount() != 2 {
		t.Fatalf("expected 2 tracks, got %d", f.TrackCount())
	}
	audio, _ := f.Track(1)
	if audio.TrackID() != 2 || audio.Name != "Stereo" || audio.Language() != "ger" || !audio.Flags.Default {
		t.Fatalf("override not applied: %+v", audio)
	}
	if ms, ok := audio.Sync(); !ok || ms != -120 {
		t.Fatalf("expected sync -120, got %d %v", ms, ok)
	}
	if audio.Compression != mkv.CompressionZlib {
		t.Fatalf("expected zlib compression, got %v", audio.Compression)
	}

	output := spec.OutputPath("")
	if output != filepath.Join(dir, "out", "Feature.mkv") {
		t.Fatalf("output not resolved against job dir: %q", output)
	}
	args, err := command.Build(f, output)
	if err != nil {
		t.Fatalf("command.Build: %v", err)
	}
	if got := valueAfter(args, "--attachments"); got != "2" {
		t.Fatalf("expected --attachments 2, got %q in %q", got, args)
	}
	if got := valueAfter(args, "--audio-tracks"); got != "2" {
		t.Fatalf("expected --audio-tracks 2, got %q", got)
	}
	if got := valueAfter(args, "--track-order"); got != "0:0,0:2" {
		t.Fatalf("unexpected track order %q", got)
	}
}

func TestBuildContainerSections(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "rip.mkv")
	touch(t, dir, "tags.xml")
	touch(t, dir, "poster.png")
	touch(t, dir, "part1.mkv")
	spec := decode(t, dir, `
output = "Feature.mkv"
title = "Feature"
disable_track_statistics_tags = false
global_tags = "tags.xml"

[[inputs]]
path = "rip.mkv"
no_chapters = true

[[attachments]]
path = "poster.png"
description = "Poster"
once = true

[[chapters.entry]]
start = "00:00:00"
title = "Opening"

[[chapters.entry]]
start = 600
title = "Middle"

[link]
previous = "part1.mkv"

[split]
mode = "chapters"
link = true
`)
	f := buildFile(t, spec, job.Defaults{ChapterLanguage: "eng", DisableTrackStatisticsTags: true})

	if f.Title != "Feature" {
		t.Fatalf("job title should win, got %q", f.Title)
	}
	if f.DisableTrackStatistics {
		t.Fatal("explicit job value should override the default")
	}
	if f.GlobalTags() != filepath.Join(dir, "tags.xml") {
		t.Fatalf("global tags %q", f.GlobalTags())
	}
	if f.ChapterLanguage() != "eng" {
		t.Fatalf("expected default chapter language, got %q", f.ChapterLanguage())
	}
	if tree := f.ChapterTree(); tree == nil {
		t.Fatal("expected inline chapters")
	}
	if f.LinkPrevious() != filepath.Join(dir, "part1.mkv") {
		t.Fatalf("link previous %q", f.LinkPrevious())
	}
	if got := f.Split().Args(); !slices.Equal(got, []string{"--split", "chapters:all", "--link"}) {
		t.Fatalf("split args %q", got)
	}
	atts := f.Attachments()
	last := atts[len(atts)-1]
	if last.Description != "Poster" || !last.AttachOnce || last.MIMEType() != "image/png" {
		t.Fatalf("attachment not configured: %+v", last)
	}
	for _, tr := range f.Tracks() {
		if !tr.Exclusions.NoChapters {
			t.Fatalf("track %d should drop source chapters", tr.TrackID())
		}
	}
}

func TestDefaultChapterLanguageNeedsChapters(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "rip.mkv")
	spec := decode(t, dir, "[[inputs]]\npath = \"rip.mkv\"\n")
	f := buildFile(t, spec, job.Defaults{ChapterLanguage: "eng", DisableTrackStatisticsTags: true})
	if f.ChapterLanguage() != "" {
		t.Fatalf("chapter language should stay unset, got %q", f.ChapterLanguage())
	}
	if !f.DisableTrackStatistics {
		t.Fatal("expected default disable_track_statistics_tags")
	}
}

func TestSplitSection(t *testing.T) {
	openParts, err := split.ByTimestampParts([]any{nil, "00:01:00"}, []any{"00:02:00", nil})
	if err != nil {
		t.Fatal(err)
	}
	size, err := split.BySize(uint64(4 << 30))
	if err != nil {
		t.Fatal(err)
	}
	frames, err := split.ByFrames([]int64{100, 200})
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name string
		body string
		want split.Spec
	}{
		{"none", "", split.None()},
		{"size", `mode = "size"` + "\n" + `size = "4GiB"`, size},
		{"frames", `mode = "frames"` + "\n" + `frames = [100, 200]`, frames},
		{"open parts", `mode = "timestamp-parts"` + "\n" + `parts = [["", "00:01:00"], ["00:02:00", ""]]`, openParts},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			spec := decode(t, "", "[split]\n"+tc.body+"\n")
			got, err := spec.Split.Spec()
			if err != nil {
				t.Fatalf("Spec: %v", err)
			}
			if got.String() != tc.want.String() {
				t.Fatalf("got %q want %q", got, tc.want)
			}
		})
	}
}

func TestSplitSectionRejectsBadValues(t *testing.T) {
	for _, sp := range []job.Split{
		{Mode: "sometimes"},
		{Mode: "size", Size: "lots"},
		{Mode: "frames", Frames: []int64{5, 5}},
		{Mode: "timestamp-parts", Parts: [][]any{{"00:01:00", "", "00:02:00", "00:03:00"}}},
	} {
		if _, err := sp.Spec(); !errors.Is(err, services.ErrValidation) && !errors.Is(err, services.ErrInvalidType) {
			t.Fatalf("%+v: expected validation failure, got %v", sp, err)
		}
	}
}

func TestBuildErrors(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "rip.mkv")
	touch(t, dir, "chapters.xml")

	cases := []struct {
		name   string
		body   string
		marker error
	}{
		{"empty", `output = "x.mkv"`, services.ErrValidation},
		{"unknown track", "[[inputs]]\npath = \"rip.mkv\"\ntracks = [9]\n", services.ErrOutOfRange},
		{"unknown override", "[[inputs]]\npath = \"rip.mkv\"\n[[inputs.track]]\nid = 7\n", services.ErrOutOfRange},
		{"bad language", "[[inputs]]\npath = \"rip.mkv\"\n[[inputs.track]]\nid = 1\nlanguage = \"english\"\n", services.ErrValidation},
		{"bad compression", "[[inputs]]\npath = \"rip.mkv\"\n[[inputs.track]]\nid = 1\ncompression = \"lzo\"\n", services.ErrValidation},
		{"missing input", "[[inputs]]\npath = \"gone.mkv\"\n", services.ErrNotFound},
		{"chapter conflict", "[[inputs]]\npath = \"rip.mkv\"\n[chapters]\nfile = \"chapters.xml\"\n[[chapters.entry]]\nstart = 0\ntitle = \"x\"\n", services.ErrValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			spec := decode(t, dir, tc.body)
			insp := stubInspector{infos: map[string]identify.Info{"rip.mkv": ripInfo()}}
			_, err := spec.Build(context.Background(), insp, job.Defaults{})
			if !errors.Is(err, tc.marker) {
				t.Fatalf("expected %v, got %v", tc.marker, err)
			}
		})
	}
}

func TestDecodeRejectsUnknownKeys(t *testing.T) {
	_, err := job.Decode(strings.NewReader("outptu = \"x.mkv\"\n"), "")
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestLoadResolvesAgainstJobDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "feature.toml")
	if err := os.WriteFile(path, []byte("output = \"Feature.mkv\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	spec, err := job.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := spec.OutputPath(""); got != filepath.Join(dir, "Feature.mkv") {
		t.Fatalf("output %q", got)
	}
	if got := spec.OutputPath("/tmp/other.mkv"); got != "/tmp/other.mkv" {
		t.Fatalf("override ignored: %q", got)
	}
	if _, err := job.Load(filepath.Join(dir, "missing.toml")); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestLanguageNamesAreCanonicalized(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "rip.mkv")
	spec := decode(t, dir, `
[[inputs]]
path = "rip.mkv"

[[inputs.track]]
id = 1
language = "german"

[chapters]
language = "fr"

[[chapters.entry]]
start = 0
title = "Début"
`)
	f := buildFile(t, spec, job.Defaults{})
	audio, _ := f.Track(1)
	if audio.Language() != "deu" {
		t.Fatalf("expected deu, got %q", audio.Language())
	}
	if f.ChapterLanguage() != "fra" {
		t.Fatalf("expected fra, got %q", f.ChapterLanguage())
	}
}
