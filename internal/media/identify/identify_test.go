package identify

import (
	"errors"
	"testing"
	"time"

	"mkvmux/internal/services"
)

const sample = `{
  "container": {"recognized": true, "supported": true, "type": "Matroska",
    "properties": {"title": "Feature", "duration": 5400000000000}},
  "file_name": "movie.mkv",
  "tracks": [
    {"id": 0, "type": "video", "codec": "AVC/H.264/MPEG-4p10", "start_pts": 0,
      "properties": {"language": "und", "default_track": true}},
    {"id": 1, "type": "audio", "codec": "AC-3", "start_pts": 12000000,
      "properties": {"language": "eng", "language_ietf": "en-US", "track_name": "Surround", "flag_original": true}},
    {"id": 2, "type": "subtitles", "codec": "SubRip/SRT",
      "properties": {"language": "fre", "forced_track": true}}
  ],
  "global_tags": [{"num_entries": 3}],
  "track_tags": [{"num_entries": 2, "track_id": 1}, {"num_entries": 1, "track_id": 2}],
  "chapters": [{"num_entries": 12}],
  "attachments": [
    {"id": 1, "file_name": "font.ttf", "content_type": "font/ttf", "size": 1024},
    {"id": 2, "file_name": "cover.jpg", "content_type": "image/jpeg", "description": "Cover", "size": 2048}
  ]
}`

func TestDecode(t *testing.T) {
	info, err := Decode([]byte(sample))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !info.IsMatroska() || !info.Container.Supported || !info.Container.Recognized {
		t.Fatalf("unexpected container: %+v", info.Container)
	}
	if info.Title() != "Feature" {
		t.Fatalf("Title() = %q", info.Title())
	}
	if info.Duration() != 90*time.Minute {
		t.Fatalf("Duration() = %s", info.Duration())
	}
	if info.TrackCount(KindAudio) != 1 || info.TrackCount(KindVideo) != 1 || info.TrackCount(KindSubtitles) != 1 {
		t.Fatalf("unexpected track counts")
	}
	audio, ok := info.Track(1)
	if !ok || audio.Properties.LanguageIETF != "en-US" || audio.StartPTS != 12000000 || !audio.Properties.FlagOriginal {
		t.Fatalf("unexpected audio track: %+v", audio)
	}
	if _, ok := info.Track(9); ok {
		t.Fatal("expected missing track")
	}
	if info.GlobalTagEntries() != 3 || info.TrackTagEntries(1) != 2 || info.TrackTagEntries(0) != 0 {
		t.Fatal("unexpected tag counts")
	}
	if info.ChapterEntries() != 12 {
		t.Fatalf("ChapterEntries() = %d", info.ChapterEntries())
	}
	ids := info.AttachmentIDs()
	if len(ids) != 2 || ids[0] != 1 || ids[1] != 2 {
		t.Fatalf("AttachmentIDs() = %v", ids)
	}
	if len(info.RawJSON()) != len(sample) {
		t.Fatal("expected raw payload to be retained")
	}
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode([]byte("mkvmerge v90"))
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
}
