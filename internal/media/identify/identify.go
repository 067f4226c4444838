package identify

import (
	"encoding/json"
	"strings"
	"time"

	"mkvmux/internal/services"
)

// Track kinds as reported in the "type" field.
const (
	KindVideo     = "video"
	KindAudio     = "audio"
	KindSubtitles = "subtitles"
)

// Info represents the parsed output of an mkvmerge identification.
type Info struct {
	Container     Container    `json:"container"`
	FileName      string       `json:"file_name"`
	Tracks        []Track      `json:"tracks"`
	GlobalTags    []TagEntry   `json:"global_tags"`
	TrackTags     []TagEntry   `json:"track_tags"`
	Attachments   []Attachment `json:"attachments"`
	Chapters      []TagEntry   `json:"chapters"`
	Warnings      []string     `json:"warnings"`
	Errors        []string     `json:"errors"`
	FormatVersion int          `json:"identification_format_version"`
	raw           []byte
}

// Container describes the file as a whole.
type Container struct {
	Recognized bool                `json:"recognized"`
	Supported  bool                `json:"supported"`
	Type       string              `json:"type"`
	Properties ContainerProperties `json:"properties"`
}

// ContainerProperties holds the container metadata the muxer cares about.
type ContainerProperties struct {
	Title              string `json:"title"`
	Duration           int64  `json:"duration"`
	MuxingApplication  string `json:"muxing_application"`
	WritingApplication string `json:"writing_application"`
	SegmentUID         string `json:"segment_uid"`
}

// Track describes a single elementary stream.
type Track struct {
	ID         int             `json:"id"`
	Type       string          `json:"type"`
	Codec      string          `json:"codec"`
	StartPTS   int64           `json:"start_pts"`
	Properties TrackProperties `json:"properties"`
}

// TrackProperties mirrors the per-track "properties" object.
type TrackProperties struct {
	TrackName           string `json:"track_name"`
	Language            string `json:"language"`
	LanguageIETF        string `json:"language_ietf"`
	CodecID             string `json:"codec_id"`
	DefaultTrack        bool   `json:"default_track"`
	ForcedTrack         bool   `json:"forced_track"`
	EnabledTrack        bool   `json:"enabled_track"`
	FlagCommentary      bool   `json:"flag_commentary"`
	FlagHearingImpaired bool   `json:"flag_hearing_impaired"`
	FlagVisualImpaired  bool   `json:"flag_visual_impaired"`
	FlagOriginal        bool   `json:"flag_original"`
	PixelDimensions     string `json:"pixel_dimensions"`
	AudioChannels       int    `json:"audio_channels"`
	AudioSamplingFreq   int    `json:"audio_sampling_frequency"`
	Number              int    `json:"number"`
}

// TagEntry is a tag or chapter count, optionally tied to a track.
type TagEntry struct {
	NumEntries int  `json:"num_entries"`
	TrackID    *int `json:"track_id,omitempty"`
}

// Attachment describes an embedded file.
type Attachment struct {
	ID          int    `json:"id"`
	FileName    string `json:"file_name"`
	ContentType string `json:"content_type"`
	Description string `json:"description"`
	Size        int64  `json:"size"`
	Properties  struct {
		UID uint64 `json:"uid"`
	} `json:"properties"`
}

// Decode parses an mkvmerge -J payload.
func Decode(data []byte) (Info, error) {
	var info Info
	if err := json.Unmarshal(data, &info); err != nil {
		return Info{}, services.Wrap(services.ErrExternalTool, "identify", "parse", "invalid mkvmerge JSON", err)
	}
	info.raw = append([]byte(nil), data...)
	return info, nil
}

// RawJSON returns the raw identification payload.
func (i Info) RawJSON() []byte {
	return append([]byte(nil), i.raw...)
}

// IsMatroska reports whether the container is a Matroska or WebM file.
func (i Info) IsMatroska() bool {
	return strings.EqualFold(i.Container.Type, "Matroska") || strings.EqualFold(i.Container.Type, "WebM")
}

// Title returns the container title, if any.
func (i Info) Title() string {
	return i.Container.Properties.Title
}

// Duration returns the container duration, or 0 when unavailable.
func (i Info) Duration() time.Duration {
	if i.Container.Properties.Duration <= 0 {
		return 0
	}
	return time.Duration(i.Container.Properties.Duration)
}

// Track returns the track with the given id.
func (i Info) Track(id int) (Track, bool) {
	for _, t := range i.Tracks {
		if t.ID == id {
			return t, true
		}
	}
	return Track{}, false
}

// TrackCount returns the number of tracks of the given kind.
func (i Info) TrackCount(kind string) int {
	count := 0
	for _, t := range i.Tracks {
		if strings.EqualFold(t.Type, kind) {
			count++
		}
	}
	return count
}

// GlobalTagEntries sums the global tag entries.
func (i Info) GlobalTagEntries() int {
	total := 0
	for _, entry := range i.GlobalTags {
		total += entry.NumEntries
	}
	return total
}

// TrackTagEntries returns the tag entry count for one track.
func (i Info) TrackTagEntries(trackID int) int {
	total := 0
	for _, entry := range i.TrackTags {
		if entry.TrackID != nil && *entry.TrackID == trackID {
			total += entry.NumEntries
		}
	}
	return total
}

// ChapterEntries sums the chapter entries across editions.
func (i Info) ChapterEntries() int {
	total := 0
	for _, entry := range i.Chapters {
		total += entry.NumEntries
	}
	return total
}

// AttachmentIDs lists attachment ids in reported order.
func (i Info) AttachmentIDs() []int {
	if len(i.Attachments) == 0 {
		return nil
	}
	ids := make([]int, 0, len(i.Attachments))
	for _, a := range i.Attachments {
		ids = append(ids, a.ID)
	}
	return ids
}
