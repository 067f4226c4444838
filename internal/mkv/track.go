package mkv

import (
	"fmt"
	"path/filepath"
	"strings"

	"mkvmux/internal/fileutil"
	"mkvmux/internal/language"
	"mkvmux/internal/media/identify"
	"mkvmux/internal/services"
)

// Compression selects the --compression value for a track.
type Compression int

const (
	// CompressionUnset leaves mkvmerge's default in place.
	CompressionUnset Compression = iota
	CompressionNone
	CompressionZlib
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionZlib:
		return "zlib"
	default:
		return ""
	}
}

// Flags are the per-track boolean properties. They are always written, so a
// false value actively clears a flag set in the source.
type Flags struct {
	Default         bool
	Forced          bool
	HearingImpaired bool
	VisualImpaired  bool
	Original        bool
	Commentary      bool
}

// Exclusions suppress data the source file would otherwise contribute.
type Exclusions struct {
	NoChapters    bool
	NoGlobalTags  bool
	NoTrackTags   bool
	NoAttachments bool
}

// Track is one elementary stream taken from a source file.
type Track struct {
	Name        string
	Flags       Flags
	Exclusions  Exclusions
	Compression Compression

	path       string
	trackID    int
	fileID     int
	hasFileID  bool
	codec      string
	kind       Kind
	startPTS   int64
	tagEntries int

	lang       language.Pair
	sync       int
	hasSync    bool
	tags       string
	timestamps string
}

// NewTrack builds a track without inspecting its source. Callers that know the
// stream layout (tests, job files with explicit kinds) use this; everything
// else should prefer TrackFromInfo or LoadTrack.
func NewTrack(path string, trackID int, kind Kind, codec string) (*Track, error) {
	if strings.TrimSpace(path) == "" {
		return nil, services.Invalidf("track", "empty source path")
	}
	if trackID < 0 {
		return nil, services.Wrap(services.ErrOutOfRange, "track", "", fmt.Sprintf("track id %d", trackID), nil)
	}
	return &Track{
		path:    fileutil.ExpandPath(path),
		trackID: trackID,
		kind:    kind,
		codec:   codec,
	}, nil
}

// TrackFromInfo builds the track with the given id from an identification of
// path, copying its name, languages, flags, and start PTS.
func TrackFromInfo(path string, info identify.Info, trackID int) (*Track, error) {
	if trackID < 0 || trackID >= len(info.Tracks) {
		return nil, services.Wrap(services.ErrOutOfRange, "track", "", fmt.Sprintf("track index %d out of range (%d tracks)", trackID, len(info.Tracks)), nil)
	}
	src, ok := info.Track(trackID)
	if !ok {
		src = info.Tracks[trackID]
	}
	return trackFromSource(path, info, src)
}

func trackFromSource(path string, info identify.Info, src identify.Track) (*Track, error) {
	t, err := NewTrack(path, src.ID, ParseKind(src.Type), src.Codec)
	if err != nil {
		return nil, err
	}
	p := src.Properties
	t.Name = p.TrackName
	t.startPTS = src.StartPTS
	t.lang = language.NewPair(p.Language, p.LanguageIETF)
	t.Flags = Flags{
		Default:         p.DefaultTrack,
		Forced:          p.ForcedTrack,
		HearingImpaired: p.FlagHearingImpaired,
		VisualImpaired:  p.FlagVisualImpaired,
		Original:        p.FlagOriginal,
		Commentary:      p.FlagCommentary,
	}
	t.tagEntries = info.TrackTagEntries(src.ID)
	return t, nil
}

func (t *Track) Path() string  { return t.path }
func (t *Track) TrackID() int  { return t.trackID }
func (t *Track) Kind() Kind    { return t.kind }
func (t *Track) Codec() string { return t.codec }

// StartPTS is the presentation timestamp of the first frame, in nanoseconds,
// as reported by identification.
func (t *Track) StartPTS() int64 { return t.startPTS }

// TagEntries is the number of track tag entries found at identification.
func (t *Track) TagEntries() int { return t.tagEntries }

// FileID returns the assigned file id; ok is false until the track belongs to
// a File.
func (t *Track) FileID() (id int, ok bool) { return t.fileID, t.hasFileID }

func (t *Track) setFileID(id int) {
	t.fileID = id
	t.hasFileID = true
}

func (t *Track) clearFileID() {
	t.fileID = 0
	t.hasFileID = false
}

// Language is the legacy ISO 639-2 code.
func (t *Track) Language() string { return t.lang.Legacy() }

// LanguageIETF is the BCP-47 tag.
func (t *Track) LanguageIETF() string { return t.lang.IETF() }

// EffectiveLanguage prefers the IETF tag over the legacy code.
func (t *Track) EffectiveLanguage() string { return t.lang.Effective() }

// SetLanguage sets the ISO 639-2 code and clears the IETF tag.
func (t *Track) SetLanguage(code string) error {
	return t.lang.SetLegacy(code)
}

// SetLanguageIETF sets the BCP-47 tag and clears the legacy code.
func (t *Track) SetLanguageIETF(tag string) error {
	return t.lang.SetIETF(tag)
}

// Sync returns the track delay in milliseconds.
func (t *Track) Sync() (ms int, ok bool) { return t.sync, t.hasSync }

// SetSync delays (positive) or advances (negative) the track.
func (t *Track) SetSync(ms int) {
	t.sync = ms
	t.hasSync = true
}

func (t *Track) ClearSync() {
	t.sync = 0
	t.hasSync = false
}

// Tags is the external tags file applied to this track.
func (t *Track) Tags() string { return t.tags }

// SetTags points the track at a tags XML file, which must exist. An empty
// path clears it.
func (t *Track) SetTags(path string) error {
	if path == "" {
		t.tags = ""
		return nil
	}
	checked, err := fileutil.CheckFile(path)
	if err != nil {
		return err
	}
	t.tags = checked
	return nil
}

// Timestamps is the external timestamps file applied to this track.
func (t *Track) Timestamps() string { return t.timestamps }

// SetTimestamps points the track at a timestamps file, which must exist. An
// empty path clears it.
func (t *Track) SetTimestamps(path string) error {
	if path == "" {
		t.timestamps = ""
		return nil
	}
	checked, err := fileutil.CheckFile(path)
	if err != nil {
		return err
	}
	t.timestamps = checked
	return nil
}

// Extension is the file extension used when extracting this track.
func (t *Track) Extension() string {
	return ExtensionFor(t.kind, t.codec)
}

// ExtractName builds the mkvextract output file name
// "<source>_[<id>]_<lang>.<ext>". When neither a language nor an extension is
// known the track name is appended instead.
func (t *Track) ExtractName() string {
	var b strings.Builder
	b.WriteString(filepath.Base(t.path))
	fmt.Fprintf(&b, "_[%d]", t.trackID)
	lang := t.EffectiveLanguage()
	if lang != "" {
		b.WriteString("_" + lang)
	}
	ext := t.Extension()
	if ext != "" {
		b.WriteString("." + ext)
	}
	if lang == "" && ext == "" && t.Name != "" {
		b.WriteString("_" + fileutil.SanitizeFileName(t.Name))
	}
	return b.String()
}

// Clone returns an independent copy without a file id.
func (t *Track) Clone() *Track {
	c := *t
	c.clearFileID()
	return &c
}
