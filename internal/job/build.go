package job

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"mkvmux/internal/language"
	"mkvmux/internal/mkv"
	"mkvmux/internal/services"
	"mkvmux/internal/split"
)

// Defaults fill job fields the file leaves unset.
type Defaults struct {
	ChapterLanguage            string
	DisableTrackStatisticsTags bool
}

// Build identifies every input through insp and assembles the container.
func (s *Spec) Build(ctx context.Context, insp mkv.Inspector, defaults Defaults) (*mkv.File, error) {
	if len(s.Inputs) == 0 && len(s.Attachments) == 0 {
		return nil, services.Invalidf("job", "job has no inputs")
	}
	f := mkv.New()
	f.Title = s.Title
	f.DisableTrackStatistics = defaults.DisableTrackStatisticsTags
	if s.DisableTrackStatisticsTags != nil {
		f.DisableTrackStatistics = *s.DisableTrackStatisticsTags
	}

	for i, in := range s.Inputs {
		src, err := s.openInput(ctx, insp, in)
		if err != nil {
			return nil, inputError(i, err)
		}
		if f.Title == "" {
			f.Title = src.Title
		}
		if err := f.Merge(src); err != nil {
			return nil, inputError(i, err)
		}
	}

	for i, a := range s.Attachments {
		att, err := mkv.NewAttachment(s.Resolve(a.Path))
		if err != nil {
			return nil, services.Wrap(services.ErrValidation, "job", fmt.Sprintf("attachments[%d]", i), "", err)
		}
		att.Name = a.Name
		att.Description = a.Description
		att.AttachOnce = a.Once
		if a.MIMEType != "" {
			att.SetMIMEType(a.MIMEType)
		}
		if err := f.AddAttachment(att); err != nil {
			return nil, err
		}
	}

	if err := s.applyContainer(f, defaults); err != nil {
		return nil, err
	}
	return f, nil
}

func inputError(i int, err error) error {
	return fmt.Errorf("inputs[%d]: %w", i, err)
}

func (s *Spec) openInput(ctx context.Context, insp mkv.Inspector, in Input) (*mkv.File, error) {
	src, err := mkv.Open(ctx, insp, s.Resolve(in.Path))
	if err != nil {
		return nil, err
	}

	if len(in.Tracks) > 0 {
		for _, id := range in.Tracks {
			if !slices.ContainsFunc(src.Tracks(), func(t *mkv.Track) bool { return t.TrackID() == id }) {
				return nil, services.Wrap(services.ErrOutOfRange, "job", "tracks", fmt.Sprintf("no track %d in %s", id, in.Path), nil)
			}
		}
		for i := src.TrackCount() - 1; i >= 0; i-- {
			t, _ := src.Track(i)
			if !slices.Contains(in.Tracks, t.TrackID()) {
				if err := src.RemoveTrack(i); err != nil {
					return nil, err
				}
			}
		}
	}

	if in.Attachments != nil {
		atts := src.Attachments()
		for i := len(atts) - 1; i >= 0; i-- {
			if _, id, _ := atts[i].Source(); !slices.Contains(in.Attachments, id) {
				if err := src.RemoveAttachment(i); err != nil {
					return nil, err
				}
			}
		}
	}

	for _, o := range in.Overrides {
		track := findTrack(src, o.ID)
		if track == nil {
			return nil, services.Wrap(services.ErrOutOfRange, "job", "track override", fmt.Sprintf("no track %d in %s", o.ID, in.Path), nil)
		}
		if err := s.applyOverride(track, o); err != nil {
			return nil, err
		}
	}

	if in.NoChapters {
		src.NoChapters()
	}
	if in.NoGlobalTags {
		src.NoGlobalTags()
	}
	if in.NoTrackTags {
		src.NoTrackTags()
	}
	if in.NoAttachments {
		src.NoAttachments()
	}
	return src, nil
}

func findTrack(f *mkv.File, id int) *mkv.Track {
	for _, t := range f.Tracks() {
		if t.TrackID() == id {
			return t
		}
	}
	return nil
}

func (s *Spec) applyOverride(t *mkv.Track, o TrackOverride) error {
	if o.Name != nil {
		t.Name = *o.Name
	}
	if o.Language != "" {
		if err := t.SetLanguage(language.Canonical(o.Language)); err != nil {
			return err
		}
	}
	if o.LanguageIETF != "" {
		if err := t.SetLanguageIETF(o.LanguageIETF); err != nil {
			return err
		}
	}
	setFlag(&t.Flags.Default, o.Default)
	setFlag(&t.Flags.Forced, o.Forced)
	setFlag(&t.Flags.HearingImpaired, o.HearingImpaired)
	setFlag(&t.Flags.VisualImpaired, o.VisualImpaired)
	setFlag(&t.Flags.Original, o.Original)
	setFlag(&t.Flags.Commentary, o.Commentary)
	if o.Sync != nil {
		t.SetSync(*o.Sync)
	}
	if o.Tags != "" {
		if err := t.SetTags(s.Resolve(o.Tags)); err != nil {
			return err
		}
	}
	if o.Timestamps != "" {
		if err := t.SetTimestamps(s.Resolve(o.Timestamps)); err != nil {
			return err
		}
	}
	switch strings.ToLower(strings.TrimSpace(o.Compression)) {
	case "":
	case "none":
		t.Compression = mkv.CompressionNone
	case "zlib":
		t.Compression = mkv.CompressionZlib
	default:
		return services.Invalidf("job", "compression %q must be none or zlib", o.Compression)
	}
	return nil
}

func setFlag(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func (s *Spec) applyContainer(f *mkv.File, defaults Defaults) error {
	if s.GlobalTags != "" {
		if err := f.SetGlobalTags(s.Resolve(s.GlobalTags)); err != nil {
			return err
		}
	}

	chapterLang := language.Canonical(s.Chapters.Language)
	hasChapters := s.Chapters.File != "" || len(s.Chapters.Entries) > 0
	if chapterLang == "" && hasChapters {
		chapterLang = defaults.ChapterLanguage
	}
	switch {
	case s.Chapters.File != "" && len(s.Chapters.Entries) > 0:
		return services.Invalidf("job", "chapters: use either file or entry, not both")
	case s.Chapters.File != "":
		if err := f.SetChaptersFile(s.Resolve(s.Chapters.File), chapterLang); err != nil {
			return err
		}
	default:
		for i, e := range s.Chapters.Entries {
			lang := language.Canonical(e.Language)
			if lang == "" {
				lang = chapterLang
			}
			if err := f.AddChapter(e.Start, e.Title, lang); err != nil {
				return services.Wrap(services.ErrValidation, "job", fmt.Sprintf("chapters.entry[%d]", i), "", err)
			}
		}
		if chapterLang != "" {
			if err := f.SetChapterLanguage(chapterLang); err != nil {
				return err
			}
		}
	}

	if s.Link.Previous != "" {
		if err := f.LinkToPrevious(s.Resolve(s.Link.Previous)); err != nil {
			return err
		}
	}
	if s.Link.Next != "" {
		if err := f.LinkToNext(s.Resolve(s.Link.Next)); err != nil {
			return err
		}
	}

	spec, err := s.Split.Spec()
	if err != nil {
		return err
	}
	f.SetSplit(spec)
	return nil
}

// Spec validates the split section.
func (sp Split) Spec() (split.Spec, error) {
	mode, ok := split.ParseMode(sp.Mode)
	if !ok {
		return split.Spec{}, services.Invalidf("job", "unknown split mode %q", sp.Mode)
	}
	var (
		spec split.Spec
		err  error
	)
	switch mode {
	case split.ModeNone:
		return split.None(), nil
	case split.ModeSize:
		var size split.Size
		if size, err = split.ParseSize(sp.Size); err == nil {
			spec, err = split.BySize(size)
		}
	case split.ModeDuration:
		spec, err = split.ByDuration(sp.Duration)
	case split.ModeTimestamps:
		spec, err = split.ByTimestamps(sp.Timestamps)
	case split.ModeFrames:
		spec, err = split.ByFrames(sp.Frames)
	case split.ModeChapters:
		if len(sp.Chapters) == 0 {
			spec, err = split.ByChapters()
		} else {
			spec, err = split.ByChapters(sp.Chapters)
		}
	case split.ModeTimestampParts:
		spec, err = split.ByTimestampParts(openBoundaries(sp.Parts)...)
	case split.ModeFrameParts:
		spec, err = split.ByFrameParts(openBoundaries(sp.Parts)...)
	}
	if err != nil {
		return split.Spec{}, err
	}
	return spec.WithLink(sp.Link), nil
}

// openBoundaries maps "" to nil so TOML can express open-ended parts.
func openBoundaries(sets [][]any) []any {
	out := make([]any, len(sets))
	for i, set := range sets {
		conv := make([]any, len(set))
		for j, v := range set {
			if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
				conv[j] = nil
				continue
			}
			conv[j] = v
		}
		out[i] = conv
	}
	return out
}
