package mkv

import (
	"context"

	"mkvmux/internal/fileutil"
	"mkvmux/internal/media/identify"
	"mkvmux/internal/services"
)

// Inspector identifies a media file.
type Inspector interface {
	Identify(ctx context.Context, path string) (identify.Info, error)
}

// Open identifies path and returns a File holding every track and attachment
// it contains, with the container title carried over.
func Open(ctx context.Context, inspector Inspector, path string) (*File, error) {
	checked, info, err := identifySupported(ctx, inspector, path)
	if err != nil {
		return nil, err
	}
	f := FromInfo(checked, info)
	if err := f.AssignFileIDs(); err != nil {
		return nil, err
	}
	return f, nil
}

// FromInfo builds a File from an identification that has already been run.
func FromInfo(path string, info identify.Info) *File {
	f := New()
	f.Title = info.Title()
	f.globalTagEntries = info.GlobalTagEntries()
	for _, src := range info.Tracks {
		t, err := trackFromSource(path, info, src)
		if err != nil {
			continue
		}
		f.tracks = append(f.tracks, t)
	}
	for _, a := range info.Attachments {
		f.attachments = append(f.attachments, attachmentFromInfo(path, a))
	}
	f.recordSource(path, info.AttachmentIDs())
	_ = f.AssignFileIDs()
	return f
}

// AddFile identifies path and merges its tracks and attachments.
func (f *File) AddFile(ctx context.Context, inspector Inspector, path string) error {
	other, err := Open(ctx, inspector, path)
	if err != nil {
		return err
	}
	return f.Merge(other)
}

// LoadTrack identifies path and returns the single track with trackID.
func LoadTrack(ctx context.Context, inspector Inspector, path string, trackID int) (*Track, error) {
	checked, info, err := identifySupported(ctx, inspector, path)
	if err != nil {
		return nil, err
	}
	return TrackFromInfo(checked, info, trackID)
}

func identifySupported(ctx context.Context, inspector Inspector, path string) (string, identify.Info, error) {
	if inspector == nil {
		return "", identify.Info{}, services.Wrap(services.ErrConfiguration, "mkv", "identify", "no inspector configured", nil)
	}
	checked, err := fileutil.CheckFile(path)
	if err != nil {
		return "", identify.Info{}, err
	}
	info, err := inspector.Identify(ctx, checked)
	if err != nil {
		return "", identify.Info{}, err
	}
	if !info.Container.Recognized || !info.Container.Supported {
		return "", identify.Info{}, services.Invalidf("mkv", "%s is not a recognized and supported container", checked)
	}
	return checked, info, nil
}
