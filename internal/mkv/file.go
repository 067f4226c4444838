package mkv

import (
	"fmt"
	"slices"

	"mkvmux/internal/chapters"
	"mkvmux/internal/fileutil"
	"mkvmux/internal/language"
	"mkvmux/internal/services"
	"mkvmux/internal/split"
)

// File is the output container being described.
type File struct {
	Title string
	// DisableTrackStatistics stops mkvmerge from writing statistics tags.
	DisableTrackStatistics bool

	tracks      []*Track
	attachments []*Attachment

	chaptersFile    string
	chapterTree     *chapters.Chapters
	chapterLanguage string
	globalTags      string
	linkPrevious    string
	linkNext        string
	split           split.Spec

	// sources records the attachment ids each identified source container
	// holds, keyed by its expanded path.
	sources          map[string][]int
	globalTagEntries int
}

// New returns an empty File.
func New() *File {
	return &File{sources: make(map[string][]int)}
}

// Tracks returns the tracks in multiplexing order. The slice is a copy; the
// tracks are shared.
func (f *File) Tracks() []*Track {
	return slices.Clone(f.tracks)
}

// TrackCount returns the number of tracks.
func (f *File) TrackCount() int { return len(f.tracks) }

// Track returns the track at index.
func (f *File) Track(index int) (*Track, error) {
	if err := f.checkIndex("get track", index); err != nil {
		return nil, err
	}
	return f.tracks[index], nil
}

// AddTrack appends a track and reassigns file ids.
func (f *File) AddTrack(t *Track) error {
	if t == nil {
		return services.TypeErrorf("tracks", "nil track")
	}
	f.tracks = append(f.tracks, t)
	return f.AssignFileIDs()
}

// Merge appends copies of every track of other, its attachments, and its
// source attachment inventory. other keeps its own tracks and file ids.
func (f *File) Merge(other *File) error {
	if other == nil {
		return services.TypeErrorf("tracks", "nil file")
	}
	for _, t := range other.tracks {
		f.tracks = append(f.tracks, t.Clone())
	}
	f.attachments = append(f.attachments, other.attachments...)
	for path, ids := range other.sources {
		f.recordSource(path, ids)
	}
	f.globalTagEntries += other.globalTagEntries
	return f.AssignFileIDs()
}

// RemoveTrack deletes the track at index.
func (f *File) RemoveTrack(index int) error {
	if err := f.checkIndex("remove track", index); err != nil {
		return err
	}
	f.tracks[index].clearFileID()
	f.tracks = slices.Delete(f.tracks, index, index+1)
	return f.AssignFileIDs()
}

// ReplaceTrack swaps in t at index.
func (f *File) ReplaceTrack(index int, t *Track) error {
	if t == nil {
		return services.TypeErrorf("tracks", "nil track")
	}
	if err := f.checkIndex("replace track", index); err != nil {
		return err
	}
	f.tracks[index].clearFileID()
	f.tracks[index] = t
	return f.AssignFileIDs()
}

// MoveTrackFront moves the track at index to the first position.
func (f *File) MoveTrackFront(index int) error {
	if err := f.checkIndex("move track front", index); err != nil {
		return err
	}
	t := f.tracks[index]
	f.tracks = slices.Insert(slices.Delete(f.tracks, index, index+1), 0, t)
	return f.AssignFileIDs()
}

// MoveTrackEnd moves the track at index to the last position.
func (f *File) MoveTrackEnd(index int) error {
	if err := f.checkIndex("move track end", index); err != nil {
		return err
	}
	t := f.tracks[index]
	f.tracks = append(slices.Delete(f.tracks, index, index+1), t)
	return f.AssignFileIDs()
}

// MoveTrackForward swaps the track at index with the one after it.
func (f *File) MoveTrackForward(index int) error {
	if index < 0 || index >= len(f.tracks)-1 {
		return outOfRange("move track forward", index, len(f.tracks))
	}
	return f.SwapTracks(index, index+1)
}

// MoveTrackBackward swaps the track at index with the one before it.
func (f *File) MoveTrackBackward(index int) error {
	if index <= 0 || index >= len(f.tracks) {
		return outOfRange("move track backward", index, len(f.tracks))
	}
	return f.SwapTracks(index, index-1)
}

// SwapTracks exchanges two tracks.
func (f *File) SwapTracks(a, b int) error {
	if err := f.checkIndex("swap tracks", a); err != nil {
		return err
	}
	if err := f.checkIndex("swap tracks", b); err != nil {
		return err
	}
	f.tracks[a], f.tracks[b] = f.tracks[b], f.tracks[a]
	return f.AssignFileIDs()
}

// AssignFileIDs numbers distinct source paths in first-seen order and gives
// every track the id of its path. It is idempotent.
func (f *File) AssignFileIDs() error {
	ids := make(map[string]int)
	for _, t := range f.tracks {
		if t == nil {
			return services.Invalidf("tracks", "track list holds a nil track")
		}
		if _, ok := ids[t.path]; !ok {
			ids[t.path] = len(ids)
		}
	}
	for _, t := range f.tracks {
		id, ok := ids[t.path]
		if !ok {
			return services.Invalidf("tracks", "no file id for %s", t.path)
		}
		t.setFileID(id)
	}
	return nil
}

// SourcePaths lists distinct track sources in first-seen order.
func (f *File) SourcePaths() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, t := range f.tracks {
		if _, ok := seen[t.path]; ok {
			continue
		}
		seen[t.path] = struct{}{}
		out = append(out, t.path)
	}
	return out
}

func (f *File) checkIndex(op string, index int) error {
	if index < 0 || index >= len(f.tracks) {
		return outOfRange(op, index, len(f.tracks))
	}
	return nil
}

func outOfRange(op string, index, length int) error {
	return services.Wrap(services.ErrOutOfRange, "tracks", op, fmt.Sprintf("index %d not in [0,%d)", index, length), nil)
}

// Attachments returns the attachments in order.
func (f *File) Attachments() []*Attachment {
	return slices.Clone(f.attachments)
}

// Attachment returns the attachment at index.
func (f *File) Attachment(index int) (*Attachment, error) {
	if index < 0 || index >= len(f.attachments) {
		return nil, services.Wrap(services.ErrOutOfRange, "attachments", "get", fmt.Sprintf("index %d", index), nil)
	}
	return f.attachments[index], nil
}

// AddAttachment appends a new or existing attachment.
func (f *File) AddAttachment(a *Attachment) error {
	if err := validateAttachment(a); err != nil {
		return err
	}
	f.attachments = append(f.attachments, a)
	return nil
}

// RemoveAttachment drops the attachment at index. Removing an attachment read
// from a source excludes it from the output.
func (f *File) RemoveAttachment(index int) error {
	if index < 0 || index >= len(f.attachments) {
		return services.Wrap(services.ErrOutOfRange, "attachments", "remove", fmt.Sprintf("index %d", index), nil)
	}
	f.attachments = slices.Delete(f.attachments, index, index+1)
	return nil
}

// RemoveAttachments drops every attachment.
func (f *File) RemoveAttachments() {
	f.attachments = nil
}

// SourceAttachmentIDs returns the attachment ids identification found in the
// container at path.
func (f *File) SourceAttachmentIDs(path string) []int {
	return slices.Clone(f.sources[path])
}

func (f *File) recordSource(path string, ids []int) {
	if f.sources == nil {
		f.sources = make(map[string][]int)
	}
	f.sources[path] = slices.Clone(ids)
}

// GlobalTagEntries is the number of global tag entries found in identified
// sources.
func (f *File) GlobalTagEntries() int { return f.globalTagEntries }

// ChaptersFile is the chapter file passed to --chapters.
func (f *File) ChaptersFile() string { return f.chaptersFile }

// ChapterTree is the in-memory chapter document, if one was built.
func (f *File) ChapterTree() *chapters.Chapters { return f.chapterTree }

// ChapterLanguage is applied to chapters lacking language information.
func (f *File) ChapterLanguage() string { return f.chapterLanguage }

// SetChaptersFile uses an existing chapter file, replacing any in-memory
// chapters. lang may be empty.
func (f *File) SetChaptersFile(path, lang string) error {
	checked, err := fileutil.CheckFile(path)
	if err != nil {
		return err
	}
	if err := f.SetChapterLanguage(lang); err != nil {
		return err
	}
	f.chaptersFile = checked
	f.chapterTree = nil
	return nil
}

// SetChapterLanguage validates lang as ISO 639-2. Empty clears it.
func (f *File) SetChapterLanguage(lang string) error {
	if lang != "" {
		if err := language.ValidateISO6392(lang); err != nil {
			return err
		}
	}
	f.chapterLanguage = lang
	return nil
}

// SetChapters uses an in-memory chapter document, replacing any chapter file.
// A nil tree removes chapters.
func (f *File) SetChapters(tree *chapters.Chapters) {
	f.chapterTree = tree
	f.chaptersFile = ""
}

// AddChapter appends a simple chapter to the in-memory document.
func (f *File) AddChapter(start any, title, lang string) error {
	tree := f.chapterTree
	if tree == nil {
		tree = &chapters.Chapters{}
	}
	if err := tree.AddSimple(start, title, lang); err != nil {
		return err
	}
	f.SetChapters(tree)
	return nil
}

// GlobalTags is the global tags file.
func (f *File) GlobalTags() string { return f.globalTags }

// SetGlobalTags uses path as the global tags file. Empty clears it.
func (f *File) SetGlobalTags(path string) error {
	if path == "" {
		f.globalTags = ""
		return nil
	}
	checked, err := fileutil.CheckFile(path)
	if err != nil {
		return err
	}
	f.globalTags = checked
	return nil
}

// TrackTags keeps or drops tags from specific tracks, addressed by index.
// With exclusive set the listed tracks lose their tags; otherwise every other
// track does.
func (f *File) TrackTags(exclusive bool, indexes ...any) error {
	flat := split.Flatten(indexes...)
	if len(flat) == 0 {
		return services.Invalidf("tracks", "no track indexes given")
	}
	listed := make(map[int]bool, len(flat))
	for _, v := range flat {
		n, ok := v.(int)
		if !ok {
			return services.TypeErrorf("tracks", "track index %v (%T) is not an int", v, v)
		}
		if err := f.checkIndex("track tags", n); err != nil {
			return err
		}
		listed[n] = true
	}
	for i, t := range f.tracks {
		if listed[i] == exclusive {
			t.Exclusions.NoTrackTags = true
		}
	}
	return nil
}

// NoChapters drops chapters from every track source.
func (f *File) NoChapters() {
	for _, t := range f.tracks {
		t.Exclusions.NoChapters = true
	}
}

// NoGlobalTags drops global tags from every track source.
func (f *File) NoGlobalTags() {
	for _, t := range f.tracks {
		t.Exclusions.NoGlobalTags = true
	}
}

// NoTrackTags drops track tags from every track.
func (f *File) NoTrackTags() {
	for _, t := range f.tracks {
		t.Exclusions.NoTrackTags = true
	}
}

// NoAttachments drops attachments from every track source.
func (f *File) NoAttachments() {
	for _, t := range f.tracks {
		t.Exclusions.NoAttachments = true
	}
}

// LinkPrevious is the file the output follows.
func (f *File) LinkPrevious() string { return f.linkPrevious }

// LinkNext is the file the output precedes.
func (f *File) LinkNext() string { return f.linkNext }

// LinkToPrevious links the output as the successor of path.
func (f *File) LinkToPrevious(path string) error {
	checked, err := fileutil.CheckFile(path)
	if err != nil {
		return err
	}
	f.linkPrevious = checked
	return nil
}

// LinkToNext links the output as the predecessor of path.
func (f *File) LinkToNext(path string) error {
	checked, err := fileutil.CheckFile(path)
	if err != nil {
		return err
	}
	f.linkNext = checked
	return nil
}

// LinkToNone removes both links.
func (f *File) LinkToNone() {
	f.linkPrevious = ""
	f.linkNext = ""
}

// Split returns the active split strategy.
func (f *File) Split() split.Spec { return f.split }

// SetSplit replaces the split strategy wholesale.
func (f *File) SetSplit(spec split.Spec) { f.split = spec }

// SplitNone disables splitting.
func (f *File) SplitNone() { f.split = split.None() }
