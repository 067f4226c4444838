package mkv

import (
	"path/filepath"

	"mkvmux/internal/fileutil"
	"mkvmux/internal/media/identify"
	"mkvmux/internal/services"
)

// Attachment is a file embedded in the output. Attachments discovered by
// identifying an existing container carry the id they have in that source.
type Attachment struct {
	Name        string
	Description string
	// AttachOnce restricts the attachment to the first split part.
	AttachOnce bool

	path     string
	mimeType string

	sourceID   int
	hasSource  bool
	sourceFile string
	fileName   string
	size       int64
}

// NewAttachment adds a new file to embed. The path must exist; the MIME type
// is guessed from its extension.
func NewAttachment(path string) (*Attachment, error) {
	a := &Attachment{}
	if err := a.SetPath(path); err != nil {
		return nil, err
	}
	return a, nil
}

// attachmentFromInfo describes an attachment already stored in source.
func attachmentFromInfo(source string, info identify.Attachment) *Attachment {
	return &Attachment{
		Name:        info.FileName,
		Description: info.Description,
		path:        source,
		mimeType:    info.ContentType,
		sourceID:    info.ID,
		hasSource:   true,
		sourceFile:  source,
		fileName:    info.FileName,
		size:        info.Size,
	}
}

// Path is the file to attach, or the source container for existing attachments.
func (a *Attachment) Path() string { return a.path }

// MIMEType is the guessed or reported content type.
func (a *Attachment) MIMEType() string { return a.mimeType }

// SetMIMEType overrides the guessed type.
func (a *Attachment) SetMIMEType(mimeType string) { a.mimeType = mimeType }

// SetPath replaces the file to attach and re-guesses its MIME type. This turns
// an existing attachment into a new one.
func (a *Attachment) SetPath(path string) error {
	checked, err := fileutil.CheckFile(path)
	if err != nil {
		return err
	}
	a.path = checked
	a.mimeType = fileutil.GuessMIME(checked)
	a.hasSource = false
	a.sourceID = 0
	a.sourceFile = ""
	if a.fileName == "" {
		a.fileName = filepath.Base(checked)
	}
	return nil
}

// Source returns the container and attachment id this attachment was read
// from. ok is false for newly added files.
func (a *Attachment) Source() (file string, id int, ok bool) {
	return a.sourceFile, a.sourceID, a.hasSource
}

// FileName is the stored name inside the source container, or the base name
// of a new file.
func (a *Attachment) FileName() string { return a.fileName }

// Size is the stored size reported at identification.
func (a *Attachment) Size() int64 { return a.size }

func validateAttachment(a *Attachment) error {
	if a == nil {
		return services.TypeErrorf("attachments", "nil attachment")
	}
	if a.path == "" {
		return services.Invalidf("attachments", "attachment has no path")
	}
	return nil
}
