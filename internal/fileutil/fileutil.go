package fileutil

import (
	"errors"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"mkvmux/internal/services"
)

// Fallback types for extensions commonly attached to Matroska files that the
// system MIME database often lacks.
var attachmentTypes = map[string]string{
	".ttf":   "font/ttf",
	".otf":   "font/otf",
	".ttc":   "font/collection",
	".woff":  "font/woff",
	".woff2": "font/woff2",
	".jpg":   "image/jpeg",
	".jpeg":  "image/jpeg",
	".png":   "image/png",
	".webp":  "image/webp",
	".txt":   "text/plain",
	".nfo":   "text/plain",
	".xml":   "application/xml",
}

// ExpandPath resolves a leading "~" against the user's home directory and
// cleans the result. Empty input is returned unchanged.
func ExpandPath(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return filepath.Clean(path)
}

// CheckFile expands path and confirms it names an existing regular file.
func CheckFile(path string) (string, error) {
	expanded := ExpandPath(path)
	if expanded == "" {
		return "", services.Wrap(services.ErrValidation, "fileutil", "check file", "empty path", nil)
	}
	info, err := os.Stat(expanded)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", services.Wrap(services.ErrNotFound, "fileutil", "check file", expanded+" does not exist", nil)
		}
		return "", services.Wrap(services.ErrValidation, "fileutil", "check file", expanded, err)
	}
	if !info.Mode().IsRegular() {
		return "", services.Wrap(services.ErrNotFound, "fileutil", "check file", expanded+" is not a file", nil)
	}
	return expanded, nil
}

// GuessMIME returns the MIME type for path based on its extension, or "" when
// unknown. Parameters such as "; charset=utf-8" are stripped.
func GuessMIME(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return ""
	}
	if t, ok := attachmentTypes[ext]; ok {
		return t
	}
	t := mime.TypeByExtension(ext)
	if t == "" {
		return ""
	}
	if base, _, err := mime.ParseMediaType(t); err == nil {
		return base
	}
	return t
}

// EnsureDir creates dir and its parents when missing.
func EnsureDir(dir string) error {
	if strings.TrimSpace(dir) == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return services.Wrap(services.ErrValidation, "fileutil", "ensure dir", dir, err)
	}
	return nil
}

var fileNameReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
)

// SanitizeFileName makes a track or attachment name safe to use as a path
// element. Separators and colons become dashes; other reserved characters
// are dropped.
func SanitizeFileName(name string) string {
	return strings.TrimSpace(fileNameReplacer.Replace(strings.TrimSpace(name)))
}
