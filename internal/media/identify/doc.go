// Package identify provides a typed wrapper around mkvmerge's JSON
// identification output (mkvmerge -J).
//
// Key types:
//   - Info: container flags, tracks, attachments, and tag counts
//   - Track: one elementary stream with its properties and start PTS
//   - Attachment: one embedded file
//
// Decode parses the payload; running mkvmerge is left to the mkvtoolnix
// client so tests can feed canned JSON.
package identify
