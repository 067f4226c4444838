// Package mkvtoolnix wraps the mkvmerge and mkvextract command line tools.
//
// The Client identifies files with `mkvmerge -J`, runs mux commands built by
// the command package while streaming progress, and extracts tracks,
// attachments, chapters, and timestamps with mkvextract. Process execution is
// abstracted behind Executor so tests can replay canned tool output.
package mkvtoolnix
