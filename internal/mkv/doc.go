// Package mkv is the in-memory model of an mkvmerge invocation: a File holding
// ordered tracks, attachments, chapter and tag sources, linking targets, and a
// single split strategy.
//
// Every setter validates its argument immediately, so a File is always in a
// state the command generators can render without failing. Structural track
// operations (add, remove, move, swap, replace, merge) re-derive file ids so
// tracks that share a source path always share an id.
//
// Nothing here runs mkvmerge. Open and LoadTrack accept an Inspector, which
// the mkvtoolnix client satisfies.
package mkv
