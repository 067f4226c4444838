// Package command renders an mkv.File into mkvmerge arguments.
//
// Rendering is a fixed pipeline of generators, each a pure function of a
// read-only Snapshot that contributes one slice of tokens:
//
//	base → global tags → chapters → linking → tracks → attachments → track order → split
//
// Generators never fail and never mutate the file. Build refreshes file ids
// once before running them, since that is the only derived state the
// pipeline reads.
package command
