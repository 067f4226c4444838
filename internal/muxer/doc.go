// Package muxer runs a complete mkvmerge mux for an mkv.File.
//
// A run locks the output path, writes any in-memory chapters to a temporary
// XML file, builds the argument list through the command package, and hands
// it to a Runner while logging sampled progress. The Runner is normally the
// mkvtoolnix client.
package muxer
