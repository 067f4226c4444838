// Package split validates the split strategies mkvmerge supports and renders
// each into the single --split argument it expects.
//
// Every constructor flattens arbitrarily nested slices of its point values
// before checking them, so callers may pass scalars, slices, or slices of
// slices interchangeably. A Spec is a complete replacement for any previous
// strategy; there is no way to combine two modes.
package split
