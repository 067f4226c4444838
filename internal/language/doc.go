// Package language validates and maps the language codes mkvmerge accepts.
//
// Tracks carry two competing language fields: a legacy ISO 639-2 code and an
// IETF BCP-47 tag. Pair stores both, keeps them mutually exclusive once either
// is set explicitly, and resolves the effective value written to --language.
// Display and ISO conversions for the CLI live here as well.
package language
