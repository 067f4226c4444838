// Package logging assembles the slog loggers used by the mkvmux CLI and
// muxer.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so a mux run can tag every line
// with its operation, output path, and correlation id. Library packages do
// not log; they receive no logger and return errors instead. A no-op logger
// is provided for tests and for callers that do not want output.
package logging
