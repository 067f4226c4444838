// Package services defines shared utilities consumed by the model packages,
// the mkvtoolnix integration, and the CLI.
//
// Key responsibilities:
//   - Structured error markers plus the Wrap helper that keep the type,
//     validation, not-found, and external-tool failure classes distinguishable
//     with errors.Is all the way up to the CLI exit status.
//   - Context helpers that stamp operation names, output paths, and
//     correlation identifiers for logging.
//
// Return these markers from new validation code so callers can classify
// failures without string matching.
package services
