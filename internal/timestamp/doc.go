// Package timestamp models the HH:MM:SS.nnnnnnnnn positions mkvmerge accepts
// for duration and timestamp based splitting.
//
// A Timestamp is built from a string, a whole number of seconds, or another
// Timestamp, with optional per-component overrides. Minutes and seconds are
// kept below 60 and nanoseconds below one second: any write outside those
// ranges resets that single component to zero instead of failing. Rendering
// follows a placeholder template such as "HH:MM:SS.NNNNNNNNN" where hours and
// the fraction are optional and appear anyway when they are non-zero.
package timestamp
