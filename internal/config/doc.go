// Package config loads, normalizes, and validates mkvmux configuration data.
//
// It supplies defaults, expands user paths (including tilde shortcuts), reads
// TOML files, and honours environment fallbacks such as MKVMERGE_PATH. Tool
// locations may be full command lines ("flatpak run ... mkvmerge"); they are
// split into argv prefixes here so callers never parse them again.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
