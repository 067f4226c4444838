package config

import (
	"slices"

	"mkvmux/internal/language"
	"mkvmux/internal/services"
)

var (
	logFormats = []string{"console", "json"}
	logLevels  = []string{"debug", "info", "warn", "error"}
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTools(); err != nil {
		return err
	}
	if err := c.validateMux(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if c.Progress.LogBucketPercent < 1 || c.Progress.LogBucketPercent > 100 {
		return invalid("progress.log_bucket_percent must be between 1 and 100")
	}
	return nil
}

func (c *Config) validateTools() error {
	if c.Tools.MuxTimeoutSeconds < 0 {
		return invalid("tools.mux_timeout_seconds must not be negative")
	}
	if c.Tools.IdentifyTimeoutSeconds < 0 {
		return invalid("tools.identify_timeout_seconds must not be negative")
	}
	return nil
}

func (c *Config) validateMux() error {
	if c.Mux.ChapterLanguage == "" {
		return nil
	}
	if err := language.ValidateISO6392(c.Mux.ChapterLanguage); err != nil {
		return services.Wrap(services.ErrConfiguration, "config", "mux.chapter_language", "", err)
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !slices.Contains(logFormats, c.Logging.Format) {
		return invalid("logging.format must be one of console, json (got " + c.Logging.Format + ")")
	}
	if !slices.Contains(logLevels, c.Logging.Level) {
		return invalid("logging.level must be one of debug, info, warn, error (got " + c.Logging.Level + ")")
	}
	return nil
}

func invalid(message string) error {
	return services.Wrap(services.ErrConfiguration, "config", "validate", message, nil)
}
