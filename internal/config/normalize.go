package config

import (
	"os"
	"strings"

	"github.com/google/shlex"

	"mkvmux/internal/services"
)

func (c *Config) normalize() error {
	if err := c.normalizeTools(); err != nil {
		return err
	}
	c.Mux.ChapterLanguage = strings.TrimSpace(c.Mux.ChapterLanguage)
	if err := c.normalizeLogging(); err != nil {
		return err
	}
	if c.Progress.LogBucketPercent <= 0 {
		c.Progress.LogBucketPercent = defaultLogBucketPercent
	}
	return nil
}

func (c *Config) normalizeTools() error {
	if value, ok := os.LookupEnv("MKVMERGE_PATH"); ok && strings.TrimSpace(value) != "" && c.Tools.MkvmergePath == defaultMkvmergePath {
		c.Tools.MkvmergePath = value
	}
	if value, ok := os.LookupEnv("MKVEXTRACT_PATH"); ok && strings.TrimSpace(value) != "" && c.Tools.MkvextractPath == defaultMkvextractPath {
		c.Tools.MkvextractPath = value
	}

	var err error
	if c.Tools.mkvmerge, err = splitCommand("tools.mkvmerge_path", c.Tools.MkvmergePath, defaultMkvmergePath); err != nil {
		return err
	}
	if c.Tools.mkvextract, err = splitCommand("tools.mkvextract_path", c.Tools.MkvextractPath, defaultMkvextractPath); err != nil {
		return err
	}
	c.Tools.MkvmergePath = strings.TrimSpace(c.Tools.MkvmergePath)
	c.Tools.MkvextractPath = strings.TrimSpace(c.Tools.MkvextractPath)
	return nil
}

// splitCommand turns a configured tool into an argv prefix. Blank values fall
// back to the bare binary name; a leading "~" in the program is expanded.
func splitCommand(key, value, fallback string) ([]string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return []string{fallback}, nil
	}
	argv, err := shlex.Split(value)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "config", key, "cannot parse command line", err)
	}
	if len(argv) == 0 {
		return []string{fallback}, nil
	}
	if strings.HasPrefix(argv[0], "~") {
		expanded, err := expandPath(argv[0])
		if err != nil {
			return nil, services.Wrap(services.ErrConfiguration, "config", key, "", err)
		}
		argv[0] = expanded
	}
	return argv, nil
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	dir, err := expandPath(strings.TrimSpace(c.Logging.Dir))
	if err != nil {
		return services.Wrap(services.ErrConfiguration, "config", "logging.dir", "", err)
	}
	c.Logging.Dir = dir
	return nil
}
