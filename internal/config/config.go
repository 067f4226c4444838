package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"mkvmux/internal/services"
)

//go:embed sample_config.toml
var sampleConfig string

// Tools locates the MKVToolNix binaries.
type Tools struct {
	MkvmergePath           string `toml:"mkvmerge_path"`
	MkvextractPath         string `toml:"mkvextract_path"`
	MuxTimeoutSeconds      int    `toml:"mux_timeout_seconds"`
	IdentifyTimeoutSeconds int    `toml:"identify_timeout_seconds"`

	mkvmerge   []string
	mkvextract []string
}

// Mux holds defaults applied to every mux.
type Mux struct {
	IgnoreWarnings             bool   `toml:"ignore_warnings"`
	DisableTrackStatisticsTags bool   `toml:"disable_track_statistics_tags"`
	ChapterLanguage            string `toml:"chapter_language"`
	LockOutput                 bool   `toml:"lock_output"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
	Dir    string `toml:"dir"`
}

// Progress controls how mux progress is reported.
type Progress struct {
	LogBucketPercent int  `toml:"log_bucket_percent"`
	ShowBar          bool `toml:"show_bar"`
}

// Config encapsulates all configuration values for mkvmux.
//
// Configuration sections:
//   - Tools: mkvmerge/mkvextract command lines and timeouts
//   - Mux: defaults applied to every generated command
//   - Logging: log format, level, and optional file directory
//   - Progress: progress bar and sampled progress logging
type Config struct {
	Tools    Tools    `toml:"tools"`
	Mux      Mux      `toml:"mux"`
	Logging  Logging  `toml:"logging"`
	Progress Progress `toml:"progress"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and tool command lines split.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, services.Wrap(services.ErrConfiguration, "config", "open", resolvedPath, err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, services.Wrap(services.ErrConfiguration, "config", "parse", resolvedPath, err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs(projectConfigName)
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// MkvmergeCommand returns the mkvmerge argv prefix.
func (c *Config) MkvmergeCommand() []string {
	if len(c.Tools.mkvmerge) == 0 {
		return []string{defaultMkvmergePath}
	}
	return append([]string(nil), c.Tools.mkvmerge...)
}

// MkvextractCommand returns the mkvextract argv prefix.
func (c *Config) MkvextractCommand() []string {
	if len(c.Tools.mkvextract) == 0 {
		return []string{defaultMkvextractPath}
	}
	return append([]string(nil), c.Tools.mkvextract...)
}

// MuxTimeout bounds a single mkvmerge run. Zero means no limit.
func (c *Config) MuxTimeout() time.Duration {
	return time.Duration(c.Tools.MuxTimeoutSeconds) * time.Second
}

// IdentifyTimeout bounds a single `mkvmerge -J` run.
func (c *Config) IdentifyTimeout() time.Duration {
	return time.Duration(c.Tools.IdentifyTimeoutSeconds) * time.Second
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
