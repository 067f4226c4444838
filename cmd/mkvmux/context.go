package main

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"mkvmux/internal/config"
	"mkvmux/internal/job"
	"mkvmux/internal/logging"
	"mkvmux/internal/services/mkvtoolnix"
)

type commandContext struct {
	configFlag string
	levelFlag  string

	// executor and logWriter are replaced in tests.
	executor  mkvtoolnix.Executor
	logWriter io.Writer

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext() *commandContext {
	return &commandContext{}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, _, _, err := config.Load(strings.TrimSpace(c.configFlag))
		if err != nil {
			c.configErr = err
			return
		}
		if level := strings.TrimSpace(c.levelFlag); level != "" {
			cfg.Logging.Level = strings.ToLower(level)
			if err := cfg.Validate(); err != nil {
				c.configErr = err
				return
			}
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		if c.logWriter != nil {
			c.logger, c.loggerErr = logging.New(logging.Options{
				Level:  cfg.Logging.Level,
				Format: cfg.Logging.Format,
				Writer: c.logWriter,
			})
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

// client builds an mkvtoolnix client. forMux selects the mux timeout instead
// of the identify timeout.
func (c *commandContext) client(forMux bool) (*mkvtoolnix.Client, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	timeout := cfg.IdentifyTimeout()
	if forMux {
		timeout = cfg.MuxTimeout()
	}
	opts := []mkvtoolnix.Option{
		mkvtoolnix.WithLogger(logger),
		mkvtoolnix.WithTimeout(timeout),
		mkvtoolnix.WithIgnoreWarnings(cfg.Mux.IgnoreWarnings),
	}
	if c.executor != nil {
		opts = append(opts, mkvtoolnix.WithExecutor(c.executor))
	}
	return mkvtoolnix.New(cfg.MkvmergeCommand(), cfg.MkvextractCommand(), opts...), nil
}

func (c *commandContext) jobDefaults() job.Defaults {
	cfg, err := c.ensureConfig()
	if err != nil || cfg == nil {
		return job.Defaults{}
	}
	return job.Defaults{
		ChapterLanguage:            cfg.Mux.ChapterLanguage,
		DisableTrackStatisticsTags: cfg.Mux.DisableTrackStatisticsTags,
	}
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}

func displayName(path string) string {
	return filepath.Base(path)
}

// outputSize returns the size of the file at path. Split outputs carry a
// numeric suffix, so a missing file is not an error.
func outputSize(path string) (uint64, bool) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return 0, false
	}
	return uint64(info.Size()), true
}
