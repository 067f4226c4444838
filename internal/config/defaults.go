package config

const (
	defaultMkvmergePath     = "mkvmerge"
	defaultMkvextractPath   = "mkvextract"
	defaultMuxTimeout       = 0
	defaultIdentifyTimeout  = 60
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultLogBucketPercent = 10
	defaultConfigPath       = "~/.config/mkvmux/config.toml"
	projectConfigName       = "mkvmux.toml"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Tools: Tools{
			MkvmergePath:           defaultMkvmergePath,
			MkvextractPath:         defaultMkvextractPath,
			MuxTimeoutSeconds:      defaultMuxTimeout,
			IdentifyTimeoutSeconds: defaultIdentifyTimeout,
		},
		Mux: Mux{
			LockOutput: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Progress: Progress{
			LogBucketPercent: defaultLogBucketPercent,
			ShowBar:          true,
		},
	}
}
