package config

import (
	"github.com/spf13/viper"

	"github.com/mrz1836/gitbridge/internal/constants"
)

// DefaultConfig returns a new Config with the built-in default values.
func DefaultConfig() *Config {
	return &Config{
		// Engine: "cli" matches the behavior of driving the git binary
		// directly. The native engine avoids the process-per-call cost.
		Engine: "cli",

		Server: ServerConfig{
			// DefaultRepoPath: empty forces callers to name their repository
			// explicitly unless an operator configures a server-wide default.
			DefaultRepoPath: "",
		},

		Message: MessageConfig{
			Style:    "conventional",
			MaxFiles: constants.MessageSummaryMaxFiles,
		},

		Log: LogConfig{
			MaxSizeMB:  constants.LogMaxSizeMB,
			MaxBackups: constants.LogMaxBackups,
			MaxAgeDays: constants.LogMaxAgeDays,
			Compress:   constants.LogCompress,
		},
	}
}

// setDefaults registers every config key with viper. Registration matters
// beyond the values themselves: AutomaticEnv only surfaces env overrides for
// keys viper already knows about.
func setDefaults(v *viper.Viper) {
	defaults := DefaultConfig()

	v.SetDefault("engine", defaults.Engine)
	v.SetDefault("server.default_repo_path", defaults.Server.DefaultRepoPath)
	v.SetDefault("message.style", defaults.Message.Style)
	v.SetDefault("message.max_files", defaults.Message.MaxFiles)
	v.SetDefault("log.max_size_mb", defaults.Log.MaxSizeMB)
	v.SetDefault("log.max_backups", defaults.Log.MaxBackups)
	v.SetDefault("log.max_age_days", defaults.Log.MaxAgeDays)
	v.SetDefault("log.compress", defaults.Log.Compress)
}
