// Package config provides configuration management for gitbridge.
//
// Configuration is loaded with layered precedence (highest first):
//  1. Environment variables (GITBRIDGE_* prefix)
//  2. Project config (.gitbridge/config.yaml)
//  3. Global config (~/.gitbridge/config.yaml)
//  4. Built-in defaults
//
// The legacy REPO_PATH environment variable is honored as a fallback default
// repository path when no configured value is present.
package config

// Config is the root configuration structure.
type Config struct {
	// Engine selects the git engine implementation: cli or native.
	Engine string `mapstructure:"engine"`

	// Server configures the operation server.
	Server ServerConfig `mapstructure:"server"`

	// Message configures commit message synthesis.
	Message MessageConfig `mapstructure:"message"`

	// Log configures the rotating log file.
	Log LogConfig `mapstructure:"log"`
}

// ServerConfig holds settings for the operation server.
type ServerConfig struct {
	// DefaultRepoPath is used when a request omits repo_path. Empty means
	// every request must carry its own path.
	DefaultRepoPath string `mapstructure:"default_repo_path"`
}

// MessageConfig holds settings for generate_commit_message.
type MessageConfig struct {
	// Style is the default message style: conventional or simple.
	Style string `mapstructure:"style"`

	// MaxFiles is the number of file names listed before eliding with a count.
	MaxFiles int `mapstructure:"max_files"`
}

// LogConfig holds settings for the rotating file writer.
type LogConfig struct {
	// MaxSizeMB is the maximum log file size before rotation.
	MaxSizeMB int `mapstructure:"max_size_mb"`

	// MaxBackups is the number of rotated files to keep.
	MaxBackups int `mapstructure:"max_backups"`

	// MaxAgeDays is the maximum age of rotated files.
	MaxAgeDays int `mapstructure:"max_age_days"`

	// Compress enables gzip compression of rotated files.
	Compress bool `mapstructure:"compress"`
}
