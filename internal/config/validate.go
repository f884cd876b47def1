package config

import (
	"github.com/mrz1836/gitbridge/internal/errors"
	"github.com/mrz1836/gitbridge/internal/git"
)

// maxMessageFiles bounds message.max_files; listing hundreds of file names in
// a commit subject defeats the summary.
const maxMessageFiles = 100

// Validate checks the configuration for invalid or inconsistent values.
// It returns an error describing the first validation failure found.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.ErrConfigNil
	}

	if _, err := git.ParseEngine(cfg.Engine); err != nil {
		return errors.Wrapf(errors.ErrConfigInvalidServer, "engine %q must be cli or native", cfg.Engine)
	}

	if err := validateMessageConfig(&cfg.Message); err != nil {
		return err
	}

	return validateLogConfig(&cfg.Log)
}

func validateMessageConfig(cfg *MessageConfig) error {
	if _, err := git.ParseMessageStyle(cfg.Style); err != nil {
		return errors.Wrapf(errors.ErrConfigInvalidMessage,
			"message.style %q must be conventional or simple", cfg.Style)
	}
	if cfg.MaxFiles < 1 || cfg.MaxFiles > maxMessageFiles {
		return errors.Wrapf(errors.ErrConfigInvalidMessage,
			"message.max_files must be between 1 and %d, got %d", maxMessageFiles, cfg.MaxFiles)
	}
	return nil
}

func validateLogConfig(cfg *LogConfig) error {
	if cfg.MaxSizeMB < 1 {
		return errors.Wrapf(errors.ErrConfigInvalidServer,
			"log.max_size_mb must be positive, got %d", cfg.MaxSizeMB)
	}
	if cfg.MaxBackups < 0 || cfg.MaxAgeDays < 0 {
		return errors.Wrap(errors.ErrConfigInvalidServer,
			"log.max_backups and log.max_age_days must not be negative")
	}
	return nil
}
