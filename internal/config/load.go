package config

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/mrz1836/gitbridge/internal/constants"
	"github.com/mrz1836/gitbridge/internal/errors"
)

// newViperInstance creates a new Viper instance with standard gitbridge
// configuration: defaults, GITBRIDGE_ environment prefix, and key replacer so
// server.default_repo_path maps to GITBRIDGE_SERVER_DEFAULT_REPO_PATH.
func newViperInstance() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// isConfigNotFoundError returns true if the error is a viper config file not
// found error.
func isConfigNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	var configNotFoundErr viper.ConfigFileNotFoundError
	return stderrors.As(err, &configNotFoundErr)
}

// Load reads configuration from all available sources with proper precedence.
// Missing config files are not errors; many deployments run on defaults plus
// environment variables alone.
func Load(ctx context.Context) (*Config, error) {
	v := newViperInstance()

	// Global config provides user-wide defaults that project config can
	// override.
	if err := loadGlobalConfig(v); err != nil {
		return nil, err
	}
	if err := loadProjectConfig(v); err != nil {
		return nil, err
	}

	cfg, err := unmarshalAndValidate(v)
	if err != nil {
		return nil, err
	}

	logger := zerolog.Ctx(ctx).With().Str("component", "config").Logger()
	logger.Debug().
		Str("engine", cfg.Engine).
		Str("server.default_repo_path", cfg.Server.DefaultRepoPath).
		Str("message.style", cfg.Message.Style).
		Msg("configuration loaded")

	return cfg, nil
}

// LoadFromPaths loads configuration from specific file paths. Empty paths are
// skipped. This gives tests precise control over which layers are present.
func LoadFromPaths(globalPath, projectPath string) (*Config, error) {
	v := newViperInstance()

	if globalPath != "" && fileExists(globalPath) {
		v.SetConfigFile(globalPath)
		if err := v.ReadInConfig(); err != nil && !isConfigNotFoundError(err) {
			return nil, errors.Wrap(err, "failed to read global config file")
		}
	}
	if projectPath != "" && fileExists(projectPath) {
		v.SetConfigFile(projectPath)
		if err := v.MergeInConfig(); err != nil && !isConfigNotFoundError(err) {
			return nil, errors.Wrap(err, "failed to read project config file")
		}
	}

	return unmarshalAndValidate(v)
}

// unmarshalAndValidate unmarshals viper state into a Config, applies the
// legacy environment fallback, and validates the result.
func unmarshalAndValidate(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg, viperDecoderOption()); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	applyLegacyEnvFallback(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return &cfg, nil
}

// applyLegacyEnvFallback honors the unprefixed REPO_PATH variable used by
// existing agent harnesses. The configured value always wins.
func applyLegacyEnvFallback(cfg *Config) {
	if cfg.Server.DefaultRepoPath != "" {
		return
	}
	if legacy := os.Getenv(constants.LegacyRepoPathEnvVar); legacy != "" {
		cfg.Server.DefaultRepoPath = legacy
	}
}

// loadGlobalConfig attempts to load the global config file
// (~/.gitbridge/config.yaml). Missing files are skipped silently.
func loadGlobalConfig(v *viper.Viper) error {
	globalDir, err := GlobalConfigDir()
	if err != nil {
		return nil //nolint:nilerr // No home directory means no global config layer
	}

	globalConfigPath := filepath.Join(globalDir, constants.ConfigFileName)
	if !fileExists(globalConfigPath) {
		return nil
	}

	v.SetConfigFile(globalConfigPath)
	if err := v.ReadInConfig(); err != nil && !isConfigNotFoundError(err) {
		return errors.Wrap(err, "failed to read global config file")
	}
	return nil
}

// loadProjectConfig attempts to load the project config file
// (.gitbridge/config.yaml). Missing files are skipped silently.
func loadProjectConfig(v *viper.Viper) error {
	projectConfigPath := ProjectConfigPath()
	if !fileExists(projectConfigPath) {
		return nil
	}

	v.SetConfigFile(projectConfigPath)
	if err := v.MergeInConfig(); err != nil && !isConfigNotFoundError(err) {
		return errors.Wrap(err, "failed to read project config file")
	}
	return nil
}

// fileExists returns true if the file at path exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// viperDecoderOption returns the decoder options for viper unmarshal.
func viperDecoderOption() viper.DecoderConfigOption {
	return viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
		),
	)
}
