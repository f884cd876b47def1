package config

import (
	"os"
	"path/filepath"

	"github.com/mrz1836/gitbridge/internal/constants"
	"github.com/mrz1836/gitbridge/internal/errors"
)

// GlobalConfigDir returns the path to the global gitbridge configuration
// directory, typically ~/.gitbridge.
func GlobalConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(err, "failed to get home directory")
	}
	return filepath.Join(home, constants.HomeDir), nil
}

// GlobalConfigPath returns the full path to the global configuration file,
// typically ~/.gitbridge/config.yaml.
func GlobalConfigPath() (string, error) {
	dir, err := GlobalConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, constants.ConfigFileName), nil
}

// ProjectConfigDir returns the relative path to the project configuration
// directory, always .gitbridge relative to the working directory.
func ProjectConfigDir() string {
	return constants.HomeDir
}

// ProjectConfigPath returns the relative path to the project configuration
// file, always .gitbridge/config.yaml relative to the working directory.
func ProjectConfigPath() string {
	return filepath.Join(ProjectConfigDir(), constants.ConfigFileName)
}
