package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mrz1836/gitbridge/internal/config"
	"github.com/mrz1836/gitbridge/internal/errors"
)

// initFlags holds flags specific to the init command.
type initFlags struct {
	// Force overwrites an existing config file.
	Force bool
	// Project writes the project-level config instead of the global one.
	Project bool
}

// starterConfig mirrors the configuration keys with yaml tags so the starter
// file round-trips through the loader.
type starterConfig struct {
	Engine string `yaml:"engine"`
	Server struct {
		DefaultRepoPath string `yaml:"default_repo_path"`
	} `yaml:"server"`
	Message struct {
		Style    string `yaml:"style"`
		MaxFiles int    `yaml:"max_files"`
	} `yaml:"message"`
	Log struct {
		MaxSizeMB  int  `yaml:"max_size_mb"`
		MaxBackups int  `yaml:"max_backups"`
		MaxAgeDays int  `yaml:"max_age_days"`
		Compress   bool `yaml:"compress"`
	} `yaml:"log"`
}

// AddInitCommand adds the init command to the root command.
func AddInitCommand(root *cobra.Command, flags *GlobalFlags) {
	iFlags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter configuration file",
		Long: `Init writes a configuration file populated with the built-in defaults.
By default the global config (~/.gitbridge/config.yaml) is written; with
--project the project config (.gitbridge/config.yaml) is written in the
current directory instead.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, flags, iFlags)
		},
	}

	cmd.Flags().BoolVarP(&iFlags.Force, "force", "f", false, "overwrite an existing config file")
	cmd.Flags().BoolVar(&iFlags.Project, "project", false, "write .gitbridge/config.yaml in the current directory")

	root.AddCommand(cmd)
}

func runInit(cmd *cobra.Command, flags *GlobalFlags, iFlags *initFlags) error {
	out := outputFor(cmd, flags)

	path, err := configTargetPath(iFlags.Project)
	if err != nil {
		return err
	}

	if _, statErr := os.Stat(path); statErr == nil && !iFlags.Force {
		out.Warning(fmt.Sprintf("config already exists at %s (use --force to overwrite)", path))
		return nil
	}

	if err := writeStarterConfig(path); err != nil {
		return err
	}

	out.Success(fmt.Sprintf("wrote config to %s", path))
	return nil
}

// configTargetPath resolves where the starter config should be written.
func configTargetPath(project bool) (string, error) {
	if project {
		return config.ProjectConfigPath(), nil
	}
	return config.GlobalConfigPath()
}

// writeStarterConfig marshals the defaults to YAML and writes them to path,
// creating parent directories as needed.
func writeStarterConfig(path string) error {
	defaults := config.DefaultConfig()

	var starter starterConfig
	starter.Engine = defaults.Engine
	starter.Server.DefaultRepoPath = defaults.Server.DefaultRepoPath
	starter.Message.Style = defaults.Message.Style
	starter.Message.MaxFiles = defaults.Message.MaxFiles
	starter.Log.MaxSizeMB = defaults.Log.MaxSizeMB
	starter.Log.MaxBackups = defaults.Log.MaxBackups
	starter.Log.MaxAgeDays = defaults.Log.MaxAgeDays
	starter.Log.Compress = defaults.Log.Compress

	encoded, err := yaml.Marshal(&starter)
	if err != nil {
		return errors.Wrap(err, "encoding starter config")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return errors.Wrap(err, "creating config directory")
	}
	if err := os.WriteFile(path, encoded, 0o600); err != nil {
		return errors.Wrap(err, "writing config file")
	}
	return nil
}
