package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/gitbridge/internal/config"
)

func TestInitCommand(t *testing.T) {
	t.Run("writes global config", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("HOME", home)

		_, _, err := runCommand(t, "init")
		require.NoError(t, err)

		path := filepath.Join(home, ".gitbridge", "config.yaml")
		require.FileExists(t, path)

		// The starter file must round-trip through the loader.
		cfg, err := config.LoadFromPaths(path, "")
		require.NoError(t, err)
		assert.Equal(t, "cli", cfg.Engine)
		assert.Equal(t, "conventional", cfg.Message.Style)
		assert.Equal(t, 5, cfg.Message.MaxFiles)
	})

	t.Run("refuses to overwrite without force", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("HOME", home)

		path := filepath.Join(home, ".gitbridge", "config.yaml")
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte("engine: native\n"), 0o600))

		_, _, err := runCommand(t, "init")
		require.NoError(t, err)

		content, err := os.ReadFile(path) //nolint:gosec // Test-controlled path
		require.NoError(t, err)
		assert.Equal(t, "engine: native\n", string(content), "existing config untouched")
	})

	t.Run("force overwrites", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("HOME", home)

		path := filepath.Join(home, ".gitbridge", "config.yaml")
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte("engine: native\n"), 0o600))

		_, _, err := runCommand(t, "init", "--force")
		require.NoError(t, err)

		cfg, err := config.LoadFromPaths(path, "")
		require.NoError(t, err)
		assert.Equal(t, "cli", cfg.Engine, "defaults restored")
	})

	t.Run("project config written in working directory", func(t *testing.T) {
		dir := t.TempDir()
		t.Chdir(dir)

		_, _, err := runCommand(t, "init", "--project")
		require.NoError(t, err)

		assert.FileExists(t, filepath.Join(dir, ".gitbridge", "config.yaml"))
	})
}
