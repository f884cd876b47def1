package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, selectLevel(true, false))
	assert.Equal(t, zerolog.WarnLevel, selectLevel(false, true))
	assert.Equal(t, zerolog.InfoLevel, selectLevel(false, false))
}

func TestInitLoggerWithWriter(t *testing.T) {
	t.Run("info visible at default level", func(t *testing.T) {
		var buf bytes.Buffer
		logger := InitLoggerWithWriter(false, false, &buf)

		logger.Info().Str("operation", "get_repo_status").Msg("operation dispatched")

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		assert.Equal(t, "operation dispatched", entry["message"])
		assert.Equal(t, "get_repo_status", entry["operation"])
	})

	t.Run("debug suppressed at default level", func(t *testing.T) {
		var buf bytes.Buffer
		logger := InitLoggerWithWriter(false, false, &buf)

		logger.Debug().Msg("hidden")
		assert.Empty(t, buf.String())
	})

	t.Run("debug visible when verbose", func(t *testing.T) {
		var buf bytes.Buffer
		logger := InitLoggerWithWriter(true, false, &buf)

		logger.Debug().Msg("visible")
		assert.Contains(t, buf.String(), "visible")
	})

	t.Run("info suppressed when quiet", func(t *testing.T) {
		var buf bytes.Buffer
		logger := InitLoggerWithWriter(false, true, &buf)

		logger.Info().Msg("hidden")
		logger.Warn().Msg("visible")
		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "visible")
	})
}

func TestLogFilePath(t *testing.T) {
	t.Run("home override", func(t *testing.T) {
		dir := t.TempDir()
		t.Setenv("GITBRIDGE_HOME", dir)

		path, err := LogFilePath()
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "logs", "gitbridge.log"), path)
	})

	t.Run("defaults under home directory", func(t *testing.T) {
		t.Setenv("GITBRIDGE_HOME", "")
		t.Setenv("HOME", "/home/agent")

		path, err := LogFilePath()
		require.NoError(t, err)
		assert.Equal(t, "/home/agent/.gitbridge/logs/gitbridge.log", path)
	})
}

func TestCreateLogFileWriter(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("GITBRIDGE_HOME", dir)

	writer, err := createLogFileWriter(defaultRotation())
	require.NoError(t, err)
	t.Cleanup(func() { _ = writer.Close() })

	_, err = writer.Write([]byte("hello\n"))
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dir, "logs", "gitbridge.log"))
}
