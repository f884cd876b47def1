package tui

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTTYOutput(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	var buf bytes.Buffer
	out := NewTTYOutput(&buf)

	out.Success("committed")
	out.Warning("nothing to do")
	out.Info("3 branches")
	out.Error(errors.New("branch not found"))

	text := buf.String()
	assert.Contains(t, text, "✓ committed")
	assert.Contains(t, text, "⚠ nothing to do")
	assert.Contains(t, text, "3 branches")
	assert.Contains(t, text, "✗ branch not found")
}

func TestTTYOutputJSON(t *testing.T) {
	var buf bytes.Buffer
	out := NewTTYOutput(&buf)

	require.NoError(t, out.JSON(map[string]any{"ok": true}))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, true, decoded["ok"])
}

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	out := NewJSONOutput(&buf)

	out.Success("done")
	out.Error(errors.New("boom"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var first jsonMessage
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "success", first.Type)
	assert.Equal(t, "done", first.Message)

	var second jsonMessage
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.Equal(t, "error", second.Type)
}

func TestHasColorSupport(t *testing.T) {
	t.Run("disabled by NO_COLOR", func(t *testing.T) {
		t.Setenv("NO_COLOR", "")
		assert.False(t, HasColorSupport())
	})

	t.Run("disabled by dumb terminal", func(t *testing.T) {
		t.Setenv("TERM", "dumb")
		assert.False(t, HasColorSupport())
	})
}
