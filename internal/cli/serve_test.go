package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runServeWithInput executes the serve command with the given stdin content
// and returns each response line decoded from stdout.
func runServeWithInput(t *testing.T, input string, args ...string) []map[string]any {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("GITBRIDGE_HOME", t.TempDir())

	flags := &GlobalFlags{}
	cmd := newRootCmd(flags, BuildInfo{})

	var outBuf, errBuf bytes.Buffer
	cmd.SetIn(strings.NewReader(input))
	cmd.SetOut(&outBuf)
	cmd.SetErr(&errBuf)
	cmd.SetArgs(append([]string{"serve"}, args...))

	require.NoError(t, cmd.ExecuteContext(context.Background()))

	var responses []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(outBuf.String()), "\n") {
		if line == "" {
			continue
		}
		var resp map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &resp))
		responses = append(responses, resp)
	}
	return responses
}

func TestServeCommand(t *testing.T) {
	t.Run("exits cleanly on EOF", func(t *testing.T) {
		responses := runServeWithInput(t, "")
		assert.Empty(t, responses)
	})

	t.Run("answers tools/list", func(t *testing.T) {
		responses := runServeWithInput(t, `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`+"\n")
		require.Len(t, responses, 1)

		result, ok := responses[0]["result"].(map[string]any)
		require.True(t, ok)
		tools, ok := result["tools"].([]any)
		require.True(t, ok)
		assert.Len(t, tools, 10)
	})

	t.Run("rejects invalid engine flag", func(t *testing.T) {
		t.Setenv("HOME", t.TempDir())
		t.Setenv("GITBRIDGE_HOME", t.TempDir())

		flags := &GlobalFlags{}
		cmd := newRootCmd(flags, BuildInfo{})
		cmd.SetIn(strings.NewReader(""))
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{"serve", "--engine", "svn"})

		require.Error(t, cmd.ExecuteContext(context.Background()))
	})
}
