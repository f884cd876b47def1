package server

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/gitbridge/internal/tools"
)

// runFrames feeds newline-delimited request frames through a server backed by
// a dispatcher with no default repo path, and returns the decoded responses.
func runFrames(t *testing.T, frames ...string) []map[string]any {
	t.Helper()

	dispatcher := tools.NewDispatcher(tools.Options{Logger: zerolog.Nop()})
	in := strings.NewReader(strings.Join(frames, "\n") + "\n")
	var out bytes.Buffer

	srv := New(zerolog.Nop(), dispatcher, in, &out)
	require.NoError(t, srv.Run(context.Background()))

	var responses []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		if line == "" {
			continue
		}
		var resp map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &resp), "response frame is not valid JSON: %s", line)
		responses = append(responses, resp)
	}
	return responses
}

func TestServerToolsList(t *testing.T) {
	responses := runFrames(t, `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`)
	require.Len(t, responses, 1)

	resp := responses[0]
	assert.Equal(t, "2.0", resp["jsonrpc"])
	assert.EqualValues(t, 1, resp["id"])
	assert.Nil(t, resp["error"])

	result, ok := resp["result"].(map[string]any)
	require.True(t, ok)
	toolList, ok := result["tools"].([]any)
	require.True(t, ok)
	assert.Len(t, toolList, 10)
}

func TestServerToolsCall(t *testing.T) {
	t.Run("operation error travels in the envelope", func(t *testing.T) {
		// No repo_path and no default: the call fails validation, but the
		// transport response is still a result, not a JSON-RPC error.
		responses := runFrames(t,
			`{"jsonrpc":"2.0","id":7,"method":"tools/call","params":{"name":"list_branches","arguments":{}}}`)
		require.Len(t, responses, 1)

		resp := responses[0]
		assert.Nil(t, resp["error"])

		result, ok := resp["result"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, false, result["ok"])

		opErr, ok := result["error"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "invalid_argument", opErr["kind"])
	})

	t.Run("missing name is a transport error", func(t *testing.T) {
		responses := runFrames(t,
			`{"jsonrpc":"2.0","id":8,"method":"tools/call","params":{"arguments":{}}}`)
		require.Len(t, responses, 1)

		rpcErr, ok := responses[0]["error"].(map[string]any)
		require.True(t, ok)
		assert.EqualValues(t, codeInvalidParams, rpcErr["code"])
	})
}

func TestServerProtocolErrors(t *testing.T) {
	t.Run("invalid JSON does not stop the loop", func(t *testing.T) {
		responses := runFrames(t,
			`this is not json`,
			`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`)
		require.Len(t, responses, 2)

		first, ok := responses[0]["error"].(map[string]any)
		require.True(t, ok)
		assert.EqualValues(t, codeParseError, first["code"])

		assert.Nil(t, responses[1]["error"])
	})

	t.Run("unknown method", func(t *testing.T) {
		responses := runFrames(t, `{"jsonrpc":"2.0","id":3,"method":"tools/destroy"}`)
		require.Len(t, responses, 1)

		rpcErr, ok := responses[0]["error"].(map[string]any)
		require.True(t, ok)
		assert.EqualValues(t, codeMethodNotFound, rpcErr["code"])
	})

	t.Run("wrong protocol version", func(t *testing.T) {
		responses := runFrames(t, `{"jsonrpc":"1.0","id":4,"method":"tools/list"}`)
		require.Len(t, responses, 1)

		rpcErr, ok := responses[0]["error"].(map[string]any)
		require.True(t, ok)
		assert.EqualValues(t, codeInvalidRequest, rpcErr["code"])
	})

	t.Run("blank lines are skipped", func(t *testing.T) {
		responses := runFrames(t, ``, `{"jsonrpc":"2.0","id":5,"method":"tools/list"}`)
		require.Len(t, responses, 1)
	})
}

func TestServerCanceledContext(t *testing.T) {
	dispatcher := tools.NewDispatcher(tools.Options{Logger: zerolog.Nop()})
	in := strings.NewReader(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}` + "\n")
	var out bytes.Buffer

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	srv := New(zerolog.Nop(), dispatcher, in, &out)
	err := srv.Run(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
