// Package server implements the request/response loop that exposes the
// operation catalog to agents. Frames are newline-delimited JSON-RPC 2.0 on
// stdin/stdout; logs never touch stdout because stdout carries the protocol.
package server

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	gberrors "github.com/mrz1836/gitbridge/internal/errors"
	"github.com/mrz1836/gitbridge/internal/tools"
)

// JSON-RPC 2.0 error codes used by the transport layer. Operation failures
// are not transport errors: they travel inside the result envelope.
const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
)

// Supported protocol methods.
const (
	MethodToolsList = "tools/list"
	MethodToolsCall = "tools/call"
)

// maxFrameSize bounds a single request line. Patches in responses can be
// large but requests are small argument objects.
const maxFrameSize = 4 << 20

type request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Result  any             `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// callParams is the parameter object of a tools/call request.
type callParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

// Server reads requests one at a time and answers each before reading the
// next. It holds no repository state; every call stands alone.
type Server struct {
	log        zerolog.Logger
	dispatcher *tools.Dispatcher
	in         io.Reader
	out        io.Writer
}

// New creates a Server reading from in and writing to out.
func New(log zerolog.Logger, dispatcher *tools.Dispatcher, in io.Reader, out io.Writer) *Server {
	return &Server{
		log:        log,
		dispatcher: dispatcher,
		in:         in,
		out:        out,
	}
}

// Run serves requests until in reaches EOF or ctx is canceled. Malformed
// frames produce error responses; they never stop the loop.
func (s *Server) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		scanner := bufio.NewScanner(s.in)
		scanner.Buffer(make([]byte, 0, 64*1024), maxFrameSize)

		for scanner.Scan() {
			if err := ctx.Err(); err != nil {
				return err
			}

			line := scanner.Bytes()
			if len(line) == 0 {
				continue
			}

			resp := s.handleFrame(ctx, line)
			if err := s.writeResponse(resp); err != nil {
				return err
			}
		}

		if err := scanner.Err(); err != nil {
			return gberrors.Wrap(err, "reading request stream")
		}
		s.log.Info().Msg("request stream closed")
		return nil
	})

	return g.Wait()
}

// handleFrame parses one frame and routes it. Always returns a response.
func (s *Server) handleFrame(ctx context.Context, line []byte) *response {
	var req request
	if err := json.Unmarshal(line, &req); err != nil {
		s.log.Warn().Err(err).Msg("unparseable request frame")
		return errorResponse(nil, codeParseError, "parse error: invalid JSON")
	}

	if req.JSONRPC != "2.0" || req.Method == "" {
		return errorResponse(req.ID, codeInvalidRequest,
			gberrors.Wrap(gberrors.ErrProtocol, "jsonrpc must be \"2.0\" and method must be set").Error())
	}

	switch req.Method {
	case MethodToolsList:
		return resultResponse(req.ID, map[string]any{"tools": tools.Catalog()})
	case MethodToolsCall:
		return s.handleCall(ctx, req)
	default:
		return errorResponse(req.ID, codeMethodNotFound, fmt.Sprintf("method %q not found", req.Method))
	}
}

// handleCall dispatches a tools/call request. Operation-level failures are
// success at the transport level: the envelope carries the error kind.
func (s *Server) handleCall(ctx context.Context, req request) *response {
	var params callParams
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return errorResponse(req.ID, codeInvalidParams, "params must be an object with name and arguments")
		}
	}
	if params.Name == "" {
		return errorResponse(req.ID, codeInvalidParams, "params.name is required")
	}

	result := s.dispatcher.Dispatch(ctx, params.Name, params.Arguments)
	return resultResponse(req.ID, result)
}

// writeResponse encodes one response frame followed by a newline.
func (s *Server) writeResponse(resp *response) error {
	encoded, err := json.Marshal(resp)
	if err != nil {
		return gberrors.Wrap(err, "encoding response")
	}
	if _, err := s.out.Write(append(encoded, '\n')); err != nil {
		return gberrors.Wrap(err, "writing response")
	}
	return nil
}

func resultResponse(id json.RawMessage, result any) *response {
	return &response{JSONRPC: "2.0", ID: id, Result: result}
}

func errorResponse(id json.RawMessage, code int, message string) *response {
	return &response{JSONRPC: "2.0", ID: id, Error: &rpcError{Code: code, Message: message}}
}
