package mcp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"ringlab/internal/errors"
	"ringlab/internal/metrics"
)

// maxMessageBytes bounds one JSON-RPC message on the stdio transport.
// Sleep-detail payloads for long ranges run large.
const maxMessageBytes = 10 * 1024 * 1024

// Server dispatches JSON-RPC requests to registered tools.
type Server struct {
	registry *Registry
	metrics  *metrics.Registry
	log      zerolog.Logger
}

// NewServer creates a server over a tool registry.
func NewServer(registry *Registry, m *metrics.Registry) *Server {
	return &Server{
		registry: registry,
		metrics:  m,
		log:      log.With().Str("component", "mcp").Logger(),
	}
}

// ServeStdio reads line-delimited JSON-RPC messages from r and writes
// replies to w. It returns when r is exhausted or the context is done.
func (s *Server) ServeStdio(ctx context.Context, r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxMessageBytes)
	enc := json.NewEncoder(w)

	s.log.Info().Int("tools", len(s.registry.Names())).Msg("serving on stdio")

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		resp := s.Handle(ctx, line)
		if resp == nil {
			continue
		}
		if err := enc.Encode(resp); err != nil {
			return errors.Wrap(err, "failed to write response")
		}
	}
	return scanner.Err()
}

// Handle processes one raw JSON-RPC message and returns the reply, or nil
// when the message is a notification.
func (s *Server) Handle(ctx context.Context, raw []byte) *Response {
	var req Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return newErrorResponse(nil, CodeParseError, "parse error: "+err.Error())
	}
	return s.dispatch(ctx, &req)
}

func (s *Server) dispatch(ctx context.Context, req *Request) *Response {
	if strings.HasPrefix(req.Method, "notifications/") {
		return nil
	}
	if req.IsNotification() {
		return nil
	}
	if req.JSONRPC != jsonRPCVersion {
		return newErrorResponse(req.ID, CodeInvalidRequest, "unsupported jsonrpc version")
	}

	switch req.Method {
	case "initialize":
		return newResponse(req.ID, InitializeResult{
			ProtocolVersion: protocolVersion,
			Capabilities:    Capabilities{Tools: ToolsCapability{ListChanged: false}},
			ServerInfo:      ServerInfo{Name: serverName, Version: serverVersion},
		})
	case "ping":
		return newResponse(req.ID, struct{}{})
	case "tools/list":
		return newResponse(req.ID, map[string]interface{}{"tools": s.registry.descriptors()})
	case "tools/call":
		return s.callTool(ctx, req)
	default:
		return newErrorResponse(req.ID, CodeMethodNotFound, "method not found: "+req.Method)
	}
}

type callParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

func (s *Server) callTool(ctx context.Context, req *Request) *Response {
	var p callParams
	if err := json.Unmarshal(req.Params, &p); err != nil {
		return newErrorResponse(req.ID, CodeInvalidParams, "invalid tools/call params: "+err.Error())
	}

	tool, ok := s.registry.Get(p.Name)
	if !ok {
		return newErrorResponse(req.ID, CodeInvalidParams, "unknown tool: "+p.Name)
	}

	timer := s.metrics.StartToolTimer(p.Name)
	out, err := tool.Handler(ctx, p.Arguments)
	if err != nil {
		timer.Stop("error")
		s.log.Warn().Err(err).Str("tool", p.Name).Msg("tool call failed")
		return newResponse(req.ID, errorResult(err))
	}

	result, err := textResult(out)
	if err != nil {
		timer.Stop("error")
		return newErrorResponse(req.ID, CodeInternalError, "failed to encode tool result: "+err.Error())
	}
	timer.Stop("ok")
	s.log.Debug().Str("tool", p.Name).Msg("tool call ok")
	return newResponse(req.ID, result)
}
