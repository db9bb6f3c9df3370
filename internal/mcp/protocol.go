// Package mcp implements the tool-calling protocol server: JSON-RPC 2.0
// framing over stdio or HTTP, an ordered tool registry, and the tool set
// backed by the analysis service.
package mcp

import (
	"encoding/json"
	"fmt"
)

const (
	jsonRPCVersion  = "2.0"
	protocolVersion = "2024-11-05"
	serverName      = "ringlab"
	serverVersion   = "1.0.0"
)

// JSON-RPC 2.0 error codes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

// Request is one JSON-RPC 2.0 call or notification.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// IsNotification reports whether the request carries no id and therefore
// must not be answered.
func (r *Request) IsNotification() bool {
	return len(r.ID) == 0 || string(r.ID) == "null"
}

// Response is one JSON-RPC 2.0 reply.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  interface{}     `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// Error is the JSON-RPC 2.0 error object.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("jsonrpc error %d: %s", e.Code, e.Message)
}

func newResponse(id json.RawMessage, result interface{}) *Response {
	return &Response{JSONRPC: jsonRPCVersion, ID: id, Result: result}
}

func newErrorResponse(id json.RawMessage, code int, message string) *Response {
	return &Response{JSONRPC: jsonRPCVersion, ID: id, Error: &Error{Code: code, Message: message}}
}

// InitializeResult is the handshake reply.
type InitializeResult struct {
	ProtocolVersion string       `json:"protocolVersion"`
	Capabilities    Capabilities `json:"capabilities"`
	ServerInfo      ServerInfo   `json:"serverInfo"`
}

// Capabilities advertises what this server supports. Only tools.
type Capabilities struct {
	Tools ToolsCapability `json:"tools"`
}

// ToolsCapability is the tools capability descriptor.
type ToolsCapability struct {
	ListChanged bool `json:"listChanged"`
}

// ServerInfo names the server in the handshake.
type ServerInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Content is one block of tool output.
type Content struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// ToolResult is the tools/call reply envelope. Handler failures set
// IsError and carry the message as text instead of failing the RPC.
type ToolResult struct {
	Content []Content `json:"content"`
	IsError bool      `json:"isError,omitempty"`
}

func textResult(v interface{}) (*ToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return &ToolResult{Content: []Content{{Type: "text", Text: string(data)}}}, nil
}

func errorResult(err error) *ToolResult {
	return &ToolResult{
		Content: []Content{{Type: "text", Text: err.Error()}},
		IsError: true,
	}
}
