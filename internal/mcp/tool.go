package mcp

import (
	"context"
	"encoding/json"
)

// Handler executes one tool call with its raw JSON arguments.
type Handler func(ctx context.Context, args json.RawMessage) (interface{}, error)

// Tool is one callable tool: its name, description, JSON schema for the
// arguments, and the handler that runs it.
type Tool struct {
	Name        string
	Description string
	InputSchema map[string]interface{}
	Handler     Handler
}

// toolDescriptor is the wire form served by tools/list.
type toolDescriptor struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// Registry holds tools in registration order.
type Registry struct {
	order []string
	tools map[string]*Tool
}

// NewRegistry creates an empty tool registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]*Tool)}
}

// Register adds a tool. Re-registering a name replaces the handler but
// keeps the original position.
func (r *Registry) Register(t *Tool) {
	if _, ok := r.tools[t.Name]; !ok {
		r.order = append(r.order, t.Name)
	}
	r.tools[t.Name] = t
}

// Get looks a tool up by name.
func (r *Registry) Get(name string) (*Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Names returns the tool names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

func (r *Registry) descriptors() []toolDescriptor {
	out := make([]toolDescriptor, 0, len(r.order))
	for _, name := range r.order {
		t := r.tools[name]
		out = append(out, toolDescriptor{
			Name:        t.Name,
			Description: t.Description,
			InputSchema: t.InputSchema,
		})
	}
	return out
}
