// Package tools binds the model-facing tool catalog to backend operations.
// The registry maps unique names to definitions; handlers are thin adapters
// that translate structured arguments into backend calls.
package tools

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/firebase/genkit/go/ai"

	"nosh/internal/backend"
	"nosh/pkg/schema"
)

// Handler executes one tool call. Errors are domain information: the
// caller feeds them back to the model rather than swallowing them.
type Handler func(ctx context.Context, args map[string]any, tc *Context) (any, error)

// Context carries the per-call state a handler needs. Handlers do no
// validation beyond what their schema already declares.
type Context struct {
	SessionID string
	Backend   *backend.Service
}

// Definition declares one operation: its name, description, parameter
// schema, and the handler bound at registration time.
type Definition struct {
	Name        string
	Description string
	InputSchema map[string]any
	Handler     Handler
}

// Registry is a name-keyed tool table. It is populated once at startup and
// immutable afterwards; names are unique and registration order is kept.
type Registry struct {
	defs  map[string]*Definition
	order []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*Definition)}
}

// Register adds a definition. A duplicate name fails with DuplicateToolError.
func (r *Registry) Register(def *Definition) error {
	if _, exists := r.defs[def.Name]; exists {
		return &DuplicateToolError{Name: def.Name}
	}
	r.defs[def.Name] = def
	r.order = append(r.order, def.Name)
	return nil
}

// Declarations returns the catalog in registration order, shaped for the
// model request. Handlers are never exposed.
func (r *Registry) Declarations() []*ai.ToolDefinition {
	decls := make([]*ai.ToolDefinition, 0, len(r.order))
	for _, name := range r.order {
		def := r.defs[name]
		decls = append(decls, &ai.ToolDefinition{
			Name:        def.Name,
			Description: def.Description,
			InputSchema: def.InputSchema,
		})
	}
	return decls
}

// Specs returns the catalog for the introspection endpoint.
func (r *Registry) Specs() []schema.ToolSpec {
	specs := make([]schema.ToolSpec, 0, len(r.order))
	for _, name := range r.order {
		def := r.defs[name]
		specs = append(specs, schema.ToolSpec{
			Name:            def.Name,
			Description:     def.Description,
			ParameterSchema: def.InputSchema,
		})
	}
	return specs
}

// Execute runs the named tool with the given arguments. An unregistered
// name fails with UnknownToolError; handler errors propagate unchanged.
func (r *Registry) Execute(ctx context.Context, name string, args map[string]any, tc *Context) (any, error) {
	def, ok := r.defs[name]
	if !ok {
		return nil, &UnknownToolError{Name: name}
	}

	slog.Info("executing tool",
		"tool", name,
		"session_id", tc.SessionID,
		"args", truncateArgs(args),
	)

	return def.Handler(ctx, args, tc)
}

// truncateArgs renders arguments for logging, capped so large payloads
// don't flood the log.
func truncateArgs(args map[string]any) string {
	data, err := json.Marshal(args)
	if err != nil {
		return "<unprintable>"
	}
	const max = 200
	if len(data) > max {
		return string(data[:max]) + "..."
	}
	return string(data)
}
