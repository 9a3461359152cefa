// Package tool turns declaratively described functions into named,
// schema-validated units that an LLM planning loop can call by name.
package tool

import (
	"context"
	"fmt"
)

// Kind is the semantic type of a tool parameter.
type Kind string

const (
	KindString  Kind = "string"
	KindNumber  Kind = "number"
	KindInteger Kind = "integer"
	KindBoolean Kind = "boolean"
)

// Param declares a single tool parameter. A parameter with a default is
// optional; declaring both Required and a Default is a configuration error.
type Param struct {
	Name        string `json:"name"`
	Type        Kind   `json:"type"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required"`
	// Default is applied when an optional parameter is absent from the
	// arguments. May be nil to mean "optional, no substitute value".
	Default any `json:"default,omitempty"`
	// Enum restricts string parameters to a fixed set of values.
	Enum []string `json:"enum,omitempty"`
}

// Descriptor declares the static interface of a tool: its name, the
// description the planner uses to decide when to call it, and the JSON Schema
// (draft 2020-12) its arguments must satisfy. Params preserves declaration
// order; InputSchema is derived from it and is identical across rebuilds.
type Descriptor struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	InputSchema []byte  `json:"input_schema"`
	Params      []Param `json:"params"`
}

// Result is the outcome of a tool invocation. Failures of any kind — invalid
// arguments, provider errors, handler errors — are carried as error-flagged
// text so the planning loop can read them and try something else; the
// invocation path never surfaces a Go error to the loop.
type Result struct {
	Content string `json:"content"`
	IsError bool   `json:"is_error,omitempty"`
}

// Errorf builds an error-flagged Result.
func Errorf(format string, args ...any) Result {
	return Result{Content: fmt.Sprintf(format, args...), IsError: true}
}

// Tool is a callable unit with a schema-validated argument contract.
type Tool interface {
	// Describe returns the public descriptor.
	Describe() Descriptor
	// Invoke validates args against the descriptor's schema and runs the
	// underlying handler. It always returns a Result, never panics or errors.
	Invoke(ctx context.Context, args map[string]any) Result
}
