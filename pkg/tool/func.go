package tool

import (
	"context"
	"fmt"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// HandlerFunc is the function a Func tool wraps. It receives arguments that
// have already passed schema validation, with defaults for absent optional
// parameters filled in.
type HandlerFunc func(ctx context.Context, args map[string]any) (string, error)

// Func is a Tool built from a declared parameter list and a handler.
type Func struct {
	desc    Descriptor
	sch     *jsonschema.Schema
	handler HandlerFunc
}

// NewFunc builds a tool from its declaration. Configuration errors — empty
// name, nil handler, unnamed or untyped parameters, duplicate parameters, a
// required parameter with a default — fail here so a bad declaration can never
// reach the planning loop.
func NewFunc(name, description string, params []Param, handler HandlerFunc) (*Func, error) {
	if name == "" {
		return nil, fmt.Errorf("tool name is empty")
	}
	if handler == nil {
		return nil, fmt.Errorf("tool %q has nil handler", name)
	}
	schema, err := buildSchema(params)
	if err != nil {
		return nil, fmt.Errorf("tool %q: %w", name, err)
	}
	sch, err := compileSchema(schema)
	if err != nil {
		return nil, fmt.Errorf("tool %q: compile schema: %w", name, err)
	}
	return &Func{
		desc: Descriptor{
			Name:        name,
			Description: description,
			InputSchema: schema,
			Params:      append([]Param(nil), params...),
		},
		sch:     sch,
		handler: handler,
	}, nil
}

// MustFunc is NewFunc that panics on configuration errors. For fixed startup
// declarations only.
func MustFunc(name, description string, params []Param, handler HandlerFunc) *Func {
	f, err := NewFunc(name, description, params, handler)
	if err != nil {
		panic(err)
	}
	return f
}

// Describe returns the public descriptor.
func (f *Func) Describe() Descriptor { return f.desc }

// Invoke validates args, applies defaults, and runs the handler. Validation
// failures and handler errors both come back as error-flagged text; the
// planning loop decides what to do with them.
func (f *Func) Invoke(ctx context.Context, args map[string]any) (res Result) {
	tr := otel.Tracer("tool")
	ctx, span := tr.Start(ctx, "tool.Invoke", trace.WithAttributes(
		attribute.String("tool.name", f.desc.Name),
	))
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			res = Errorf("tool %s panicked: %v", f.desc.Name, r)
			span.RecordError(fmt.Errorf("%v", r))
		}
		if res.IsError {
			span.SetAttributes(attribute.Bool("tool.error", true))
		}
	}()

	if args == nil {
		args = map[string]any{}
	}
	if err := validateArgs(f.sch, args); err != nil {
		logrus.WithFields(logrus.Fields{"tool": f.desc.Name, "error": err}).Warn("tool arguments rejected")
		return Errorf("invalid arguments for %s: %v", f.desc.Name, err)
	}
	args = f.applyDefaults(args)

	logrus.WithField("tool", f.desc.Name).Debug("invoking tool")
	out, err := f.handler(ctx, args)
	if err != nil {
		logrus.WithFields(logrus.Fields{"tool": f.desc.Name, "error": err}).Warn("tool invocation failed")
		return Errorf("%s failed: %v", f.desc.Name, err)
	}
	return Result{Content: out}
}

// applyDefaults copies args and fills in declared defaults for absent optional
// parameters. The caller's map is never mutated.
func (f *Func) applyDefaults(args map[string]any) map[string]any {
	out := make(map[string]any, len(args))
	for k, v := range args {
		out[k] = v
	}
	for _, p := range f.desc.Params {
		if p.Required || p.Default == nil {
			continue
		}
		if _, ok := out[p.Name]; !ok {
			out[p.Name] = p.Default
		}
	}
	return out
}
