package tool

import (
	"encoding/json"
	"fmt"

	gjs "github.com/google/jsonschema-go/jsonschema"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v6"
)

// buildSchema derives the JSON Schema for a parameter list. Derivation is a
// pure function of the declarations: the same params always produce the same
// bytes (properties are marshaled in sorted key order).
func buildSchema(params []Param) ([]byte, error) {
	props := make(map[string]*gjs.Schema, len(params))
	var required []string
	for _, p := range params {
		if p.Name == "" {
			return nil, fmt.Errorf("parameter with empty name")
		}
		if p.Type == "" {
			return nil, fmt.Errorf("parameter %q has no type", p.Name)
		}
		switch p.Type {
		case KindString, KindNumber, KindInteger, KindBoolean:
		default:
			return nil, fmt.Errorf("parameter %q has unsupported type %q", p.Name, p.Type)
		}
		if _, dup := props[p.Name]; dup {
			return nil, fmt.Errorf("duplicate parameter %q", p.Name)
		}
		if p.Required && p.Default != nil {
			return nil, fmt.Errorf("parameter %q is required but declares a default", p.Name)
		}
		s := &gjs.Schema{Type: string(p.Type), Description: p.Description}
		if p.Default != nil {
			raw, err := json.Marshal(p.Default)
			if err != nil {
				return nil, fmt.Errorf("parameter %q default: %w", p.Name, err)
			}
			s.Default = json.RawMessage(raw)
		}
		for _, e := range p.Enum {
			s.Enum = append(s.Enum, e)
		}
		props[p.Name] = s
		if p.Required {
			required = append(required, p.Name)
		}
	}
	root := &gjs.Schema{
		Type:       "object",
		Properties: props,
		Required:   required,
		// additionalProperties: false, expressed as "not {}".
		AdditionalProperties: &gjs.Schema{Not: &gjs.Schema{}},
	}
	return json.Marshal(root)
}

// compileSchema compiles schema bytes into a validator. Compilation failure is
// a configuration error surfaced at build time, not at invocation time.
func compileSchema(schema []byte) (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	var doc any
	if err := json.Unmarshal(schema, &doc); err != nil {
		return nil, err
	}
	if err := c.AddResource("mem://schema.json", doc); err != nil {
		return nil, err
	}
	return c.Compile("mem://schema.json")
}

// validateArgs checks args against the compiled schema. The returned error
// message names the offending field(s).
func validateArgs(sch *jsonschema.Schema, args map[string]any) error {
	// Round-trip to generic JSON values so the validator sees the same shapes
	// it would see coming off the wire.
	b, err := json.Marshal(args)
	if err != nil {
		return err
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	return sch.Validate(v)
}
