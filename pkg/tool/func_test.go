package tool

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

func lookupParams() []Param {
	return []Param{
		{Name: "location", Type: KindString, Description: "city or place name", Required: true},
		{Name: "date", Type: KindString, Description: "ISO date, omit for today"},
	}
}

func TestNewFunc_SchemaDerivation(t *testing.T) {
	f, err := NewFunc("lookup", "looks up conditions", lookupParams(), func(ctx context.Context, args map[string]any) (string, error) {
		return "ok", nil
	})
	if err != nil {
		t.Fatal(err)
	}
	d := f.Describe()
	if d.Name != "lookup" || d.Description != "looks up conditions" {
		t.Fatalf("descriptor: %+v", d)
	}
	if len(d.Params) != 2 {
		t.Fatalf("params=%d want 2", len(d.Params))
	}
	schema := string(d.InputSchema)
	if !strings.Contains(schema, `"location"`) || !strings.Contains(schema, `"date"`) {
		t.Fatalf("schema missing properties: %s", schema)
	}
	if !strings.Contains(schema, `"required":["location"]`) {
		t.Fatalf("schema required mismatch: %s", schema)
	}
}

func TestNewFunc_RederivationIsIdentical(t *testing.T) {
	h := func(ctx context.Context, args map[string]any) (string, error) { return "", nil }
	a, err := NewFunc("lookup", "d", lookupParams(), h)
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewFunc("lookup", "d", lookupParams(), h)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a.Describe().InputSchema, b.Describe().InputSchema) {
		t.Fatalf("schemas differ:\n%s\n%s", a.Describe().InputSchema, b.Describe().InputSchema)
	}
}

func TestNewFunc_ConfigurationErrors(t *testing.T) {
	h := func(ctx context.Context, args map[string]any) (string, error) { return "", nil }
	cases := []struct {
		name   string
		params []Param
	}{
		{"untyped param", []Param{{Name: "q"}}},
		{"unnamed param", []Param{{Type: KindString}}},
		{"duplicate param", []Param{{Name: "q", Type: KindString}, {Name: "q", Type: KindNumber}}},
		{"required with default", []Param{{Name: "q", Type: KindString, Required: true, Default: "x"}}},
		{"unsupported type", []Param{{Name: "q", Type: Kind("object")}}},
	}
	for _, tc := range cases {
		if _, err := NewFunc("bad", "", tc.params, h); err == nil {
			t.Fatalf("%s: expected configuration error", tc.name)
		}
	}
	if _, err := NewFunc("", "", nil, h); err == nil {
		t.Fatal("empty name: expected error")
	}
	if _, err := NewFunc("x", "", nil, nil); err == nil {
		t.Fatal("nil handler: expected error")
	}
}

func TestInvoke_CallsHandlerOnceAndReturnsResult(t *testing.T) {
	calls := 0
	f := MustFunc("lookup", "", lookupParams(), func(ctx context.Context, args map[string]any) (string, error) {
		calls++
		return "sunny in " + args["location"].(string), nil
	})
	res := f.Invoke(context.Background(), map[string]any{"location": "Kyoto"})
	if res.IsError {
		t.Fatalf("unexpected error: %s", res.Content)
	}
	if res.Content != "sunny in Kyoto" {
		t.Fatalf("content=%q", res.Content)
	}
	if calls != 1 {
		t.Fatalf("handler calls=%d want 1", calls)
	}
}

func TestInvoke_MissingRequiredNamesField(t *testing.T) {
	calls := 0
	f := MustFunc("lookup", "", lookupParams(), func(ctx context.Context, args map[string]any) (string, error) {
		calls++
		return "", nil
	})
	res := f.Invoke(context.Background(), map[string]any{})
	if !res.IsError {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(res.Content, "location") {
		t.Fatalf("error should name the field: %s", res.Content)
	}
	if calls != 0 {
		t.Fatal("handler must not run on invalid args")
	}
}

func TestInvoke_TypeMismatchNamesField(t *testing.T) {
	f := MustFunc("count", "", []Param{{Name: "n", Type: KindInteger, Required: true}}, func(ctx context.Context, args map[string]any) (string, error) {
		return "", nil
	})
	res := f.Invoke(context.Background(), map[string]any{"n": "three"})
	if !res.IsError || !strings.Contains(res.Content, "n") {
		t.Fatalf("expected type error naming n: %+v", res)
	}
	// A JSON number that happens to arrive as float64 still satisfies integer.
	ok := f.Invoke(context.Background(), map[string]any{"n": float64(3)})
	if ok.IsError {
		t.Fatalf("integral float rejected: %s", ok.Content)
	}
}

func TestInvoke_DefaultsApplied(t *testing.T) {
	var seen map[string]any
	f := MustFunc("search", "", []Param{
		{Name: "query", Type: KindString, Required: true},
		{Name: "limit", Type: KindInteger, Default: 5},
	}, func(ctx context.Context, args map[string]any) (string, error) {
		seen = args
		return "", nil
	})
	in := map[string]any{"query": "ramen"}
	if res := f.Invoke(context.Background(), in); res.IsError {
		t.Fatalf("invoke: %s", res.Content)
	}
	if seen["limit"] != 5 {
		t.Fatalf("default not applied: %v", seen)
	}
	if _, mutated := in["limit"]; mutated {
		t.Fatal("caller args must not be mutated")
	}
}

func TestInvoke_HandlerErrorBecomesTextResult(t *testing.T) {
	f := MustFunc("lookup", "", lookupParams(), func(ctx context.Context, args map[string]any) (string, error) {
		return "", errors.New("upstream timeout")
	})
	res := f.Invoke(context.Background(), map[string]any{"location": "Kyoto"})
	if !res.IsError {
		t.Fatal("expected error result")
	}
	if !strings.Contains(res.Content, "upstream timeout") {
		t.Fatalf("content=%q", res.Content)
	}
}

func TestInvoke_HandlerPanicRecovered(t *testing.T) {
	f := MustFunc("boom", "", nil, func(ctx context.Context, args map[string]any) (string, error) {
		panic("kaput")
	})
	res := f.Invoke(context.Background(), nil)
	if !res.IsError || !strings.Contains(res.Content, "kaput") {
		t.Fatalf("panic not converted: %+v", res)
	}
}
