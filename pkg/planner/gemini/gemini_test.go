package gemini

import (
	"context"
	"testing"

	genai "google.golang.org/genai"

	"github.com/tripsmith/tripsmith/pkg/tool"
)

func TestConvertTools(t *testing.T) {
	weather, err := tool.NewFunc("get_weather_forecast", "weather lookup", []tool.Param{
		{Name: "location", Type: tool.KindString, Required: true},
		{Name: "date", Type: tool.KindString},
	}, func(ctx context.Context, args map[string]any) (string, error) { return "", nil })
	if err != nil {
		t.Fatal(err)
	}
	decls := convertTools([]tool.Tool{weather})
	if len(decls) != 1 {
		t.Fatalf("len=%d", len(decls))
	}
	d := decls[0]
	if d.Name != "get_weather_forecast" {
		t.Fatalf("name=%s", d.Name)
	}
	if d.Parameters.Type != genai.TypeObject {
		t.Fatalf("type=%v", d.Parameters.Type)
	}
	if len(d.Parameters.Properties) != 2 {
		t.Fatalf("properties=%v", d.Parameters.Properties)
	}
	if len(d.Parameters.Required) != 1 || d.Parameters.Required[0] != "location" {
		t.Fatalf("required=%v", d.Parameters.Required)
	}
}

func TestKindToGenai(t *testing.T) {
	if kindToGenai(tool.KindInteger) != genai.TypeInteger {
		t.Fatal("integer mapping")
	}
	if kindToGenai(tool.KindBoolean) != genai.TypeBoolean {
		t.Fatal("boolean mapping")
	}
	if kindToGenai(tool.KindString) != genai.TypeString {
		t.Fatal("string mapping")
	}
}

func TestFactory_RequiresAPIKey(t *testing.T) {
	t.Setenv("GOOGLE_API_KEY", "")
	if _, err := Factory(context.Background(), nil); err == nil {
		t.Fatal("expected missing key error")
	}
}
