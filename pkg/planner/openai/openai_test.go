package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tripsmith/tripsmith/pkg/tool"
)

// fakeCompletions serves a scripted sequence of chat completion responses.
func fakeCompletions(t *testing.T, responses []string) (*httptest.Server, *int) {
	t.Helper()
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls >= len(responses) {
			t.Errorf("unexpected completion call %d", calls)
			http.Error(w, "no more responses", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(responses[calls]))
		calls++
	}))
	return srv, &calls
}

const toolCallResponse = `{
  "id": "cmpl-1",
  "object": "chat.completion",
  "created": 1720000000,
  "model": "gpt-4o",
  "choices": [{
    "index": 0,
    "finish_reason": "tool_calls",
    "message": {
      "role": "assistant",
      "content": "",
      "tool_calls": [{
        "id": "call-1",
        "type": "function",
        "function": {"name": "get_weather_forecast", "arguments": "{\"location\":\"Kyoto\"}"}
      }]
    }
  }]
}`

const finalResponse = `{
  "id": "cmpl-2",
  "object": "chat.completion",
  "created": 1720000001,
  "model": "gpt-4o",
  "choices": [{
    "index": 0,
    "finish_reason": "stop",
    "message": {"role": "assistant", "content": "Here is your 3-day itinerary."}
  }]
}`

func TestPlan_ExecutesToolCallsAndReturnsFinalText(t *testing.T) {
	srv, calls := fakeCompletions(t, []string{toolCallResponse, finalResponse})
	defer srv.Close()

	var gotArgs map[string]any
	weather, err := tool.NewFunc("get_weather_forecast", "weather lookup", []tool.Param{
		{Name: "location", Type: tool.KindString, Required: true},
		{Name: "date", Type: tool.KindString},
	}, func(ctx context.Context, args map[string]any) (string, error) {
		gotArgs = args
		return "18.5C, scattered clouds", nil
	})
	if err != nil {
		t.Fatal(err)
	}

	p, err := Factory(context.Background(), map[string]any{
		"api_key":  "test-key",
		"base_url": srv.URL,
	})
	if err != nil {
		t.Fatal(err)
	}
	out, err := p.Plan(context.Background(), "Plan a trip to Kyoto", []tool.Tool{weather})
	if err != nil {
		t.Fatal(err)
	}
	if out != "Here is your 3-day itinerary." {
		t.Fatalf("out=%q", out)
	}
	if *calls != 2 {
		t.Fatalf("completion calls=%d want 2", *calls)
	}
	if gotArgs["location"] != "Kyoto" {
		t.Fatalf("tool args=%v", gotArgs)
	}
}

func TestPlan_UnknownToolReportedToLoop(t *testing.T) {
	unknownCall := `{
  "id": "cmpl-3",
  "object": "chat.completion",
  "created": 1720000002,
  "model": "gpt-4o",
  "choices": [{
    "index": 0,
    "finish_reason": "tool_calls",
    "message": {
      "role": "assistant",
      "content": "",
      "tool_calls": [{
        "id": "call-9",
        "type": "function",
        "function": {"name": "get_flights", "arguments": "{}"}
      }]
    }
  }]
}`
	srv, _ := fakeCompletions(t, []string{unknownCall, finalResponse})
	defer srv.Close()

	p, err := Factory(context.Background(), map[string]any{"api_key": "k", "base_url": srv.URL})
	if err != nil {
		t.Fatal(err)
	}
	out, err := p.Plan(context.Background(), "task", nil)
	if err != nil {
		t.Fatal(err)
	}
	if out == "" {
		t.Fatal("expected final text despite unknown tool request")
	}
}

func TestPlan_StepBudget(t *testing.T) {
	// Always answer with another tool call; the loop must give up.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(toolCallResponse))
	}))
	defer srv.Close()

	p, err := Factory(context.Background(), map[string]any{
		"api_key":   "k",
		"base_url":  srv.URL,
		"max_steps": 2,
	})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := p.Plan(context.Background(), "task", nil); err == nil {
		t.Fatal("expected step budget error")
	}
}

func TestFactory_RequiresAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	if _, err := Factory(context.Background(), nil); err == nil {
		t.Fatal("expected missing key error")
	}
}

func TestConvertTools(t *testing.T) {
	weather, err := tool.NewFunc("get_weather_forecast", "weather", []tool.Param{
		{Name: "location", Type: tool.KindString, Required: true},
	}, func(ctx context.Context, args map[string]any) (string, error) { return "", nil })
	if err != nil {
		t.Fatal(err)
	}
	params := convertTools([]tool.Tool{weather})
	if len(params) != 1 {
		t.Fatalf("len=%d", len(params))
	}
	if params[0].Function.Name != "get_weather_forecast" {
		t.Fatalf("name=%s", params[0].Function.Name)
	}
	b, err := json.Marshal(params[0].Function.Parameters)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) == "" || string(b) == "null" {
		t.Fatal("parameters not carried over")
	}
}
