// Package openai implements the planner loop on OpenAI chat completions with
// function calling.
package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	oa "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/tripsmith/tripsmith/pkg/errmodel"
	"github.com/tripsmith/tripsmith/pkg/planner"
	"github.com/tripsmith/tripsmith/pkg/tool"
)

const (
	defaultModel    = "gpt-4o"
	defaultMaxSteps = 8
)

const systemPrompt = "You are a travel planning assistant. Use the available " +
	"tools to gather weather, transportation, attraction, restaurant, hotel " +
	"and local-tip information, then produce a detailed day-by-day itinerary. " +
	"If a tool reports an error, continue with the remaining information."

type loop struct {
	client   oa.Client
	model    string
	maxSteps int
}

func (l *loop) Name() string { return "openai" }

// Plan runs a bounded function-calling loop: send the task plus tool
// declarations, execute any requested tool calls through their validated
// invocation paths, feed the results back, and stop at the first response
// without tool calls.
func (l *loop) Plan(ctx context.Context, task string, tools []tool.Tool) (string, error) {
	tr := otel.Tracer("planner/openai")
	ctx, span := tr.Start(ctx, "Planner.Plan", trace.WithAttributes(
		attribute.String("planner.model", l.model),
		attribute.Int("planner.tools", len(tools)),
	))
	defer span.End()

	byName := make(map[string]tool.Tool, len(tools))
	for _, t := range tools {
		byName[t.Describe().Name] = t
	}

	messages := []oa.ChatCompletionMessageParamUnion{
		oa.SystemMessage(systemPrompt),
		oa.UserMessage(task),
	}
	toolParams := convertTools(tools)

	for step := 0; step < l.maxSteps; step++ {
		resp, err := l.client.Chat.Completions.New(ctx, oa.ChatCompletionNewParams{
			Model:    shared.ChatModel(l.model),
			Messages: messages,
			Tools:    toolParams,
		})
		if err != nil {
			span.RecordError(err)
			return "", errmodel.Planner("chat_completion", "chat completion request failed", map[string]any{"model": l.model}, err)
		}
		if len(resp.Choices) == 0 {
			return "", errmodel.Planner("empty_response", "chat completion returned no choices", map[string]any{"model": l.model}, nil)
		}
		msg := resp.Choices[0].Message
		if len(msg.ToolCalls) == 0 {
			return msg.Content, nil
		}

		messages = append(messages, assistantTurn(msg))
		for _, tc := range msg.ToolCalls {
			messages = append(messages, toolTurn(tc.ID, l.execute(ctx, byName, tc)))
		}
	}
	return "", errmodel.Planner("step_budget_exhausted", "planning loop did not converge", map[string]any{"max_steps": l.maxSteps}, nil)
}

// execute resolves and invokes one requested tool call. Whatever goes wrong,
// the loop gets text back so it can keep reasoning.
func (l *loop) execute(ctx context.Context, byName map[string]tool.Tool, tc oa.ChatCompletionMessageToolCall) string {
	name := tc.Function.Name
	t, ok := byName[name]
	if !ok {
		return fmt.Sprintf("unknown tool %q", name)
	}
	args := map[string]any{}
	if tc.Function.Arguments != "" {
		if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
			return fmt.Sprintf("invalid arguments for %s: %v", name, err)
		}
	}
	logrus.WithFields(logrus.Fields{"tool": name, "call_id": tc.ID}).Debug("planner requested tool call")
	return t.Invoke(ctx, args).Content
}

func assistantTurn(msg oa.ChatCompletionMessage) oa.ChatCompletionMessageParamUnion {
	assistant := &oa.ChatCompletionAssistantMessageParam{
		ToolCalls: make([]oa.ChatCompletionMessageToolCallParam, 0, len(msg.ToolCalls)),
	}
	if msg.Content != "" {
		assistant.Content = oa.ChatCompletionAssistantMessageParamContentUnion{
			OfString: oa.String(msg.Content),
		}
	}
	for _, tc := range msg.ToolCalls {
		assistant.ToolCalls = append(assistant.ToolCalls, oa.ChatCompletionMessageToolCallParam{
			ID: tc.ID,
			Function: oa.ChatCompletionMessageToolCallFunctionParam{
				Name:      tc.Function.Name,
				Arguments: tc.Function.Arguments,
			},
		})
	}
	return oa.ChatCompletionMessageParamUnion{OfAssistant: assistant}
}

func toolTurn(callID, content string) oa.ChatCompletionMessageParamUnion {
	return oa.ChatCompletionMessageParamUnion{
		OfTool: &oa.ChatCompletionToolMessageParam{
			Content: oa.ChatCompletionToolMessageParamContentUnion{
				OfString: oa.String(content),
			},
			ToolCallID: callID,
		},
	}
}

func convertTools(tools []tool.Tool) []oa.ChatCompletionToolParam {
	result := make([]oa.ChatCompletionToolParam, 0, len(tools))
	for _, t := range tools {
		d := t.Describe()
		var parameters shared.FunctionParameters
		if err := json.Unmarshal(d.InputSchema, &parameters); err != nil {
			logrus.WithFields(logrus.Fields{"tool": d.Name, "error": err}).Error("tool schema not usable, skipping")
			continue
		}
		result = append(result, oa.ChatCompletionToolParam{
			Function: oa.FunctionDefinitionParam{
				Name:        d.Name,
				Description: oa.String(d.Description),
				Parameters:  parameters,
			},
		})
	}
	return result
}

// Factory builds the OpenAI planner. cfg keys: api_key, model, base_url, max_steps.
func Factory(ctx context.Context, cfg map[string]any) (planner.Planner, error) { // nolint: revive
	_ = ctx
	apiKey := os.Getenv("OPENAI_API_KEY")
	if v, ok := cfg["api_key"].(string); ok && v != "" {
		apiKey = v
	}
	if apiKey == "" {
		return nil, fmt.Errorf("openai: missing API key; set OPENAI_API_KEY or cfg.api_key")
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if v, ok := cfg["base_url"].(string); ok && v != "" {
		opts = append(opts, option.WithBaseURL(v))
	}
	model := defaultModel
	if v, ok := cfg["model"].(string); ok && v != "" {
		model = v
	}
	maxSteps := defaultMaxSteps
	switch v := cfg["max_steps"].(type) {
	case int:
		if v > 0 {
			maxSteps = v
		}
	case float64:
		if v > 0 {
			maxSteps = int(v)
		}
	}
	return &loop{client: oa.NewClient(opts...), model: model, maxSteps: maxSteps}, nil
}

func init() {
	_ = planner.Register("openai", Factory)
}
