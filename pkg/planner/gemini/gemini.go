// Package gemini implements the planner loop on the Gemini API with function
// calling.
package gemini

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	genai "google.golang.org/genai"

	"github.com/tripsmith/tripsmith/pkg/errmodel"
	"github.com/tripsmith/tripsmith/pkg/planner"
	"github.com/tripsmith/tripsmith/pkg/tool"
)

const (
	defaultModel    = "gemini-2.5-flash"
	defaultMaxSteps = 8
)

const systemPrompt = "You are a travel planning assistant. Use the available " +
	"tools to gather trip information, then produce a detailed day-by-day " +
	"itinerary. If a tool reports an error, continue with what you have."

type loop struct {
	client   *genai.Client
	model    string
	maxSteps int
}

func (l *loop) Name() string { return "gemini" }

// Plan runs a bounded function-calling exchange against Gemini.
func (l *loop) Plan(ctx context.Context, task string, tools []tool.Tool) (string, error) {
	byName := make(map[string]tool.Tool, len(tools))
	for _, t := range tools {
		byName[t.Describe().Name] = t
	}
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
	}
	if decls := convertTools(tools); len(decls) > 0 {
		config.Tools = []*genai.Tool{{FunctionDeclarations: decls}}
	}

	history := []*genai.Content{genai.NewContentFromText(task, genai.RoleUser)}
	for step := 0; step < l.maxSteps; step++ {
		res, err := l.client.Models.GenerateContent(ctx, l.model, history, config)
		if err != nil {
			return "", errmodel.Planner("generate_content", "content generation failed", map[string]any{"model": l.model}, err)
		}
		calls := res.FunctionCalls()
		if len(calls) == 0 {
			return res.Text(), nil
		}
		if len(res.Candidates) > 0 && res.Candidates[0].Content != nil {
			history = append(history, res.Candidates[0].Content)
		}
		parts := make([]*genai.Part, 0, len(calls))
		for _, fc := range calls {
			parts = append(parts, &genai.Part{FunctionResponse: &genai.FunctionResponse{
				Name:     fc.Name,
				Response: l.execute(ctx, byName, fc),
			}})
		}
		history = append(history, genai.NewContentFromParts(parts, genai.RoleUser))
	}
	return "", errmodel.Planner("step_budget_exhausted", "planning loop did not converge", map[string]any{"max_steps": l.maxSteps}, nil)
}

func (l *loop) execute(ctx context.Context, byName map[string]tool.Tool, fc *genai.FunctionCall) map[string]any {
	t, ok := byName[fc.Name]
	if !ok {
		return map[string]any{"content": fmt.Sprintf("unknown tool %q", fc.Name), "is_error": true}
	}
	logrus.WithField("tool", fc.Name).Debug("planner requested tool call")
	res := t.Invoke(ctx, fc.Args)
	return map[string]any{"content": res.Content, "is_error": res.IsError}
}

func convertTools(tools []tool.Tool) []*genai.FunctionDeclaration {
	decls := make([]*genai.FunctionDeclaration, 0, len(tools))
	for _, t := range tools {
		d := t.Describe()
		props := make(map[string]*genai.Schema, len(d.Params))
		var required []string
		for _, p := range d.Params {
			props[p.Name] = &genai.Schema{
				Type:        kindToGenai(p.Type),
				Description: p.Description,
				Enum:        p.Enum,
			}
			if p.Required {
				required = append(required, p.Name)
			}
		}
		decls = append(decls, &genai.FunctionDeclaration{
			Name:        d.Name,
			Description: d.Description,
			Parameters: &genai.Schema{
				Type:       genai.TypeObject,
				Properties: props,
				Required:   required,
			},
		})
	}
	return decls
}

func kindToGenai(k tool.Kind) genai.Type {
	switch k {
	case tool.KindNumber:
		return genai.TypeNumber
	case tool.KindInteger:
		return genai.TypeInteger
	case tool.KindBoolean:
		return genai.TypeBoolean
	default:
		return genai.TypeString
	}
}

// Factory builds the Gemini planner. cfg keys: api_key, model, max_steps.
func Factory(ctx context.Context, cfg map[string]any) (planner.Planner, error) { // nolint: revive
	apiKey := os.Getenv("GOOGLE_API_KEY")
	if v, ok := cfg["api_key"].(string); ok && v != "" {
		apiKey = v
	}
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: missing API key; set GOOGLE_API_KEY or cfg.api_key")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, err
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
	return &loop{client: client, model: model, maxSteps: maxSteps}, nil
}

func init() {
	_ = planner.Register("gemini", Factory)
}
