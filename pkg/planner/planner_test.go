package planner

import (
	"context"
	"strings"
	"testing"

	"github.com/tripsmith/tripsmith/pkg/errmodel"
	"github.com/tripsmith/tripsmith/pkg/tool"
)

type stubPlanner struct{}

func (stubPlanner) Name() string { return "stub" }
func (stubPlanner) Plan(ctx context.Context, task string, tools []tool.Tool) (string, error) {
	return "itinerary", nil
}

func TestRegisterAndResolve(t *testing.T) {
	f := func(ctx context.Context, cfg map[string]any) (Planner, error) { return stubPlanner{}, nil }
	if err := Register("stub", f); err != nil {
		t.Fatal(err)
	}
	if err := Register("stub", f); err == nil {
		t.Fatal("duplicate registration should fail")
	}
	if err := Register("", f); err == nil {
		t.Fatal("empty name should fail")
	}
	if err := Register("nil", nil); err == nil {
		t.Fatal("nil factory should fail")
	}
	got, ok := Resolve("stub")
	if !ok {
		t.Fatal("factory not resolved")
	}
	p, err := got(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if p.Name() != "stub" {
		t.Fatalf("name=%s", p.Name())
	}
}

func TestGuardTaskSize(t *testing.T) {
	est := TokenEstimator(func(text string) int { return len(strings.Fields(text)) })
	if err := GuardTaskSize(est, "a short task", 10); err != nil {
		t.Fatal(err)
	}
	err := GuardTaskSize(est, "one two three four five", 3)
	if err == nil {
		t.Fatal("expected budget error")
	}
	if !errmodel.IsCategory(err, errmodel.CategoryValidation) {
		t.Fatalf("category: %v", err)
	}
	// Disabled guard never rejects.
	if err := GuardTaskSize(nil, "anything", 1); err != nil {
		t.Fatal(err)
	}
	if err := GuardTaskSize(est, "anything at all", 0); err != nil {
		t.Fatal(err)
	}
}
