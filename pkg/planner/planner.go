// Package planner defines the capability interface for the external LLM
// planning loop. The core never depends on a vendor's internals: it hands the
// loop a task description and the available tools and takes back final text.
package planner

import (
	"context"
	"fmt"
	"sync"

	"github.com/tripsmith/tripsmith/pkg/tool"
)

// Planner is the opaque agent loop. Implementations decide which tools to
// call and in what order; the caller only sees the final text.
type Planner interface {
	// Name returns the provider name (e.g., "openai").
	Name() string
	// Plan runs the loop for one task and returns its final text output.
	Plan(ctx context.Context, task string, tools []tool.Tool) (string, error)
}

// Factory constructs a Planner from provider-specific config.
type Factory func(ctx context.Context, cfg map[string]any) (Planner, error)

var (
	regMu     sync.RWMutex
	factories = map[string]Factory{}
)

// Register registers a planner factory under a provider name.
func Register(name string, f Factory) error {
	if name == "" {
		return fmt.Errorf("planner: empty provider name")
	}
	if f == nil {
		return fmt.Errorf("planner: nil factory for %q", name)
	}
	regMu.Lock()
	defer regMu.Unlock()
	if _, exists := factories[name]; exists {
		return fmt.Errorf("planner: provider %q already registered", name)
	}
	factories[name] = f
	return nil
}

// Resolve gets a registered factory by name.
func Resolve(name string) (Factory, bool) {
	regMu.RLock()
	defer regMu.RUnlock()
	f, ok := factories[name]
	return f, ok
}

// Range iterates all registered factories.
func Range(fn func(name string, f Factory)) {
	regMu.RLock()
	defer regMu.RUnlock()
	for n, f := range factories {
		fn(n, f)
	}
}
