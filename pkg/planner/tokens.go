package planner

import (
	tiktoken "github.com/pkoukk/tiktoken-go"

	"github.com/tripsmith/tripsmith/pkg/errmodel"
)

// TokenEstimator estimates the token count of a task description.
type TokenEstimator func(text string) int

// NewTikTokenEstimator returns a TokenEstimator backed by tiktoken-go for the
// given model. If the model is unknown, EncodingForModel returns an error.
func NewTikTokenEstimator(model string) (TokenEstimator, error) {
	enc, err := tiktoken.EncodingForModel(model)
	if err != nil {
		return nil, err
	}
	return func(text string) int {
		return len(enc.Encode(text, nil, nil))
	}, nil
}

// GuardTaskSize rejects tasks whose estimated token count exceeds the budget
// before any provider call is made. A nil estimator or non-positive budget
// disables the guard.
func GuardTaskSize(est TokenEstimator, task string, maxTokens int) error {
	if est == nil || maxTokens <= 0 {
		return nil
	}
	if n := est(task); n > maxTokens {
		return errmodel.Validation("task_too_large", "task description exceeds token budget", map[string]any{
			"tokens": n,
			"budget": maxTokens,
		})
	}
	return nil
}
