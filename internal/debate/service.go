package debate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/quorumlab/quorum/internal/gate"
	"github.com/quorumlab/quorum/internal/llm"
)

// Synthesize folds the debate transcript back into an improved PRD with a
// single bounded generation call. No retries.
func (e *Engine) Synthesize(ctx context.Context, prd string, turns []Turn) (string, error) {
	prompt := buildSynthesisPrompt(prd, turns)
	text, err := gate.WithTimeout(ctx, e.cfg.SynthesisTimeout, func(ctx context.Context) (string, error) {
		return e.llm.Generate(ctx, e.cfg.Provider, &llm.Request{
			Model:       e.cfg.SynthesisModel,
			Prompt:      prompt,
			Temperature: e.cfg.EvalTemperature,
		})
	})
	if err != nil {
		return "", fmt.Errorf("synthesis failed: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// SelectAgents asks the model which roles should debate the PRD. The reply
// must be a strict JSON array drawn from the closed role set; unknown names
// are filtered out, and an unparsable reply is an error because no safe
// default roster exists.
func (e *Engine) SelectAgents(ctx context.Context, prd string) ([]string, error) {
	prompt := buildSelectPrompt(prd)
	text, err := gate.WithTimeout(ctx, e.cfg.SelectTimeout, func(ctx context.Context) (string, error) {
		return e.llm.Generate(ctx, e.cfg.Provider, &llm.Request{
			Model:       e.cfg.SelectModel,
			Prompt:      prompt,
			Temperature: e.cfg.EvalTemperature,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("role selection failed: %w", err)
	}

	var names []string
	if err := json.Unmarshal([]byte(StripCodeFences(text)), &names); err != nil {
		return nil, fmt.Errorf("role selection returned invalid JSON: %w", err)
	}
	return FilterRoster(names), nil
}
