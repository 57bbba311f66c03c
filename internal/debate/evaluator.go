package debate

import (
	"context"
	"encoding/json"

	"github.com/quorumlab/quorum/internal/gate"
	"github.com/quorumlab/quorum/internal/llm"
)

// StopDecision is the orchestrator's verdict on whether to end the debate
// early. Transient: parsed from one evaluation call, applied once, discarded.
type StopDecision struct {
	Continue bool   `json:"continue"`
	Reason   string `json:"reason,omitempty"`
}

// evaluate asks the model whether continued debate adds value. It fails open
// on every failure mode — timeout, malformed output, wrong shape — because a
// broken evaluator must never end or crash the session. A stop verdict is
// honored only from MinRoundsBeforeStop onward.
func (e *Engine) evaluate(ctx context.Context, s *session) StopDecision {
	proceed := StopDecision{Continue: true}

	prompt := buildEvalPrompt(s.roster, s.turns, e.cfg.MaxTurnWords)
	text, err := gate.WithTimeout(ctx, e.cfg.EvalTimeout, func(ctx context.Context) (string, error) {
		return e.llm.Generate(ctx, e.cfg.Provider, &llm.Request{
			Model:       e.cfg.EvalModel,
			Prompt:      prompt,
			Temperature: e.cfg.EvalTemperature,
		})
	})
	if err != nil {
		e.log.Warn().Err(err).Int("round", s.round).Msg("stop evaluation failed, continuing debate")
		return proceed
	}

	decision, ok := parseStopDecision(text)
	if !ok {
		e.log.Warn().Int("round", s.round).Str("raw", text).
			Msg("unparsable stop decision, continuing debate")
		return proceed
	}

	if !decision.Continue && s.round < e.cfg.MinRoundsBeforeStop {
		e.log.Info().Int("round", s.round).Int("min_rounds", e.cfg.MinRoundsBeforeStop).
			Msg("stop decision ignored before minimum rounds")
		return proceed
	}
	return decision
}

// parseStopDecision strictly decodes one line of {"continue":bool} JSON.
// Anything else — invalid JSON, missing key, wrong type — is a mismatch.
func parseStopDecision(text string) (StopDecision, bool) {
	clean := StripCodeFences(text)

	var raw struct {
		Continue *bool  `json:"continue"`
		Reason   string `json:"reason"`
	}
	if err := json.Unmarshal([]byte(clean), &raw); err != nil {
		return StopDecision{}, false
	}
	if raw.Continue == nil {
		return StopDecision{}, false
	}
	return StopDecision{Continue: *raw.Continue, Reason: raw.Reason}, true
}
