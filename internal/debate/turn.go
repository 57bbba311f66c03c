package debate

import (
	"context"

	"github.com/quorumlab/quorum/internal/llm"
)

// generateTurn drives one agent's contribution for one speaking slot. It
// streams first, falls back once to a non-streaming call if the stream
// fails, then sanitizes. A turn is always produced, even on double failure,
// carrying whatever text accumulated.
func (e *Engine) generateTurn(ctx context.Context, em Emitter, s *session, agent string) Turn {
	_ = em.Emit(EventTurnStart, TurnStartPayload{Name: agent, Round: s.round})

	prompt := buildTurnPrompt(s.prd, s.roster, agent, s.round, s.turns, e.cfg.MaxTurnWords)

	accumulated, err := e.streamTurn(ctx, em, agent, prompt)
	if err != nil {
		e.log.Warn().Err(err).Str("agent", agent).Int("round", s.round).
			Msg("streaming failed, falling back to non-streaming generation")

		fallbackCtx, cancel := context.WithTimeout(ctx, e.cfg.TurnTimeout)
		text, fallbackErr := e.llm.Generate(fallbackCtx, e.cfg.Provider, &llm.Request{
			Model:       e.cfg.TurnModel,
			Prompt:      prompt,
			Temperature: e.cfg.TurnTemperature,
		})
		cancel()
		if fallbackErr != nil {
			e.log.Warn().Err(fallbackErr).Str("agent", agent).
				Msg("fallback generation failed, recording partial turn")
		} else {
			accumulated = text
		}
	}

	turn := Turn{
		Name:    agent,
		Message: Sanitize(accumulated, e.cfg.MaxTurnWords),
		Round:   s.round,
	}
	_ = em.Emit(EventTurnEnd, TurnEndPayload{Name: turn.Name, Message: turn.Message, Round: turn.Round})
	return turn
}

// streamTurn consumes the streaming generation, forwarding each fragment as
// a turn-delta. The moment the accumulated text reaches the word cap the
// upstream call is cancelled and further fragments are suppressed; the live
// stream never shows more than MaxTurnWords words. Returns the accumulated
// text, with partial text preserved when the error path is taken.
func (e *Engine) streamTurn(parent context.Context, em Emitter, agent, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(parent, e.cfg.TurnTimeout)
	defer cancel()

	chunks, err := e.llm.Stream(ctx, e.cfg.Provider, &llm.Request{
		Model:       e.cfg.TurnModel,
		Prompt:      prompt,
		Temperature: e.cfg.TurnTemperature,
	})
	if err != nil {
		return "", err
	}

	var accumulated string
	capped := false
	for chunk := range chunks {
		if chunk.Error != nil {
			return accumulated, chunk.Error
		}
		if chunk.Delta == "" {
			continue
		}
		if capped {
			continue
		}

		before := CountWords(accumulated)
		accumulated += chunk.Delta

		remaining := e.cfg.MaxTurnWords - before
		if remaining > 0 {
			delta := chunk.Delta
			if CountWords(delta) > remaining {
				delta = TruncateFragment(delta, remaining)
			}
			_ = em.Emit(EventTurnDelta, TurnDeltaPayload{Name: agent, Delta: delta})
		}

		if CountWords(accumulated) >= e.cfg.MaxTurnWords {
			capped = true
			cancel()
		}
	}

	// A timed-out stream is a failure even when partial text arrived; the
	// caller falls back and keeps the partial text only if the fallback also
	// fails. A cap-triggered cancel is a normal completion.
	if !capped && ctx.Err() != nil {
		return accumulated, ctx.Err()
	}
	return accumulated, nil
}
