package debate

import (
	"context"
	"fmt"
)

// Run executes one debate session to completion, emitting lifecycle events
// on em. Inputs are assumed validated (non-empty PRD within size limits,
// roster already filtered to known roles and capped).
//
// Agents speak strictly one at a time in roster order, once per round. After
// each completed round the stop evaluator inspects the transcript. The
// session ends on an honored stop decision, the turn cap, the round cap, the
// wall-clock budget, or caller cancellation — and on every one of those
// paths, plus panic, exactly one end event closes the stream.
func (e *Engine) Run(ctx context.Context, em Emitter, prd string, roster []string) {
	s := newSession(prd, roster, e.cfg.SessionBudget)
	log := e.log.With().Str("session", s.id).Logger()
	log.Info().Strs("roster", roster).Int("prd_chars", len(prd)).Msg("debate started")

	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("debate loop panicked")
			_ = em.Emit(EventError, ErrorPayload{Error: "Debate failed", Detail: fmt.Sprint(r)})
		}
		_ = em.Emit(EventEnd, EndPayload{OK: true})
		log.Info().Int("turns", s.totalTurns).Int("rounds", s.round-1).Msg("debate ended")
	}()

	for !s.stopped && s.totalTurns < e.cfg.MaxTotalTurns && s.round <= e.cfg.MaxRounds {
		if ctx.Err() != nil {
			log.Info().Msg("caller cancelled, ending debate")
			return
		}
		if s.expired() {
			_ = em.Emit(EventInfo, InfoPayload{OrchestratorStop: true, Reason: "Overall time limit reached"})
			return
		}

		for _, agent := range s.roster {
			if ctx.Err() != nil || s.expired() {
				break
			}
			if s.totalTurns >= e.cfg.MaxTotalTurns {
				break
			}

			turn := e.generateTurn(ctx, em, s, agent)
			s.append(turn)
			log.Debug().Str("agent", agent).Int("round", s.round).
				Int("words", CountWords(turn.Message)).Msg("turn recorded")

			e.pause(ctx, e.cfg.TurnPacing)
		}

		if !s.stopped && ctx.Err() == nil && !s.expired() {
			decision := e.evaluate(ctx, s)
			if !decision.Continue {
				reason := decision.Reason
				if reason == "" {
					reason = "Stopping condition met"
				}
				_ = em.Emit(EventInfo, InfoPayload{OrchestratorStop: true, Reason: reason})
				s.stopped = true
				log.Info().Int("round", s.round).Str("reason", reason).Msg("orchestrator stopped debate")
			}
			e.pause(ctx, e.cfg.EvalPacing)
		}

		s.round++
	}
}
