package debate

import "time"

// Config carries the debate policy knobs. Two generations of the original
// endpoint disagreed on caps and cadence; this is the canonical set, with the
// stop evaluation running once per completed round.
type Config struct {
	// Provider is the llm.Manager provider name used for every call.
	Provider string

	// Models per purpose.
	TurnModel      string
	EvalModel      string
	SynthesisModel string
	SelectModel    string

	// MaxTurnWords caps every turn message, live stream included.
	MaxTurnWords int
	// MaxRounds caps full passes through the roster.
	MaxRounds int
	// MaxTotalTurns caps transcript length across all rounds.
	MaxTotalTurns int
	// MinRoundsBeforeStop ignores stop decisions before this round.
	MinRoundsBeforeStop int

	// Per-call budgets.
	TurnTimeout      time.Duration
	EvalTimeout      time.Duration
	SynthesisTimeout time.Duration
	SelectTimeout    time.Duration

	// SessionBudget is the hard wall clock for one debate.
	SessionBudget time.Duration

	// Pacing delays keep the streamed cadence readable and avoid hammering
	// the backend.
	TurnPacing time.Duration
	EvalPacing time.Duration

	// Sampling temperatures; evaluation runs colder for determinism.
	TurnTemperature float64
	EvalTemperature float64
}

// DefaultConfig returns the canonical debate policy.
func DefaultConfig() Config {
	return Config{
		Provider:            "google",
		TurnModel:           "gemini-2.0-flash",
		EvalModel:           "gemini-2.0-flash",
		SynthesisModel:      "gemini-2.0-flash",
		SelectModel:         "gemini-2.0-flash-lite",
		MaxTurnWords:        80,
		MaxRounds:           3,
		MaxTotalTurns:       24,
		MinRoundsBeforeStop: 2,
		TurnTimeout:         20 * time.Second,
		EvalTimeout:         15 * time.Second,
		SynthesisTimeout:    25 * time.Second,
		SelectTimeout:       20 * time.Second,
		SessionBudget:       90 * time.Second,
		TurnPacing:          300 * time.Millisecond,
		EvalPacing:          200 * time.Millisecond,
		TurnTemperature:     0.3,
		EvalTemperature:     0.2,
	}
}
