package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 8000, cfg.MaxPRDChars)
	assert.Equal(t, 200*1024, cfg.BodyLimit)
	assert.Equal(t, 80, cfg.Debate.MaxTurnWords)
	assert.Equal(t, 3, cfg.Debate.MaxRounds)
	assert.Equal(t, 24, cfg.Debate.MaxTotalTurns)
	assert.Equal(t, 2, cfg.Debate.MinRoundsBeforeStop)
	assert.Equal(t, 90*time.Second, cfg.Debate.SessionBudget)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("MAX_TURN_WORDS", "65")
	t.Setenv("TURN_TIMEOUT", "5s")
	t.Setenv("LLM_PROVIDER", "ollama")
	t.Setenv("MAX_PRD_CHARS", "4000")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 65, cfg.Debate.MaxTurnWords)
	assert.Equal(t, 5*time.Second, cfg.Debate.TurnTimeout)
	assert.Equal(t, "ollama", cfg.Debate.Provider)
	assert.Equal(t, 4000, cfg.MaxPRDChars)
}

func TestLoadIgnoresUnparsableValues(t *testing.T) {
	t.Setenv("MAX_ROUNDS", "many")
	t.Setenv("EVAL_TIMEOUT", "soon")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Debate.MaxRounds)
	assert.Equal(t, 15*time.Second, cfg.Debate.EvalTimeout)
}
