package debate

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/quorumlab/quorum/internal/llm"
)

// Engine runs debates against a registered LLM provider. One Engine serves
// all requests; per-debate state lives in the session created by Run.
type Engine struct {
	llm *llm.Manager
	cfg Config
	log zerolog.Logger
}

// NewEngine creates a debate engine.
func NewEngine(manager *llm.Manager, cfg Config, logger zerolog.Logger) *Engine {
	return &Engine{
		llm: manager,
		cfg: cfg,
		log: logger.With().Str("component", "debate").Logger(),
	}
}

// pause sleeps for d unless ctx is cancelled first.
func (e *Engine) pause(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	select {
	case <-time.After(d):
	case <-ctx.Done():
	}
}
