package debate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quorumlab/quorum/internal/llm"
)

func assertSingleTrailingEnd(t *testing.T, rec *recorder) {
	t.Helper()
	names := rec.names()
	require.NotEmpty(t, names)
	assert.Equal(t, EventEnd, names[len(names)-1], "stream must terminate with end")
	assert.Len(t, rec.byName(EventEnd), 1, "exactly one end event")
}

func TestRunTwoAgentScenarioStopsOnDecision(t *testing.T) {
	p := &stubProvider{
		stream: func(ctx context.Context, call int, req *llm.Request) ([]llm.StreamChunk, error) {
			return textChunks("Short", "fixed", "reply."), nil
		},
		generate: func(call int, req *llm.Request) (string, error) {
			return `{"continue":false,"reason":"done"}`, nil
		},
	}
	e := testEngine(p, func(cfg *Config) {
		cfg.MinRoundsBeforeStop = 1
	})
	rec := &recorder{}

	e.Run(context.Background(), rec, "Build a login page.", []string{"UX Lead", "Backend Engineer"})

	// Exactly one round: two turns, one evaluation, honored stop.
	starts := rec.byName(EventTurnStart)
	require.Len(t, starts, 2)
	assert.Equal(t, "UX Lead", starts[0].payload.(TurnStartPayload).Name)
	assert.Equal(t, "Backend Engineer", starts[1].payload.(TurnStartPayload).Name)
	assert.Equal(t, 1, p.genCalls, "one evaluator call per completed round")

	infos := rec.byName(EventInfo)
	require.Len(t, infos, 1)
	info := infos[0].payload.(InfoPayload)
	assert.True(t, info.OrchestratorStop)
	assert.Equal(t, "done", info.Reason)

	assertSingleTrailingEnd(t, rec)
}

func TestRunStopBeforeMinRoundsIsIgnored(t *testing.T) {
	p := &stubProvider{
		stream: func(ctx context.Context, call int, req *llm.Request) ([]llm.StreamChunk, error) {
			return textChunks("ok"), nil
		},
		generate: func(call int, req *llm.Request) (string, error) {
			return `{"continue":false,"reason":"premature"}`, nil
		},
	}
	e := testEngine(p, nil) // MinRoundsBeforeStop = 2
	rec := &recorder{}

	e.Run(context.Background(), rec, "prd", []string{"UX Lead"})

	// Round 1's stop is ignored; round 2's is honored. Termination round
	// must therefore be >= MinRoundsBeforeStop.
	starts := rec.byName(EventTurnStart)
	require.Len(t, starts, 2)
	assert.Equal(t, 2, starts[1].payload.(TurnStartPayload).Round)
	assert.Equal(t, 2, p.genCalls)
	assertSingleTrailingEnd(t, rec)
}

func TestRunRespectsRoundCap(t *testing.T) {
	p := &stubProvider{
		stream: func(ctx context.Context, call int, req *llm.Request) ([]llm.StreamChunk, error) {
			return textChunks("more", "debate", "please"), nil
		},
		generate: func(call int, req *llm.Request) (string, error) {
			return `{"continue":true}`, nil
		},
	}
	e := testEngine(p, nil)
	rec := &recorder{}

	e.Run(context.Background(), rec, "prd", []string{"UX Lead", "Backend Engineer"})

	// MaxRounds=3 with 2 agents: 6 turns, never more.
	assert.Len(t, rec.byName(EventTurnStart), 6)
	assert.Len(t, rec.byName(EventTurnEnd), 6)
	for _, ev := range rec.byName(EventTurnStart) {
		assert.LessOrEqual(t, ev.payload.(TurnStartPayload).Round, 3)
	}
	assertSingleTrailingEnd(t, rec)
}

func TestRunRespectsTotalTurnCap(t *testing.T) {
	p := &stubProvider{
		stream: func(ctx context.Context, call int, req *llm.Request) ([]llm.StreamChunk, error) {
			return textChunks("go", "on"), nil
		},
		generate: func(call int, req *llm.Request) (string, error) {
			return `{"continue":true}`, nil
		},
	}
	e := testEngine(p, func(cfg *Config) {
		cfg.MaxTotalTurns = 3
		cfg.MaxRounds = 10
	})
	rec := &recorder{}

	e.Run(context.Background(), rec, "prd", []string{"UX Lead", "Backend Engineer"})

	assert.Len(t, rec.byName(EventTurnEnd), 3)
	assertSingleTrailingEnd(t, rec)
}

func TestRunNeverEmitsTurnsOutsideRoster(t *testing.T) {
	roster := []string{"Data Scientist", "Legal Advisor"}
	member := map[string]bool{}
	for _, name := range roster {
		member[name] = true
	}

	p := &stubProvider{
		stream: func(ctx context.Context, call int, req *llm.Request) ([]llm.StreamChunk, error) {
			return textChunks("fine"), nil
		},
		generate: func(call int, req *llm.Request) (string, error) {
			return `{"continue":true}`, nil
		},
	}
	e := testEngine(p, nil)
	rec := &recorder{}

	e.Run(context.Background(), rec, "prd", roster)

	for _, ev := range rec.byName(EventTurnStart) {
		assert.True(t, member[ev.payload.(TurnStartPayload).Name])
	}
	for _, ev := range rec.byName(EventTurnEnd) {
		assert.True(t, member[ev.payload.(TurnEndPayload).Name])
	}
}

func TestRunEveryTurnEndWithinWordCap(t *testing.T) {
	long := make([]string, 200)
	for i := range long {
		long[i] = "word"
	}
	p := &stubProvider{
		stream: func(ctx context.Context, call int, req *llm.Request) ([]llm.StreamChunk, error) {
			return textChunks(long...), nil
		},
		generate: func(call int, req *llm.Request) (string, error) {
			return `{"continue":true}`, nil
		},
	}
	e := testEngine(p, nil)
	rec := &recorder{}

	e.Run(context.Background(), rec, "prd", []string{"UX Lead"})

	ends := rec.byName(EventTurnEnd)
	require.NotEmpty(t, ends)
	for _, ev := range ends {
		assert.LessOrEqual(t, CountWords(ev.payload.(TurnEndPayload).Message), 80)
	}
}

func TestRunMalformedEvaluatorOutputNeverEscapes(t *testing.T) {
	p := &stubProvider{
		stream: func(ctx context.Context, call int, req *llm.Request) ([]llm.StreamChunk, error) {
			return textChunks("steady"), nil
		},
		generate: func(call int, req *llm.Request) (string, error) {
			if call%2 == 0 {
				return "not json", nil
			}
			return "{continue:oops}", nil
		},
	}
	e := testEngine(p, nil)
	rec := &recorder{}

	assert.NotPanics(t, func() {
		e.Run(context.Background(), rec, "prd", []string{"UX Lead"})
	})

	// Malformed decisions fail open, so the debate runs to the round cap.
	assert.Len(t, rec.byName(EventTurnEnd), 3)
	assert.Empty(t, rec.byName(EventError))
	assertSingleTrailingEnd(t, rec)
}

func TestRunBackendAlwaysTimingOutStillEnds(t *testing.T) {
	p := &stubProvider{
		hang: true,
		stream: func(ctx context.Context, call int, req *llm.Request) ([]llm.StreamChunk, error) {
			return nil, nil
		},
		generate: func(call int, req *llm.Request) (string, error) {
			return "", context.DeadlineExceeded
		},
	}
	e := testEngine(p, func(cfg *Config) {
		cfg.TurnTimeout = 15 * time.Millisecond
		cfg.EvalTimeout = 15 * time.Millisecond
		cfg.SessionBudget = 2 * time.Second
	})
	rec := &recorder{}

	start := time.Now()
	e.Run(context.Background(), rec, "prd", []string{"UX Lead", "Backend Engineer"})
	assert.Less(t, time.Since(start), e.cfg.SessionBudget)

	// Every attempted turn still produced a turn-end.
	assert.Equal(t,
		len(rec.byName(EventTurnStart)),
		len(rec.byName(EventTurnEnd)),
	)
	assertSingleTrailingEnd(t, rec)
}

func TestRunWallClockExpiryEmitsInfoAndEnds(t *testing.T) {
	p := &stubProvider{
		stream: func(ctx context.Context, call int, req *llm.Request) ([]llm.StreamChunk, error) {
			return textChunks("slow", "reply"), nil
		},
		generate: func(call int, req *llm.Request) (string, error) {
			return `{"continue":true}`, nil
		},
	}
	e := testEngine(p, func(cfg *Config) {
		cfg.SessionBudget = 50 * time.Millisecond
		cfg.TurnPacing = 40 * time.Millisecond
	})
	rec := &recorder{}

	e.Run(context.Background(), rec, "prd", []string{"UX Lead", "Backend Engineer"})

	infos := rec.byName(EventInfo)
	require.NotEmpty(t, infos)
	assert.Equal(t, "Overall time limit reached", infos[len(infos)-1].payload.(InfoPayload).Reason)
	assertSingleTrailingEnd(t, rec)
}

func TestRunCallerCancellationStillEnds(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := &stubProvider{
		stream: func(ctx context.Context, call int, req *llm.Request) ([]llm.StreamChunk, error) {
			if call == 2 {
				cancel()
			}
			return textChunks("reply"), nil
		},
		generate: func(call int, req *llm.Request) (string, error) {
			return `{"continue":true}`, nil
		},
	}
	e := testEngine(p, nil)
	rec := &recorder{}

	e.Run(ctx, rec, "prd", []string{"UX Lead", "Backend Engineer"})

	assertSingleTrailingEnd(t, rec)
}
