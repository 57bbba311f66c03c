package client

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quorumlab/quorum/internal/debate"
	"github.com/quorumlab/quorum/internal/sse"
)

func streamServer(t *testing.T, emit func(w *sse.Writer)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/debate" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/event-stream")
		bw := bufio.NewWriter(w)
		emit(sse.NewWriter(bw))
		bw.Flush()
	}))
}

func TestStartDebateReassemblesTurns(t *testing.T) {
	srv := streamServer(t, func(w *sse.Writer) {
		w.Emit(debate.EventTurnStart, debate.TurnStartPayload{Name: "UX Lead", Round: 1})
		w.Emit(debate.EventTurnDelta, debate.TurnDeltaPayload{Name: "UX Lead", Delta: "users need "})
		w.Emit(debate.EventTurnDelta, debate.TurnDeltaPayload{Name: "UX Lead", Delta: "clarity"})
		w.Emit(debate.EventTurnEnd, debate.TurnEndPayload{Name: "UX Lead", Message: "users need clarity", Round: 1})
		w.Emit(debate.EventTurnStart, debate.TurnStartPayload{Name: "Backend Engineer", Round: 1})
		w.Emit(debate.EventTurnDelta, debate.TurnDeltaPayload{Name: "Backend Engineer", Delta: "latency matters"})
		w.Emit(debate.EventTurnEnd, debate.TurnEndPayload{Name: "Backend Engineer", Message: "latency matters", Round: 1})
		w.Emit(debate.EventInfo, debate.InfoPayload{OrchestratorStop: true, Reason: "consensus reached"})
		w.Emit(debate.EventEnd, debate.EndPayload{OK: true})
	})
	defer srv.Close()

	var deltas []string
	c := New(srv.URL, nil)
	result, err := c.StartDebate(context.Background(), "a prd", []string{"UX Lead", "Backend Engineer"}, func(name, delta string) {
		deltas = append(deltas, delta)
	})
	require.NoError(t, err)

	require.Len(t, result.Turns, 2)
	assert.Equal(t, "UX Lead", result.Turns[0].Name)
	assert.Equal(t, "users need clarity", result.Turns[0].Message)
	assert.Equal(t, "Backend Engineer", result.Turns[1].Name)
	assert.Equal(t, "latency matters", result.Turns[1].Message)
	assert.Equal(t, "consensus reached", result.StopReason)
	assert.True(t, result.Ended)
	assert.Equal(t, []string{"users need ", "clarity", "latency matters"}, deltas)
}

func TestStartDebateTurnEndReplacesLiveText(t *testing.T) {
	// The server may truncate the finalized message below what was streamed.
	srv := streamServer(t, func(w *sse.Writer) {
		w.Emit(debate.EventTurnStart, debate.TurnStartPayload{Name: "UX Lead", Round: 1})
		w.Emit(debate.EventTurnDelta, debate.TurnDeltaPayload{Name: "UX Lead", Delta: "raw draft text with trailing junk"})
		w.Emit(debate.EventTurnEnd, debate.TurnEndPayload{Name: "UX Lead", Message: "raw draft text", Round: 1})
		w.Emit(debate.EventEnd, debate.EndPayload{OK: true})
	})
	defer srv.Close()

	result, err := New(srv.URL, nil).StartDebate(context.Background(), "a prd", []string{"UX Lead"}, nil)
	require.NoError(t, err)
	require.Len(t, result.Turns, 1)
	assert.Equal(t, "raw draft text", result.Turns[0].Message)
}

func TestStartDebateRecordsStreamError(t *testing.T) {
	srv := streamServer(t, func(w *sse.Writer) {
		w.Emit(debate.EventError, debate.ErrorPayload{Error: "Stream failed"})
		w.Emit(debate.EventEnd, debate.EndPayload{OK: true})
	})
	defer srv.Close()

	result, err := New(srv.URL, nil).StartDebate(context.Background(), "a prd", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "Stream failed", result.StreamErr)
	assert.Empty(t, result.Turns)
}

func TestStartDebateTruncatedStream(t *testing.T) {
	srv := streamServer(t, func(w *sse.Writer) {
		w.Emit(debate.EventTurnStart, debate.TurnStartPayload{Name: "UX Lead", Round: 1})
	})
	defer srv.Close()

	result, err := New(srv.URL, nil).StartDebate(context.Background(), "a prd", nil, nil)
	require.Error(t, err)
	assert.False(t, result.Ended)
	assert.Len(t, result.Turns, 1)
}

func TestStartDebateRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := New(srv.URL, nil).StartDebate(context.Background(), "a prd", nil, nil)
	assert.ErrorIs(t, err, ErrRateLimited)
}

func TestSelectAgents(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/select-agents", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"agents":["UX Lead","Legal Advisor"]}`))
	}))
	defer srv.Close()

	agents, err := New(srv.URL, nil).SelectAgents(context.Background(), "a prd")
	require.NoError(t, err)
	assert.Equal(t, []string{"UX Lead", "Legal Advisor"}, agents)
}

func TestSynthesize(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/synthesize-prd", r.URL.Path)
		assert.True(t, strings.HasPrefix(r.Header.Get("Content-Type"), "application/json"))
		w.Write([]byte(`{"improvedPrd":"better prd"}`))
	}))
	defer srv.Close()

	improved, err := New(srv.URL, nil).Synthesize(context.Background(), "a prd", []debate.Turn{{Name: "UX Lead", Message: "hi", Round: 1}})
	require.NoError(t, err)
	assert.Equal(t, "better prd", improved)
}
