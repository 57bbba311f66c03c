package debate

import (
	"time"

	"github.com/google/uuid"
)

// Turn is one agent's completed, sanitized contribution for one speaking
// slot. Immutable once appended to the transcript.
type Turn struct {
	Name    string `json:"name"`
	Message string `json:"message"`
	Round   int    `json:"round,omitempty"`
}

// session holds the state of one debate. It lives for the duration of a
// single request and is owned exclusively by that request's orchestrator
// loop; nothing here is shared across sessions.
type session struct {
	id         string
	prd        string
	roster     []string
	turns      []Turn
	round      int
	totalTurns int
	stopped    bool
	deadline   time.Time
}

func newSession(prd string, roster []string, budget time.Duration) *session {
	return &session{
		id:       uuid.New().String(),
		prd:      prd,
		roster:   roster,
		round:    1,
		deadline: time.Now().Add(budget),
	}
}

// expired reports whether the session wall-clock budget has been spent.
// Checked before each unit of work; an operation already in flight is left
// to finish or time out on its own terms.
func (s *session) expired() bool {
	return time.Now().After(s.deadline)
}

// append records a finalized turn on the transcript.
func (s *session) append(t Turn) {
	s.turns = append(s.turns, t)
	s.totalTurns++
}
