package debate

// Event names on the debate stream. A session always terminates with
// EventEnd; EventError, when present, immediately precedes it.
const (
	EventTurnStart = "turn-start"
	EventTurnDelta = "turn-delta"
	EventTurnEnd   = "turn-end"
	EventInfo      = "info"
	EventError     = "error"
	EventEnd       = "end"
)

// Emitter receives orchestrator lifecycle events in emission order. The SSE
// writer implements it on the server; tests substitute a recorder.
type Emitter interface {
	Emit(event string, payload interface{}) error
}

// TurnStartPayload announces that an agent's speaking slot has begun.
type TurnStartPayload struct {
	Name  string `json:"name"`
	Round int    `json:"round"`
}

// TurnDeltaPayload carries one live streamed fragment of an agent's message.
type TurnDeltaPayload struct {
	Name  string `json:"name"`
	Delta string `json:"delta"`
}

// TurnEndPayload carries the finalized, sanitized message for a turn.
type TurnEndPayload struct {
	Name    string `json:"name"`
	Message string `json:"message"`
	Round   int    `json:"round"`
}

// InfoPayload reports an orchestrator policy decision, such as an early stop.
type InfoPayload struct {
	OrchestratorStop bool   `json:"orchestratorStop"`
	Reason           string `json:"reason"`
}

// ErrorPayload reports a session-fatal failure.
type ErrorPayload struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// EndPayload closes every stream.
type EndPayload struct {
	OK bool `json:"ok"`
}
