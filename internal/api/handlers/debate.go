package handlers

import (
	"bufio"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	"github.com/quorumlab/quorum/internal/debate"
	"github.com/quorumlab/quorum/internal/gate"
	"github.com/quorumlab/quorum/internal/sse"
)

// DebateGateKey names the admission-gate slot for the debate flow. Limit 1:
// a second concurrent debate fails fast rather than queueing.
const (
	DebateGateKey   = "debate"
	DebateGateLimit = 1
)

// DebateHandler serves the streaming debate endpoint
type DebateHandler struct {
	engine      *debate.Engine
	gate        *gate.Gate
	maxPRDChars int
	log         zerolog.Logger
}

// NewDebateHandler creates a new debate handler
func NewDebateHandler(engine *debate.Engine, g *gate.Gate, maxPRDChars int, logger zerolog.Logger) *DebateHandler {
	return &DebateHandler{
		engine:      engine,
		gate:        g,
		maxPRDChars: maxPRDChars,
		log:         logger,
	}
}

// DebateRequest represents a request to start a debate
type DebateRequest struct {
	PRD    string   `json:"prd"`
	Agents []string `json:"agents"`
}

// Stream validates the request, then runs the debate orchestrator over a
// server-sent-event response. All input errors surface as JSON before the
// stream opens; once open, the stream always terminates with an end event.
func (h *DebateHandler) Stream(c *fiber.Ctx) error {
	var req DebateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	if req.PRD == "" || len(req.Agents) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing PRD or agents",
		})
	}
	if len(req.PRD) > h.maxPRDChars {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{
			"error": "PRD too large",
		})
	}

	roster := debate.FilterRoster(req.Agents)
	if len(roster) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid agent list",
		})
	}

	permit, err := h.gate.Acquire(DebateGateKey, DebateGateLimit)
	if err != nil {
		if errors.Is(err, gate.ErrBusy) {
			c.Set(fiber.HeaderRetryAfter, "5")
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": "a debate is already in progress",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to start debate",
		})
	}

	c.Set(fiber.HeaderContentType, "text/event-stream; charset=utf-8")
	c.Set(fiber.HeaderCacheControl, "no-cache, no-transform")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	// The request context doubles as the cancellation signal: it is done
	// when the client disconnects.
	ctx := c.Context()
	prd, agents := req.PRD, roster

	ctx.SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer permit.Release()
		h.engine.Run(ctx, sse.NewWriter(w), prd, agents)
	}))
	return nil
}
