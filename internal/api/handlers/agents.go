package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/quorumlab/quorum/internal/debate"
	"github.com/quorumlab/quorum/internal/gate"
)

// RoleGateKey names the admission-gate slot for role selection. Up to three
// selection calls may run concurrently.
const (
	RoleGateKey   = "llm-role"
	RoleGateLimit = 3
)

// AgentsHandler serves the role roster and role selection endpoints
type AgentsHandler struct {
	engine      *debate.Engine
	gate        *gate.Gate
	maxPRDChars int
	log         zerolog.Logger
}

// NewAgentsHandler creates a new agents handler
func NewAgentsHandler(engine *debate.Engine, g *gate.Gate, maxPRDChars int, logger zerolog.Logger) *AgentsHandler {
	return &AgentsHandler{
		engine:      engine,
		gate:        g,
		maxPRDChars: maxPRDChars,
		log:         logger,
	}
}

// List returns the closed role set with personas and presentation hints.
func (h *AgentsHandler) List(c *fiber.Ctx) error {
	profiles := make([]debate.Profile, 0, len(debate.Profiles))
	for _, name := range debate.RoleNames() {
		profiles = append(profiles, debate.Profiles[name])
	}
	return c.JSON(fiber.Map{
		"agents": profiles,
	})
}

// SelectRequest represents a role-selection request
type SelectRequest struct {
	PRD string `json:"prd"`
}

// Select asks the model which roles should debate the PRD. Unparsable model
// output is a 500: there is no safe default roster.
func (h *AgentsHandler) Select(c *fiber.Ctx) error {
	var req SelectRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if req.PRD == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "PRD text is required",
		})
	}
	if len(req.PRD) > h.maxPRDChars {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{
			"error": "PRD too large",
		})
	}

	var agents []string
	err := h.gate.With(RoleGateKey, RoleGateLimit, func() error {
		var selectErr error
		agents, selectErr = h.engine.SelectAgents(c.Context(), req.PRD)
		return selectErr
	})
	if err != nil {
		if errors.Is(err, gate.ErrBusy) {
			c.Set(fiber.HeaderRetryAfter, "5")
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error": "too many selection requests in flight",
			})
		}
		h.log.Warn().Err(err).Msg("role selection failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to fetch agents",
		})
	}

	return c.JSON(fiber.Map{
		"agents": agents,
	})
}
