package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/quorumlab/quorum/internal/debate"
)

// SynthesizeHandler serves the improved-PRD endpoint
type SynthesizeHandler struct {
	engine      *debate.Engine
	maxPRDChars int
	log         zerolog.Logger
}

// NewSynthesizeHandler creates a new synthesize handler
func NewSynthesizeHandler(engine *debate.Engine, maxPRDChars int, logger zerolog.Logger) *SynthesizeHandler {
	return &SynthesizeHandler{
		engine:      engine,
		maxPRDChars: maxPRDChars,
		log:         logger,
	}
}

// SynthesizeRequest represents a synthesis request
type SynthesizeRequest struct {
	PRD    string        `json:"prd"`
	Debate []debate.Turn `json:"debate"`
}

// Synthesize folds the debate transcript into an improved PRD with one
// bounded generation call.
func (h *SynthesizeHandler) Synthesize(c *fiber.Ctx) error {
	var req SynthesizeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if req.PRD == "" || len(req.Debate) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing PRD or debate history",
		})
	}
	if len(req.PRD) > h.maxPRDChars {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{
			"error": "PRD too large",
		})
	}

	improved, err := h.engine.Synthesize(c.Context(), req.PRD, req.Debate)
	if err != nil {
		h.log.Warn().Err(err).Msg("synthesis failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Synthesis failed",
		})
	}

	return c.JSON(fiber.Map{
		"improvedPrd": improved,
	})
}
