package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// PRDHandler serves the save-PRD endpoint. Persistence is out of scope, so
// Save validates and acknowledges without storing anything.
type PRDHandler struct {
	maxPRDChars int
}

// NewPRDHandler creates a new PRD handler
func NewPRDHandler(maxPRDChars int) *PRDHandler {
	return &PRDHandler{maxPRDChars: maxPRDChars}
}

// SavePRDRequest represents a save request
type SavePRDRequest struct {
	PRDContent string `json:"prdContent"`
}

// Save validates the PRD and acknowledges it.
func (h *PRDHandler) Save(c *fiber.Ctx) error {
	if !strings.Contains(c.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		return c.Status(fiber.StatusUnsupportedMediaType).JSON(fiber.Map{
			"error": "Unsupported Media Type",
		})
	}

	var req SavePRDRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}
	if strings.TrimSpace(req.PRDContent) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Missing PRD content",
		})
	}
	if len(req.PRDContent) > h.maxPRDChars {
		return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{
			"error": "PRD too large",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
	})
}
