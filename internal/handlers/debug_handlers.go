package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/yourorg/gmbcrawl/internal/debug"
)

// DebugLogRequest is a log line pushed by an operator tool.
type DebugLogRequest struct {
	Source   string         `json:"source"`
	Level    string         `json:"level"` // debug, info, warn, error
	Message  string         `json:"message"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

var validLevels = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}

// ReceiveLog recibe un log externo y lo reenvía al dashboard
func ReceiveLog(c *fiber.Ctx) error {
	if !debug.IsEnabled() {
		return c.JSON(fiber.Map{"status": "disabled"})
	}

	var req DebugLogRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Message == "" {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "message required"})
	}
	if !validLevels[req.Level] {
		req.Level = "info"
	}
	if req.Source == "" {
		req.Source = "operator"
	}

	debug.SendLog(req.Source, req.Level, req.Message, req.Metadata)
	return c.JSON(fiber.Map{"status": "ok"})
}
