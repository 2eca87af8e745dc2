package handlers

import (
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/yourorg/gmbcrawl/internal/models"
)

const (
	defaultRunsLimit = 20
	maxRunsLimit     = 100
)

// Runs handles GET /api/runs?limit=n.
func Runs(c *fiber.Ctx) error {
	d := getDeps()
	if d.Runs == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(models.ErrorResponse{Error: "server not ready"})
	}

	limit := defaultRunsLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: "limit must be a positive integer"})
		}
		limit = min(n, maxRunsLimit)
	}

	runs, err := d.Runs.Recent(c.UserContext(), limit)
	if err != nil {
		log.Printf("❌ [RUNS] list runs: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{Error: "db error"})
	}
	return c.JSON(models.RunsResponse{Count: len(runs), Runs: runs})
}
