package handlers

import (
	"context"
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"github.com/yourorg/gmbcrawl/internal/models"
	"github.com/yourorg/gmbcrawl/internal/scheduler"
)

// TriggerCrawl handles POST /api/crawl. The crawl runs in the background.
func TriggerCrawl(c *fiber.Ctx) error {
	d := getDeps()
	if d.Trigger == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(models.ErrorResponse{Error: "server not ready"})
	}

	err := d.Trigger.FireAsync(context.Background(), models.TriggerManual)
	if errors.Is(err, scheduler.ErrAlreadyRunning) {
		return c.Status(fiber.StatusConflict).JSON(models.ErrorResponse{Error: "a crawl is already running"})
	}
	if errors.Is(err, scheduler.ErrStopping) {
		return c.Status(fiber.StatusServiceUnavailable).JSON(models.ErrorResponse{Error: "server shutting down"})
	}
	if err != nil {
		log.Printf("❌ [CRAWL] manual trigger: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{Error: "could not start crawl"})
	}

	log.Printf("🚀 [CRAWL] manual crawl requested from %s", c.IP())
	return c.Status(fiber.StatusAccepted).JSON(models.CrawlAcceptedResponse{
		Message: "crawl started",
		Trigger: models.TriggerManual,
	})
}
