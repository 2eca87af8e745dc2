package handlers

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/yourorg/gmbcrawl/internal/debug"
	"github.com/yourorg/gmbcrawl/internal/models"
)

// Status handles GET /api/status.
func Status(c *fiber.Ctx) error {
	d := getDeps()
	resp := models.StatusResponse{
		Status:  "online",
		Uptime:  int64(time.Since(startTime).Seconds()),
		Version: d.Version,
	}
	if d.Trigger != nil {
		resp.Running = d.Trigger.Running()
	}
	if d.Schedule != nil {
		next := d.Schedule.NextRun()
		resp.NextRun = &next
	}
	if d.Runs != nil {
		last, err := d.Runs.Last(c.UserContext())
		if err != nil {
			log.Printf("❌ [STATUS] last run: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{Error: "could not load last run"})
		}
		resp.LastRun = last
	}

	if debug.IsEnabled() && d.Store != nil {
		count, err := d.Store.Count(c.UserContext())
		storeStatus := "online"
		if err != nil {
			storeStatus = "offline"
		}
		debug.UpdateApiStatus(resp.Status, storeStatus, d.StoreDriver, count, d.Version)
	}
	return c.JSON(resp)
}
