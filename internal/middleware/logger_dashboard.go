package middleware

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/yourorg/gmbcrawl/internal/debug"
)

// DashboardLogger envía cada request al dashboard en tiempo real
func DashboardLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !debug.IsEnabled() {
			return c.Next()
		}

		start := time.Now()
		err := c.Next()
		duration := time.Since(start)

		status := c.Response().StatusCode()
		level := "info"
		switch {
		case status >= 500:
			level = "error"
		case status >= 400:
			level = "warn"
		}

		path := c.Path()
		source := "ops"
		if strings.HasPrefix(path, "/api/crawl") {
			source = "crawler"
		}

		debug.SendLog(source, level, c.Method()+" "+path, map[string]any{
			"method":      c.Method(),
			"path":        path,
			"status":      status,
			"duration_ms": duration.Milliseconds(),
			"ip":          c.IP(),
		})
		return err
	}
}
