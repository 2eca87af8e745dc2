package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/yourorg/gmbcrawl/internal/debug"
	"github.com/yourorg/gmbcrawl/internal/handlers"
	"github.com/yourorg/gmbcrawl/internal/middleware"
)

// Register mounts the ops API. handlers.Setup must have been called.
func Register(app *fiber.App, jwtSecret []byte) {
	api := app.Group("/api")

	// Health check (sin rate limiting)
	api.Get("/health", handlers.Health)

	// ============================================================================
	// ESTADO E HISTORIAL
	// ============================================================================
	api.Get("/status", middleware.APIRateLimiter(), handlers.Status)
	api.Get("/runs", middleware.APIRateLimiter(), handlers.Runs)

	// ============================================================================
	// AUTENTICACIÓN + DISPARO MANUAL
	// ============================================================================
	api.Post("/login", middleware.AuthRateLimiter(), handlers.Login)

	auth := middleware.JWTAuth(jwtSecret)
	api.Post("/crawl", auth, middleware.ExpensiveOperationLimiter(), handlers.TriggerCrawl)

	// ============================================================================
	// DEBUG DASHBOARD (DEBUG_DASHBOARD=true)
	// ============================================================================
	if !debug.IsEnabled() {
		return
	}
	api.Post("/debug/log", auth, handlers.ReceiveLog)

	api.Use("/debug/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	api.Get("/debug/ws", websocket.New(debug.HandleWebSocketFiber))
}
