package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// ============================================================================
// RATE LIMITING MIDDLEWARE
// ============================================================================
// Protege la API de operación contra abuso. El crawl en sí no pasa por aquí:
// estos límites solo cubren el tráfico HTTP entrante.

func newLimiter(max int, window time.Duration, key func(*fiber.Ctx) string, body fiber.Map) fiber.Handler {
	body["retry_after"] = int(window.Seconds())
	return limiter.New(limiter.Config{
		Max:          max,
		Expiration:   window,
		KeyGenerator: key,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(body)
		},
		LimiterMiddleware: limiter.SlidingWindow{},
	})
}

func byIP(c *fiber.Ctx) string {
	return c.IP()
}

// GlobalRateLimiter - 1000 requests por minuto por IP
func GlobalRateLimiter() fiber.Handler {
	return newLimiter(1000, time.Minute, byIP, fiber.Map{
		"error":   "Rate limit exceeded",
		"message": "Too many requests. Please try again in 1 minute.",
	})
}

// AuthRateLimiter - 10 intentos de login por minuto (fuerza bruta)
func AuthRateLimiter() fiber.Handler {
	return newLimiter(10, time.Minute, func(c *fiber.Ctx) string {
		return c.IP() + ":" + c.Path()
	}, fiber.Map{
		"error":   "Authentication rate limit exceeded",
		"message": "Too many login attempts. Please try again in 1 minute.",
	})
}

// APIRateLimiter - 200 requests por minuto para consultas de estado
func APIRateLimiter() fiber.Handler {
	return newLimiter(200, time.Minute, byIP, fiber.Map{
		"error":  "API rate limit exceeded",
		"limit":  200,
		"window": "1 minute",
	})
}

// ExpensiveOperationLimiter - disparos manuales del crawl, 5 cada 5 minutos
func ExpensiveOperationLimiter() fiber.Handler {
	return newLimiter(5, 5*time.Minute, byIP, fiber.Map{
		"error":   "Expensive operation rate limit exceeded",
		"message": "This operation is rate-limited to 5 requests per 5 minutes.",
	})
}
