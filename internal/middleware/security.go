package middleware

import "github.com/gofiber/fiber/v2"

// SecurityHeaders agrega cabeceras básicas de seguridad a todas las respuestas
func SecurityHeaders() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none';")
		return c.Next()
	}
}
