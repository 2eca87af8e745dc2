package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/yourorg/gmbcrawl/internal/models"
)

// ClaimsKey is the fiber.Locals key holding the verified *jwt.RegisteredClaims.
const ClaimsKey = "claims"

// JWTAuth requires "Authorization: Bearer <token>" signed with secret (HS256).
func JWTAuth(secret []byte) fiber.Handler {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())

	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse{Error: "missing bearer token"})
		}

		claims := &jwt.RegisteredClaims{}
		_, err := parser.ParseWithClaims(strings.TrimSpace(raw), claims, func(*jwt.Token) (any, error) {
			return secret, nil
		})
		if err != nil {
			msg := "invalid token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				msg = "token expired"
			}
			return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse{Error: msg})
		}

		c.Locals(ClaimsKey, claims)
		return c.Next()
	}
}
