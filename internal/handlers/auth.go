package handlers

import (
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/yourorg/gmbcrawl/internal/models"
)

const adminSubject = "admin"

func issueToken(secret []byte, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	expires := now.Add(ttl)
	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   adminSubject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	return signed, expires, err
}

// Login handles POST /api/login.
func Login(c *fiber.Ctx) error {
	d := getDeps()
	if d.AdminPasswordHash == "" {
		return c.Status(fiber.StatusServiceUnavailable).JSON(models.ErrorResponse{Error: "admin login disabled"})
	}

	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{Error: "invalid json"})
	}
	if strings.TrimSpace(req.Password) == "" {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(models.ErrorResponse{Error: "password required"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(d.AdminPasswordHash), []byte(req.Password)); err != nil {
		log.Printf("⚠️ [AUTH] failed admin login from %s", c.IP())
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse{Error: "invalid credentials"})
	}

	token, expiresAt, err := issueToken(d.JWTSecret, d.TokenTTL)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse{Error: "failed to sign token"})
	}
	c.Set("Cache-Control", "no-store")
	return c.JSON(models.LoginResponse{Token: token, ExpiresAt: expiresAt})
}
