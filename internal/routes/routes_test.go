package routes

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/gmbcrawl/internal/crawler"
	"github.com/yourorg/gmbcrawl/internal/docstore"
	"github.com/yourorg/gmbcrawl/internal/handlers"
	"github.com/yourorg/gmbcrawl/internal/models"
	"github.com/yourorg/gmbcrawl/internal/scheduler"
)

var secret = []byte("0123456789abcdef0123456789abcdef")

func TestRegister(t *testing.T) {
	release := make(chan struct{})
	trigger := scheduler.NewTrigger(func(ctx context.Context, _ string) (*models.CrawlSummary, error) {
		<-release
		return &models.CrawlSummary{}, nil
	}, time.Minute)
	t.Cleanup(func() {
		close(release)
		trigger.Wait()
	})

	handlers.Setup(handlers.Deps{
		Store:     docstore.NewMemory(),
		Runs:      crawler.NewMemoryRecorder(),
		Trigger:   trigger,
		JWTSecret: secret,
	})
	app := fiber.New()
	Register(app, secret)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/api/health", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(fiber.MethodPost, "/api/crawl", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.False(t, trigger.Running())

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "admin",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(secret)
	require.NoError(t, err)

	req := httptest.NewRequest(fiber.MethodPost, "/api/crawl", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusAccepted, resp.StatusCode)
	assert.True(t, trigger.Running())

	req = httptest.NewRequest(fiber.MethodPost, "/api/crawl", nil)
	req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	// dashboard disabled: websocket route not mounted
	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/api/debug/ws", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
