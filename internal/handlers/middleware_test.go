package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"flood-watch/internal/logger"
)

func TestRequestContextTagsLogLines(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger.Set(zap.New(core))
	t.Cleanup(func() { logger.Set(zap.NewNop()) })

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(RequestContext())
	app.Get("/api/ping", func(c *fiber.Ctx) error {
		logger.Infof(c.UserContext(), "http: pong")
		return c.SendStatus(fiber.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	req.Header.Set(fiber.HeaderXRequestID, "req-42")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, "req-42", resp.Header.Get(fiber.HeaderXRequestID))

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/ping", nil), -1)
	require.NoError(t, err)
	generated := resp.Header.Get(fiber.HeaderXRequestID)
	_, err = uuid.Parse(generated)
	assert.NoError(t, err, "a missing id is generated")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "req-42", entries[0].ContextMap()["request_id"])
	assert.Equal(t, "/api/ping", entries[0].ContextMap()["path"])
	assert.Equal(t, generated, entries[1].ContextMap()["request_id"])
}

func TestRequestContextReachesErrorHandler(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	logger.Set(zap.New(core))
	t.Cleanup(func() { logger.Set(zap.NewNop()) })

	app := fiber.New(fiber.Config{DisableStartupMessage: true, ErrorHandler: ErrorHandler})
	app.Use(RequestContext())
	app.Get("/api/boom", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusBadGateway, "upstream down")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/boom", nil)
	req.Header.Set(fiber.HeaderXRequestID, "req-7")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "req-7", entries[0].ContextMap()["request_id"])
}
