package logger_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/cotizador/pkg/logger"
)

func TestRequestLogger_RegistraStatus(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Out: &buf})

	app := fiber.New()
	app.Use(logger.RequestLogger(log))
	app.Get("/x", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusTeapot) })

	resp, err := app.Test(httptest.NewRequest("GET", "/x", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusTeapot, resp.StatusCode)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "GET", entry["method"])
	assert.Equal(t, "/x", entry["path"])
	assert.EqualValues(t, fiber.StatusTeapot, entry["status"])
	assert.Equal(t, "info", entry["level"])
}
