package fiber_test

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tourmarket/tourmarket/internal/logger"
	adapter "github.com/tourmarket/tourmarket/internal/logger/adapter/fiber"
)

type accessEntry struct {
	Status int    `json:"status"`
	URI    string `json:"URI"`
	Method string `json:"method"`
	Host   string `json:"host"`
	UserID string `json:"user_id"`
	Error  string `json:"error"`
}

func newApp(cfg adapter.Config) *fiber.App {
	app := fiber.New()
	app.Use(adapter.New(cfg))

	app.Get("/", func(c *fiber.Ctx) error {
		c.Locals("user_id", "u-1")
		return c.SendString("hello")
	})
	app.Get("/checkalive", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})
	app.Get("/boom", func(_ *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusTeapot, "boom")
	})

	return app
}

func TestAccessLog(t *testing.T) {
	testCases := []struct {
		name   string
		target string
		want   *accessEntry
	}{
		{"root", "/", &accessEntry{Status: 200, URI: "/", Method: "GET", Host: "example.com", UserID: "u-1"}},
		{"query kept", "/?q=1", &accessEntry{Status: 200, URI: "/?q=1", Method: "GET", Host: "example.com", UserID: "u-1"}},
		{"not found", "/missing", &accessEntry{Status: 404, URI: "/missing", Method: "GET", Host: "example.com", Error: "Cannot GET /missing"}},
		{"handler error", "/boom", &accessEntry{Status: 418, URI: "/boom", Method: "GET", Host: "example.com", Error: "boom"}},
		{"checkalive skipped", "/checkalive", nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer

			app := newApp(adapter.Config{
				Config:        logger.Log{DisableCheckAlive: true},
				CheckAliveURI: "/checkalive",
				Output:        &buf,
			})

			resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, tc.target, nil))
			require.NoError(t, err)
			assert.NotEmpty(t, resp.Header.Get("X-Performance"))

			if tc.want == nil {
				assert.Zero(t, buf.Len())
				return
			}

			var got accessEntry
			require.NoError(t, json.Unmarshal(buf.Bytes(), &got), buf.String())
			assert.Equal(t, *tc.want, got)
		})
	}
}

func TestNoWritersNoOutput(t *testing.T) {
	app := newApp(adapter.Config{})

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
