package middleware

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestErrorHandler(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(zap.New(core).Sugar())})
	app.Use(CORS())
	app.Get("/teapot", func(c fiber.Ctx) error { return fiber.NewError(fiber.StatusTeapot, "short and stout") })
	app.Get("/boom", func(c fiber.Ctx) error { return errors.New("boom") })

	tests := []struct {
		target string
		status int
		body   string
	}{
		{"/teapot", fiber.StatusTeapot, `{"error":"short and stout"}`},
		{"/boom", fiber.StatusInternalServerError, `{"error":"boom"}`},
		{"/missing", fiber.StatusNotFound, `{"error":"Not Found"}`},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, tt.target, nil))
			require.NoError(t, err)
			defer resp.Body.Close()

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
			assert.JSONEq(t, tt.body, string(body))
		})
	}

	// в лог попадают только 5xx
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "/boom", logs.All()[0].ContextMap()["path"])
	assert.Equal(t, http.MethodGet, logs.All()[0].ContextMap()["method"])
}

func TestErrorHandlerKeepsLoggedPath(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(zap.New(core).Sugar())})
	app.Get("/first", func(c fiber.Ctx) error { return errors.New("first failed") })
	app.Get("/second-longer-path", func(c fiber.Ctx) error { return errors.New("second failed") })

	for _, target := range []string{"/first", "/second-longer-path", "/zzzzzz"} {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, target, nil))
		require.NoError(t, err)
		resp.Body.Close()
	}

	// следующие запросы не должны перетирать уже записанные поля
	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "/first", logs.All()[0].ContextMap()["path"])
	assert.Equal(t, "/second-longer-path", logs.All()[1].ContextMap()["path"])
}
