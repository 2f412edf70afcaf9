package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"go.uber.org/zap"
)

// ============================================================
// Logger Middleware
// ============================================================

// Logger возвращает настроенный middleware для логирования запросов
func Logger() fiber.Handler {
	return logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path} | bytes: ${bytesSent}\n",
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	})
}

// ErrorHandler отдает ошибки в виде {"error": ...}; 5xx пишутся в лог.
func ErrorHandler(log *zap.SugaredLogger) fiber.ErrorHandler {
	return func(c fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code = fe.Code
		}
		if code >= fiber.StatusInternalServerError {
			// строки fiber живут только до конца запроса, логгер может держать их дольше
			log.Errorw("request failed",
				"method", strings.Clone(c.Method()),
				"path", strings.Clone(c.Path()),
				"error", err)
		}
		return c.Status(code).JSON(fiber.Map{"error": err.Error()})
	}
}
