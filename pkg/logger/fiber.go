package logger

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// RequestLogger registra una línea por request (método, ruta, status, duración).
// 5xx sale en nivel error; el resto en info.
func RequestLogger(l *Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}
		ev := l.Info()
		if status >= fiber.StatusInternalServerError {
			ev = l.Error().Err(err)
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("elapsed", time.Since(start)).
			Str("ip", c.IP()).
			Msg("request")
		return err
	}
}
