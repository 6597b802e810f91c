package http_server

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// NewLogger writes one line per request. The session header is never
// logged, only whether the caller sent one.
func NewLogger(sessionHeader string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		startTime := time.Now()

		msg := "Booking API request"
		if err := c.Next(); err != nil {
			msg = err.Error()

			if handlerErr := c.App().ErrorHandler(c, err); handlerErr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		code := c.Response().StatusCode()

		event := log.WithLevel(levelForStatus(code)).
			Int("status", code).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Str("ip", clientIP(c)).
			Dur("latency", time.Since(startTime)).
			Bool("session", c.Get(sessionHeader) != "")

		if clientID := c.Params("client"); clientID != "" {
			event = event.Str("client", clientID)
		}

		event.Msg(msg)

		return nil
	}
}

func levelForStatus(code int) zerolog.Level {
	switch {
	case code >= fiber.StatusInternalServerError:
		return zerolog.ErrorLevel
	case code >= fiber.StatusBadRequest:
		return zerolog.WarnLevel
	default:
		return zerolog.InfoLevel
	}
}

// Requests arrive through the Cloudflare tunnel in production
func clientIP(c *fiber.Ctx) string {
	if forwarded := c.Get("CF-Connecting-IP"); forwarded != "" {
		return forwarded
	}

	return c.IP()
}
