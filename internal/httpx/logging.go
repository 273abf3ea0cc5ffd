package httpx

import (
	"time"

	"expense-backoffice/internal/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const CtxRequestIDKey = "request_id"

// RequestLogger her isteğe bir request id verir ve zerolog ile loglar.
func RequestLogger() fiber.Handler {
	log := logger.WithComponent("http")
	return func(c *fiber.Ctx) error {
		start := time.Now()
		reqID := c.Get("X-Request-ID")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Locals(CtxRequestIDKey, reqID)
		c.Set("X-Request-ID", reqID)

		err := c.Next()
		if err != nil {
			// ErrorHandler status'u yazsın diye önce çalıştırılır
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		log.Info().
			Str("request_id", reqID).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", c.Response().StatusCode()).
			Dur("took", time.Since(start)).
			Msg("istek")
		return nil
	}
}
