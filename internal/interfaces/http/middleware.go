package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"

	"github.com/jhoicas/gestion-stock/pkg/logger"
)

// Locals keys en Fiber.
const (
	LocalRequestID    = "request_id"
	LocalAPIDegradada = "api_degradada"
)

// RequestID asigna un UUID por petición (header X-Request-ID) y lo deja en c.Locals.
func RequestID() fiber.Handler {
	return requestid.New(requestid.Config{
		Header:     fiber.HeaderXRequestID,
		Generator:  uuid.NewString,
		ContextKey: LocalRequestID,
	})
}

// GetRequestID devuelve el id de la petición (después de RequestID).
func GetRequestID(c *fiber.Ctx) string {
	v := c.Locals(LocalRequestID)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

// RequestLogger registra método, ruta, status y latencia de cada petición.
// 5xx se loguea como error y 4xx como warn.
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}
		ev := log.Info()
		switch {
		case status >= fiber.StatusInternalServerError:
			ev = log.Error().Err(err)
		case status >= fiber.StatusBadRequest:
			ev = log.Warn()
		}
		ev.Str("request_id", GetRequestID(c)).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("http request")
		return err
	}
}

// APIStatus marca la petición cuando la API de stock está cortada (circuit breaker
// abierto) para que el layout muestre el aviso. abierto nil = siempre disponible.
func APIStatus(abierto func() bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if abierto != nil && abierto() {
			c.Locals(LocalAPIDegradada, true)
		}
		return c.Next()
	}
}
