package http

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/jhoicas/Facturacion-api/internal/observability"
	"github.com/jhoicas/Facturacion-api/pkg/logger"
)

// HeaderRequestID header del identificador de correlación.
const HeaderRequestID = "X-Request-ID"

// RequestLogger registra cada petición con un request id de correlación y
// alimenta el histograma de latencia.
func RequestLogger(log *logger.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		reqID := c.Get(HeaderRequestID)
		if reqID == "" {
			reqID = uuid.New().String()
		}
		c.Set(HeaderRequestID, reqID)

		err := c.Next()

		status := c.Response().StatusCode()
		elapsed := time.Since(start)
		if metrics != nil {
			metrics.HTTPRequestDuration.
				WithLabelValues(c.Method(), c.Route().Path, strconv.Itoa(status)).
				Observe(elapsed.Seconds())
		}
		log.Info().
			Str("request_id", reqID).
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("elapsed", elapsed).
			Msg("request")
		return err
	}
}
