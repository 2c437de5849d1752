package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/saturnino-fabrica-de-software/rekko-emotion/internal/metrics"
)

// Metrics records request count and latency per route. It must run outside
// Logger, which renders chain errors and fixes the final status code.
func Metrics(m *metrics.EmotionMetrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		// route pattern, not the raw path, keeps label cardinality bounded
		status := c.Response().StatusCode()
		path := c.Route().Path
		if path == "" || status == fiber.StatusNotFound {
			path = "unmatched"
		}

		m.RecordHTTPRequest(c.Method(), path, status, time.Since(start))
		return err
	}
}
