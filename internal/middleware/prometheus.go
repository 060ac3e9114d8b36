package middleware

import (
	"errors"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/travel-bucket/internal/metrics"
)

const unmatchedRoute = "unmatched"

// Prometheus records request count and latency per route template.
func Prometheus(m *metrics.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			// Unmatched paths share one label to keep cardinality bounded.
			path := c.Path()
			if path == "" || errors.Is(err, echo.ErrNotFound) || errors.Is(err, echo.ErrMethodNotAllowed) {
				path = unmatchedRoute
			}

			m.ObserveRequest(path, c.Request().Method, responseStatus(c, err), time.Since(start))
			return err
		}
	}
}
