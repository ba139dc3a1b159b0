package middleware

import (
	"time"

	"github.com/hashreftech/jewellery-billing-software-sub000/pkg/logger"
	"github.com/hashreftech/jewellery-billing-software-sub000/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RequestLogMiddleware logs every request and records its HTTP metrics
// under the route pattern, not the raw path.
func RequestLogMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()

		err := next(c)
		if err != nil {
			// Let echo write the error response so the status is final.
			c.Error(err)
		}

		duration := time.Since(start)
		status := c.Response().Status
		path := c.Path()
		if path == "" {
			path = "unmatched"
		}

		logger.FromContext(c).Info("HTTP Request",
			zap.String("method", c.Request().Method),
			zap.String("path", c.Request().URL.Path),
			zap.Int("status", status),
			zap.Float64("duration_s", duration.Seconds()),
			zap.String("ip", c.RealIP()),
		)
		prometheus.RecordHTTPRequest(c.Request().Method, path, status, duration)

		return nil
	}
}
