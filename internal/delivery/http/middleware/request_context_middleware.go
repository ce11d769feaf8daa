package middleware

import (
	"log/slog"

	deliverycontext "multimusic/internal/delivery/context"

	"github.com/labstack/echo/v4"
)

// RequestContextMiddleware assigns each request an id and a request-scoped
// logger carrying it, so every layer logs with the same correlation id.
type RequestContextMiddleware struct {
	logger *slog.Logger
}

// NewRequestContextMiddleware is the constructor for RequestContextMiddleware.
func NewRequestContextMiddleware(logger *slog.Logger) *RequestContextMiddleware {
	return &RequestContextMiddleware{logger: logger}
}

// Handle populates the request id and logger on both the echo context and
// the underlying request context.
func (m *RequestContextMiddleware) Handle(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := c.Request().Header.Get(deliverycontext.HeaderXRequestID)
		if requestID == "" {
			requestID = deliverycontext.GetRequestID(c)
		}
		deliverycontext.SetRequestID(c, requestID)
		c.Response().Header().Set(deliverycontext.HeaderXRequestID, requestID)

		requestLogger := m.logger.With(slog.String("requestId", requestID))

		ctx := c.Request().Context()
		ctx = deliverycontext.WithRequestID(ctx, requestID)
		ctx = deliverycontext.WithLogger(ctx, requestLogger)
		c.SetRequest(c.Request().WithContext(ctx))

		return next(c)
	}
}
