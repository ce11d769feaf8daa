package middleware

import (
	"log/slog"

	deliverycontext "multimusic/internal/delivery/context"
	"multimusic/internal/delivery/http/response"
	domainerrors "multimusic/internal/domain/errors"
	"multimusic/internal/errors"

	"github.com/labstack/echo/v4"
)

// ErrorMiddleware converts application errors escaping the handlers into the
// unified response envelope.
type ErrorMiddleware struct {
	logger *slog.Logger
}

// NewErrorMiddleware is the constructor for ErrorMiddleware.
func NewErrorMiddleware(logger *slog.Logger) *ErrorMiddleware {
	return &ErrorMiddleware{logger: logger}
}

// Handle maps errors to HTTP responses. AppErrors carry their own status and
// business code; anything else becomes a 500 without leaking internals.
func (m *ErrorMiddleware) Handle(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		err := next(c)
		if err == nil {
			return nil
		}
		if c.Response().Committed {
			return err
		}

		var appErr domainerrors.AppError
		if errors.As(err, &appErr) {
			if appErr.HTTPCode() >= 500 {
				m.log(c).Error("Request failed",
					slog.String("code", appErr.ErrorCode()),
					slog.Any("error", err))
			}

			return response.Error(c, appErr.HTTPCode(), appErr.ErrorCode(), appErr.Message(), appErr.Details())
		}

		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			return response.Error(c, httpErr.Code, "HTTP_ERROR", echoErrorMessage(httpErr), "")
		}

		m.log(c).Error("Unhandled error", slog.Any("error", err))

		return response.InternalServerError(c,
			domainerrors.ErrInternalError.ErrorCode(),
			domainerrors.ErrInternalError.Message())
	}
}

func (m *ErrorMiddleware) log(c echo.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(c.Request().Context(), m.logger)
}

func echoErrorMessage(httpErr *echo.HTTPError) string {
	if msg, ok := httpErr.Message.(string); ok {
		return msg
	}

	return ""
}
