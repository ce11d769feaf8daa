// Package middleware contains the echo middleware chain pieces.
package middleware

import (
	"strings"

	deliverycontext "multimusic/internal/delivery/context"
	"multimusic/internal/delivery/http/response"
	domainerrors "multimusic/internal/domain/errors"
	"multimusic/internal/domain/service"

	"github.com/labstack/echo/v4"
)

// AuthMiddleware authenticates requests through the bearer session token.
type AuthMiddleware struct {
	sessions service.SessionService
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(sessions service.SessionService) *AuthMiddleware {
	return &AuthMiddleware{sessions: sessions}
}

// Authenticate validates the session token and stores the account id on the
// request context for handlers to use.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return response.Unauthorized(c, domainerrors.ErrInvalidSession.ErrorCode(), "Authorization header is missing")
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return response.Unauthorized(c, domainerrors.ErrInvalidSession.ErrorCode(), "Invalid token format, must be Bearer token")
		}

		accountID, err := m.sessions.Verify(tokenString)
		if err != nil {
			return response.Unauthorized(c, domainerrors.ErrInvalidSession.ErrorCode(), domainerrors.ErrInvalidSession.Message())
		}

		deliverycontext.SetAccountID(c, accountID)

		return next(c)
	}
}
