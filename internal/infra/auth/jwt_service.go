// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"multimusic/config"
	"multimusic/internal/domain/service"
)

// jwtSessionService is a concrete implementation of the SessionService
// interface using the JWT standard.
type jwtSessionService struct {
	secret string        // Secret key for signing session tokens.
	ttl    time.Duration // Time-to-live for session tokens.
}

// NewJWTSessionService is the constructor for jwtSessionService.
func NewJWTSessionService(cfg *config.Config) (service.SessionService, error) {
	if cfg.Session == nil || cfg.Session.Secret == "" {
		return nil, errors.New("session secret must be provided")
	}

	return &jwtSessionService{
		secret: cfg.Session.Secret,
		ttl:    cfg.Session.TTL,
	}, nil
}

// Issue creates a signed session token carrying the account id as subject.
func (s *jwtSessionService) Issue(accountID string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": accountID,              // Subject (who the token is for)
		"iat": now.Unix(),             // Issued At
		"exp": now.Add(s.ttl).Unix(),  // Expiration Time
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(s.secret))
}

// Verify validates a session token and extracts the account id.
func (s *jwtSessionService) Verify(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		// Ensure the signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}

		return []byte(s.secret), nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", jwt.ErrTokenInvalidClaims
	}

	sub, err := token.Claims.GetSubject()
	if err != nil {
		return "", err
	}
	if sub == "" {
		return "", errors.New("session token has no subject")
	}

	return sub, nil
}
