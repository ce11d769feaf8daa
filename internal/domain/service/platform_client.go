package service

import (
	"context"

	"multimusic/internal/domain/entity"
)

// PlatformTokens carries the plaintext token set returned by a streaming
// platform. Tokens are encrypted before they ever reach persistence.
type PlatformTokens struct {
	AccessToken    string
	RefreshToken   string
	Scope          string
	ExpiresIn      int64
	PlatformUserID string
}

// PlatformClient abstracts a streaming platform's OAuth surface.
type PlatformClient interface {
	// Platform returns the platform this client serves.
	Platform() entity.Platform

	// NewVerifier mints a PKCE code verifier, or returns an empty string
	// for platforms that do not use PKCE.
	NewVerifier() string

	// AuthCodeURL builds the platform's consent URL for the given state.
	// verifier is the value returned by NewVerifier for this flow.
	AuthCodeURL(state, verifier string) string

	// Exchange redeems an authorization code for a token set and resolves
	// the platform-side user id.
	Exchange(ctx context.Context, code, verifier string) (*PlatformTokens, error)

	// Refresh obtains a fresh access token from a refresh token. The
	// returned RefreshToken may be empty when the platform does not
	// rotate it.
	Refresh(ctx context.Context, refreshToken string) (*PlatformTokens, error)
}
