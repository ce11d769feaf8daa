// Package service defines domain service interfaces implemented by the
// infrastructure layer.
package service

import (
	"context"

	"multimusic/internal/domain/entity"
)

// SSOIdentity is the verified identity returned by an SSO provider after a
// successful authorization-code exchange.
type SSOIdentity struct {
	SubjectID string
	Email     string
	Name      string
	AvatarURL string
}

// SSOProvider abstracts a single-sign-on identity provider.
type SSOProvider interface {
	// Provider returns the provider this implementation serves.
	Provider() entity.Provider

	// AuthCodeURL builds the provider's consent-screen URL carrying the
	// given opaque state value.
	AuthCodeURL(state string) string

	// Exchange redeems an authorization code for the provider's verified
	// view of the user.
	Exchange(ctx context.Context, code string) (*SSOIdentity, error)
}
