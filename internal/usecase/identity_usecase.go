// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"multimusic/internal/domain/entity"
)

// --- Input DTOs ---

// CompleteLoginInput carries the provider callback parameters.
type CompleteLoginInput struct {
	Provider string
	Code     string
	State    string
}

// LinkProviderInput carries the data to attach an additional SSO identity to
// an existing account.
type LinkProviderInput struct {
	AccountID string
	Provider  string
	Code      string
}

// --- Output DTOs ---

// BeginLoginOutput returns the consent URL the client must visit.
type BeginLoginOutput struct {
	AuthURL string
	State   string
}

// CompleteLoginOutput returns the issued session and the resolved account.
type CompleteLoginOutput struct {
	SessionToken string
	Account      *entity.Account
	NewAccount   bool
}

// IdentityUsecase defines the interface for SSO sign-in and identity-link
// operations. This is the contract the delivery layer depends on.
type IdentityUsecase interface {
	BeginLogin(ctx context.Context, provider string) (*BeginLoginOutput, error)
	CompleteLogin(ctx context.Context, input CompleteLoginInput) (*CompleteLoginOutput, error)
	LinkProvider(ctx context.Context, input LinkProviderInput) (*entity.IdentityLink, error)
	UnlinkProvider(ctx context.Context, accountID, provider string) error
}
