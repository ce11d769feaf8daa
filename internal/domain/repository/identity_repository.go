package repository

import (
	"context"
	"errors"

	"multimusic/internal/domain/entity"
)

// ErrIdentityNotFound is returned when an identity link is not found.
var ErrIdentityNotFound = errors.New("identity link not found")

// IdentityRepository defines the standard operations for SSO identity-link persistence.
type IdentityRepository interface {
	// Create persists a new identity link.
	Create(ctx context.Context, link *entity.IdentityLink) error

	// FindBySubject retrieves a link by its provider and provider-assigned subject id.
	FindBySubject(ctx context.Context, provider entity.Provider, subjectID string) (*entity.IdentityLink, error)

	// FindByAccountAndProvider retrieves the link a specific account has with a provider.
	FindByAccountAndProvider(ctx context.Context, accountID string, provider entity.Provider) (*entity.IdentityLink, error)

	// ListByAccount returns all identity links of an account.
	ListByAccount(ctx context.Context, accountID string) ([]*entity.IdentityLink, error)

	// Delete removes the link between an account and a provider.
	Delete(ctx context.Context, accountID string, provider entity.Provider) error
}
