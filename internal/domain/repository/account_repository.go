// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"multimusic/internal/domain/entity"
)

// ErrAccountNotFound is a domain-specific error returned when an account is not found.
var ErrAccountNotFound = errors.New("account not found")

// AccountRepository defines the standard operations for account persistence.
// The application layer depends on this interface, not the concrete implementation.
type AccountRepository interface {
	// FindByID retrieves a single account by its internal id.
	FindByID(ctx context.Context, id string) (*entity.Account, error)

	// Create persists a new account. The implementation assigns the id.
	Create(ctx context.Context, account *entity.Account) error

	// Update modifies an existing account's profile fields.
	Update(ctx context.Context, account *entity.Account) error
}
