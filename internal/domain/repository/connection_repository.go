package repository

import (
	"context"
	"errors"
	"time"

	"multimusic/internal/domain/entity"
)

// ErrConnectionNotFound is returned when a platform connection is not found.
var ErrConnectionNotFound = errors.New("platform connection not found")

// ConnectionRepository defines the standard operations for platform-connection persistence.
//
// Writes are single-record upserts on the (account, platform) key; concurrent
// writers resolve last-write-wins, which is the accepted guarantee for token
// refresh races.
type ConnectionRepository interface {
	// Upsert creates the connection or replaces the existing record for
	// the same (account, platform) pair.
	Upsert(ctx context.Context, conn *entity.PlatformConnection) error

	// Find retrieves the connection for (account, platform).
	Find(ctx context.Context, accountID string, platform entity.Platform) (*entity.PlatformConnection, error)

	// UpdateAccessToken replaces only the stored (encrypted) access token and
	// its expiry, leaving the refresh token untouched.
	UpdateAccessToken(ctx context.Context, accountID string, platform entity.Platform, encryptedAccessToken string, expiresIn int64, expiresAt time.Time) error

	// ListByAccount returns all platform connections of an account.
	ListByAccount(ctx context.Context, accountID string) ([]*entity.PlatformConnection, error)

	// Delete removes the connection for (account, platform).
	// Deleting an absent connection is a no-op, not an error.
	Delete(ctx context.Context, accountID string, platform entity.Platform) error
}
