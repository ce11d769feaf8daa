package usecase

import (
	"context"
	"time"

	"multimusic/internal/domain/entity"
)

// --- Output DTOs ---

// AuthProviderInfo describes one linked SSO identity.
type AuthProviderInfo struct {
	Provider entity.Provider
	Email    string
	LinkedAt time.Time
}

// PlatformInfo describes one platform connection without exposing tokens.
type PlatformInfo struct {
	Platform       entity.Platform
	PlatformUserID string
	Connected      bool
	TokenExpired   bool
	Scope          string
	ExpiresAt      time.Time
	ConnectedAt    time.Time
}

// ProfileUsecase defines the read-side operations for the signed-in account.
type ProfileUsecase interface {
	GetProfile(ctx context.Context, accountID string) (*entity.Account, error)
	ListAuthProviders(ctx context.Context, accountID string) ([]*AuthProviderInfo, error)
	ListPlatforms(ctx context.Context, accountID string) ([]*PlatformInfo, error)
}
