package usecase

import (
	"context"

	"multimusic/internal/domain/entity"
)

// --- Input DTOs ---

// CompleteConnectInput carries the platform callback parameters.
type CompleteConnectInput struct {
	Platform string
	Code     string
	State    string
}

// --- Output DTOs ---

// BeginConnectOutput returns the consent URL the client must visit.
type BeginConnectOutput struct {
	AuthURL string
	State   string
}

// RefreshOutput returns the fresh plaintext access token.
type RefreshOutput struct {
	AccessToken string
	ExpiresIn   int64
}

// PlatformUsecase defines the interface for music-platform connection
// operations.
type PlatformUsecase interface {
	BeginConnect(ctx context.Context, accountID, platform string) (*BeginConnectOutput, error)
	CompleteConnect(ctx context.Context, input CompleteConnectInput) (*entity.PlatformConnection, error)
	Refresh(ctx context.Context, accountID, platform string) (*RefreshOutput, error)
	Disconnect(ctx context.Context, accountID, platform string) error
}
