package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "multimusic/internal/delivery/context"
	"multimusic/internal/domain/entity"
	domainerrors "multimusic/internal/domain/errors"
	"multimusic/internal/domain/repository"
	"multimusic/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// profileService implements the ProfileUsecase interface.
type profileService struct {
	accountRepo    repository.AccountRepository
	identityRepo   repository.IdentityRepository
	connectionRepo repository.ConnectionRepository
	logger         *slog.Logger
}

// ProfileServiceParams holds dependencies for the profile service, injected by Fx.
type ProfileServiceParams struct {
	fx.In

	AccountRepo    repository.AccountRepository
	IdentityRepo   repository.IdentityRepository
	ConnectionRepo repository.ConnectionRepository
	Logger         *slog.Logger
}

// NewProfileService is the constructor for profileService.
func NewProfileService(params ProfileServiceParams) usecase.ProfileUsecase {
	return &profileService{
		accountRepo:    params.AccountRepo,
		identityRepo:   params.IdentityRepo,
		connectionRepo: params.ConnectionRepo,
		logger:         params.Logger,
	}
}

func (srv *profileService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// GetProfile returns the account's profile fields.
func (srv *profileService) GetProfile(ctx context.Context, accountID string) (*entity.Account, error) {
	account, err := srv.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, domainerrors.ErrAccountNotFound
		}

		return nil, errors.Wrap(err, "load account")
	}

	return account, nil
}

// ListAuthProviders returns the SSO identities linked to the account.
func (srv *profileService) ListAuthProviders(ctx context.Context, accountID string) ([]*usecase.AuthProviderInfo, error) {
	links, err := srv.identityRepo.ListByAccount(ctx, accountID)
	if err != nil {
		srv.log(ctx).Error("Failed to list identity links",
			slog.String("accountID", accountID), slog.Any("error", err))

		return nil, errors.Wrap(err, "list identity links")
	}

	infos := make([]*usecase.AuthProviderInfo, 0, len(links))
	for _, link := range links {
		infos = append(infos, &usecase.AuthProviderInfo{
			Provider: link.Provider,
			Email:    link.Email,
			LinkedAt: link.LinkedAt,
		})
	}

	return infos, nil
}

// ListPlatforms returns the platform connections of the account. Token
// ciphertext never leaves this layer.
func (srv *profileService) ListPlatforms(ctx context.Context, accountID string) ([]*usecase.PlatformInfo, error) {
	conns, err := srv.connectionRepo.ListByAccount(ctx, accountID)
	if err != nil {
		srv.log(ctx).Error("Failed to list platform connections",
			slog.String("accountID", accountID), slog.Any("error", err))

		return nil, errors.Wrap(err, "list platform connections")
	}

	now := time.Now()
	infos := make([]*usecase.PlatformInfo, 0, len(conns))
	for _, conn := range conns {
		infos = append(infos, &usecase.PlatformInfo{
			Platform:       conn.Platform,
			PlatformUserID: conn.PlatformUserID,
			Connected:      true,
			TokenExpired:   conn.Expired(now),
			Scope:          conn.Scope,
			ExpiresAt:      conn.ExpiresAt,
			ConnectedAt:    conn.ConnectedAt,
		})
	}

	return infos, nil
}
