package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	deliverycontext "multimusic/internal/delivery/context"
	"multimusic/internal/domain/entity"
	domainerrors "multimusic/internal/domain/errors"
	"multimusic/internal/domain/repository"
	"multimusic/internal/domain/service"
	"multimusic/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// platformService implements the PlatformUsecase interface.
type platformService struct {
	platforms      map[entity.Platform]service.PlatformClient
	states         service.StateStore
	cipher         service.TokenCipher
	accountRepo    repository.AccountRepository
	connectionRepo repository.ConnectionRepository
	now            func() time.Time
	logger         *slog.Logger
}

// PlatformServiceParams holds dependencies for the platform service, injected by Fx.
type PlatformServiceParams struct {
	fx.In

	Platforms      map[entity.Platform]service.PlatformClient
	States         service.StateStore
	Cipher         service.TokenCipher
	AccountRepo    repository.AccountRepository
	ConnectionRepo repository.ConnectionRepository
	Logger         *slog.Logger
}

// NewPlatformService is the constructor for platformService.
func NewPlatformService(params PlatformServiceParams) usecase.PlatformUsecase {
	return &platformService{
		platforms:      params.Platforms,
		states:         params.States,
		cipher:         params.Cipher,
		accountRepo:    params.AccountRepo,
		connectionRepo: params.ConnectionRepo,
		now:            time.Now,
		logger:         params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *platformService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *platformService) client(name string) (service.PlatformClient, error) {
	c, ok := srv.platforms[entity.Platform(strings.ToLower(name))]
	if !ok {
		return nil, domainerrors.ErrUnsupportedPlatform.WithDetails(name)
	}

	return c, nil
}

// BeginConnect issues a connect state bound to the account and builds the
// platform consent URL. The state travels as accountID:<nonce> so the
// callback can recover the account without a session cookie.
func (srv *platformService) BeginConnect(ctx context.Context, accountID, platformName string) (*usecase.BeginConnectOutput, error) {
	c, err := srv.client(platformName)
	if err != nil {
		return nil, err
	}

	if _, err := srv.accountRepo.FindByID(ctx, accountID); err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, domainerrors.ErrAccountNotFound
		}

		return nil, errors.Wrap(err, "load account")
	}

	// The PKCE verifier (empty for non-PKCE platforms) is the state payload
	// so Exchange can prove possession later.
	verifier := c.NewVerifier()
	nonce := srv.states.Issue(verifier)
	state := accountID + ":" + nonce
	url := c.AuthCodeURL(state, verifier)
	srv.log(ctx).Debug("Issued connect state",
		slog.String("platform", platformName), slog.String("accountID", accountID))

	return &usecase.BeginConnectOutput{AuthURL: url, State: state}, nil
}

// CompleteConnect validates the callback state, exchanges the code and stores
// the encrypted token set.
func (srv *platformService) CompleteConnect(ctx context.Context, input usecase.CompleteConnectInput) (*entity.PlatformConnection, error) {
	c, err := srv.client(input.Platform)
	if err != nil {
		return nil, err
	}

	accountID, nonce, ok := strings.Cut(input.State, ":")
	if !ok || accountID == "" || nonce == "" {
		return nil, domainerrors.ErrInvalidState
	}

	verifier, ok := srv.states.Consume(nonce)
	if !ok {
		return nil, domainerrors.ErrInvalidState
	}

	tokens, err := c.Exchange(ctx, input.Code, verifier)
	if err != nil {
		srv.log(ctx).Warn("Platform exchange failed",
			slog.String("platform", input.Platform), slog.Any("error", err))

		return nil, domainerrors.ErrProviderExchange.WrapMessage("authorization code exchange failed")
	}

	conn, err := srv.buildConnection(accountID, c.Platform(), tokens)
	if err != nil {
		return nil, err
	}

	if err := srv.connectionRepo.Upsert(ctx, conn); err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Platform connected",
		slog.String("platform", input.Platform),
		slog.String("accountID", accountID))

	return conn, nil
}

func (srv *platformService) buildConnection(accountID string, platform entity.Platform, tokens *service.PlatformTokens) (*entity.PlatformConnection, error) {
	sealedAccess, err := srv.cipher.Encrypt(tokens.AccessToken)
	if err != nil {
		return nil, errors.Wrap(err, "encrypt access token")
	}

	var sealedRefresh string
	if tokens.RefreshToken != "" {
		sealedRefresh, err = srv.cipher.Encrypt(tokens.RefreshToken)
		if err != nil {
			return nil, errors.Wrap(err, "encrypt refresh token")
		}
	}

	return &entity.PlatformConnection{
		AccountID:      accountID,
		Platform:       platform,
		PlatformUserID: tokens.PlatformUserID,
		AccessToken:    sealedAccess,
		RefreshToken:   sealedRefresh,
		Scope:          tokens.Scope,
		ExpiresIn:      tokens.ExpiresIn,
		ExpiresAt:      srv.now().Add(time.Duration(tokens.ExpiresIn) * time.Second),
	}, nil
}

// Refresh exchanges the stored refresh token for a fresh access token. The
// stored record is only touched after the platform accepts the refresh, so a
// rejected refresh leaves the connection exactly as it was.
func (srv *platformService) Refresh(ctx context.Context, accountID, platformName string) (*usecase.RefreshOutput, error) {
	c, err := srv.client(platformName)
	if err != nil {
		return nil, err
	}

	conn, err := srv.connectionRepo.Find(ctx, accountID, c.Platform())
	if err != nil {
		if errors.Is(err, repository.ErrConnectionNotFound) {
			return nil, domainerrors.ErrPlatformNotConnected
		}

		return nil, errors.Wrap(err, "load platform connection")
	}

	if conn.RefreshToken == "" {
		return nil, domainerrors.ErrTokenRefresh.WrapMessage("no refresh token stored for this connection")
	}

	refreshToken, err := srv.cipher.Decrypt(conn.RefreshToken)
	if err != nil {
		return nil, domainerrors.ErrTokenDecrypt
	}

	tokens, err := c.Refresh(ctx, refreshToken)
	if err != nil {
		srv.log(ctx).Warn("Token refresh rejected",
			slog.String("platform", platformName),
			slog.String("accountID", accountID),
			slog.Any("error", err))

		return nil, domainerrors.ErrTokenRefresh
	}

	sealedAccess, err := srv.cipher.Encrypt(tokens.AccessToken)
	if err != nil {
		return nil, errors.Wrap(err, "encrypt access token")
	}

	expiresAt := srv.now().Add(time.Duration(tokens.ExpiresIn) * time.Second)

	if tokens.RefreshToken != "" && tokens.RefreshToken != refreshToken {
		// The platform rotated the refresh token, persist the new one too.
		sealedRefresh, sealErr := srv.cipher.Encrypt(tokens.RefreshToken)
		if sealErr != nil {
			return nil, errors.Wrap(sealErr, "encrypt rotated refresh token")
		}

		conn.AccessToken = sealedAccess
		conn.RefreshToken = sealedRefresh
		conn.ExpiresIn = tokens.ExpiresIn
		conn.ExpiresAt = expiresAt
		if err := srv.connectionRepo.Upsert(ctx, conn); err != nil {
			return nil, err
		}
	} else {
		err = srv.connectionRepo.UpdateAccessToken(ctx, accountID, c.Platform(), sealedAccess, tokens.ExpiresIn, expiresAt)
		if err != nil {
			if errors.Is(err, repository.ErrConnectionNotFound) {
				return nil, domainerrors.ErrPlatformNotConnected
			}

			return nil, err
		}
	}

	srv.log(ctx).Info("Access token refreshed",
		slog.String("platform", platformName),
		slog.String("accountID", accountID))

	return &usecase.RefreshOutput{
		AccessToken: tokens.AccessToken,
		ExpiresIn:   tokens.ExpiresIn,
	}, nil
}

// Disconnect removes the platform connection. Disconnecting an absent
// platform succeeds silently.
func (srv *platformService) Disconnect(ctx context.Context, accountID, platformName string) error {
	c, err := srv.client(platformName)
	if err != nil {
		return err
	}

	if err := srv.connectionRepo.Delete(ctx, accountID, c.Platform()); err != nil {
		return errors.Wrap(err, "delete platform connection")
	}

	srv.log(ctx).Info("Platform disconnected",
		slog.String("platform", platformName),
		slog.String("accountID", accountID))

	return nil
}
