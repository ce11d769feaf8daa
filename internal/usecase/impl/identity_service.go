// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"strings"

	deliverycontext "multimusic/internal/delivery/context"
	"multimusic/internal/domain/entity"
	domainerrors "multimusic/internal/domain/errors"
	"multimusic/internal/domain/repository"
	"multimusic/internal/domain/service"
	"multimusic/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

const accountIDPrefix = "mmp_"

// identityService implements the IdentityUsecase interface.
type identityService struct {
	providers      map[entity.Provider]service.SSOProvider
	states         service.StateStore
	sessionService service.SessionService
	txManager      repository.TransactionManager
	accountRepo    repository.AccountRepository
	identityRepo   repository.IdentityRepository
	logger         *slog.Logger
}

// IdentityServiceParams holds dependencies for the identity service, injected by Fx.
type IdentityServiceParams struct {
	fx.In

	Providers      map[entity.Provider]service.SSOProvider
	States         service.StateStore
	SessionService service.SessionService
	TxManager      repository.TransactionManager
	AccountRepo    repository.AccountRepository
	IdentityRepo   repository.IdentityRepository
	Logger         *slog.Logger
}

// NewIdentityService is the constructor for identityService.
func NewIdentityService(params IdentityServiceParams) usecase.IdentityUsecase {
	return &identityService{
		providers:      params.Providers,
		states:         params.States,
		sessionService: params.SessionService,
		txManager:      params.TxManager,
		accountRepo:    params.AccountRepo,
		identityRepo:   params.IdentityRepo,
		logger:         params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *identityService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *identityService) provider(name string) (service.SSOProvider, error) {
	p, ok := srv.providers[entity.Provider(strings.ToLower(name))]
	if !ok {
		return nil, domainerrors.ErrUnsupportedProvider.WithDetails(name)
	}

	return p, nil
}

// BeginLogin issues a single-use state and builds the provider consent URL.
func (srv *identityService) BeginLogin(ctx context.Context, providerName string) (*usecase.BeginLoginOutput, error) {
	p, err := srv.provider(providerName)
	if err != nil {
		return nil, err
	}

	state := srv.states.Issue("")
	srv.log(ctx).Debug("Issued login state", slog.String("provider", providerName))

	return &usecase.BeginLoginOutput{
		AuthURL: p.AuthCodeURL(state),
		State:   state,
	}, nil
}

// CompleteLogin validates the callback, resolves or creates the account and
// issues a session.
func (srv *identityService) CompleteLogin(ctx context.Context, input usecase.CompleteLoginInput) (*usecase.CompleteLoginOutput, error) {
	p, err := srv.provider(input.Provider)
	if err != nil {
		return nil, err
	}

	if _, ok := srv.states.Consume(input.State); !ok {
		return nil, domainerrors.ErrInvalidState
	}

	identity, err := p.Exchange(ctx, input.Code)
	if err != nil {
		srv.log(ctx).Warn("Provider exchange failed",
			slog.String("provider", input.Provider), slog.Any("error", err))

		return nil, domainerrors.ErrProviderExchange.WrapMessage("authorization code exchange failed")
	}

	account, created, err := srv.resolveAccount(ctx, p.Provider(), identity)
	if err != nil {
		return nil, err
	}

	sessionToken, err := srv.sessionService.Issue(account.ID)
	if err != nil {
		return nil, errors.Wrap(err, "issue session token")
	}

	srv.log(ctx).Info("Login completed",
		slog.String("provider", input.Provider),
		slog.String("accountID", account.ID),
		slog.Bool("newAccount", created))

	return &usecase.CompleteLoginOutput{
		SessionToken: sessionToken,
		Account:      account,
		NewAccount:   created,
	}, nil
}

// resolveAccount maps a verified SSO identity onto an internal account.
// Resolution is idempotent: the same (provider, subject) always lands on the
// same account.
func (srv *identityService) resolveAccount(ctx context.Context, provider entity.Provider, identity *service.SSOIdentity) (*entity.Account, bool, error) {
	link, err := srv.identityRepo.FindBySubject(ctx, provider, identity.SubjectID)
	if err == nil {
		account, findErr := srv.accountRepo.FindByID(ctx, link.AccountID)
		if findErr != nil {
			return nil, false, errors.Wrap(findErr, "load linked account")
		}

		return account, false, nil
	}
	if !errors.Is(err, repository.ErrIdentityNotFound) {
		return nil, false, errors.Wrap(err, "find identity link")
	}

	account := &entity.Account{
		ID:              newAccountID(),
		Email:           identity.Email,
		DisplayName:     identity.Name,
		AvatarURL:       identity.AvatarURL,
		PrimaryProvider: provider,
	}

	err = srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		if err := repoFactory.AccountRepo().Create(ctx, account); err != nil {
			return err
		}

		return repoFactory.IdentityRepo().Create(ctx, &entity.IdentityLink{
			AccountID: account.ID,
			Provider:  provider,
			SubjectID: identity.SubjectID,
			Email:     identity.Email,
		})
	})
	if err != nil {
		return nil, false, errors.Wrap(err, "create account with identity link")
	}

	return account, true, nil
}

// LinkProvider attaches an additional SSO identity to an existing account.
func (srv *identityService) LinkProvider(ctx context.Context, input usecase.LinkProviderInput) (*entity.IdentityLink, error) {
	p, err := srv.provider(input.Provider)
	if err != nil {
		return nil, err
	}

	if _, err := srv.accountRepo.FindByID(ctx, input.AccountID); err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, domainerrors.ErrAccountNotFound
		}

		return nil, errors.Wrap(err, "load account")
	}

	identity, err := p.Exchange(ctx, input.Code)
	if err != nil {
		return nil, domainerrors.ErrProviderExchange.WrapMessage("authorization code exchange failed")
	}

	existing, err := srv.identityRepo.FindBySubject(ctx, p.Provider(), identity.SubjectID)
	if err == nil {
		if existing.AccountID == input.AccountID {
			// Linking the same identity twice is a no-op.
			return existing, nil
		}

		return nil, domainerrors.ErrIdentityConflict
	}
	if !errors.Is(err, repository.ErrIdentityNotFound) {
		return nil, errors.Wrap(err, "find identity link")
	}

	link := &entity.IdentityLink{
		AccountID: input.AccountID,
		Provider:  p.Provider(),
		SubjectID: identity.SubjectID,
		Email:     identity.Email,
	}
	if err := srv.identityRepo.Create(ctx, link); err != nil {
		return nil, err
	}

	srv.log(ctx).Info("Linked identity provider",
		slog.String("provider", input.Provider),
		slog.String("accountID", input.AccountID))

	return link, nil
}

// UnlinkProvider removes an SSO identity link. The last remaining link of an
// account cannot be removed, otherwise the account would become unreachable.
func (srv *identityService) UnlinkProvider(ctx context.Context, accountID, providerName string) error {
	provider := entity.Provider(strings.ToLower(providerName))
	if _, ok := srv.providers[provider]; !ok {
		return domainerrors.ErrUnsupportedProvider.WithDetails(providerName)
	}

	return srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		identityRepo := repoFactory.IdentityRepo()

		links, err := identityRepo.ListByAccount(ctx, accountID)
		if err != nil {
			return errors.Wrap(err, "list identity links")
		}

		var found bool
		for _, link := range links {
			if link.Provider == provider {
				found = true

				break
			}
		}
		if !found {
			return domainerrors.ErrIdentityNotFound
		}
		if len(links) == 1 {
			return domainerrors.ErrLastIdentity
		}

		if err := identityRepo.Delete(ctx, accountID, provider); err != nil {
			if errors.Is(err, repository.ErrIdentityNotFound) {
				return domainerrors.ErrIdentityNotFound
			}

			return errors.Wrap(err, "delete identity link")
		}

		srv.log(ctx).Info("Unlinked identity provider",
			slog.String("provider", providerName),
			slog.String("accountID", accountID))

		return nil
	})
}

// newAccountID mints an internal account id of the form mmp_<32 hex chars>.
func newAccountID() string {
	raw := uuid.New()

	return accountIDPrefix + strings.ReplaceAll(raw.String(), "-", "")
}
