package main

import (
	"context"
	"log/slog"
	"os"

	"multimusic/config"
	"multimusic/internal/delivery"
	"multimusic/internal/delivery/http"
	"multimusic/internal/delivery/http/middleware"
	"multimusic/internal/delivery/http/router/handler"
	"multimusic/internal/domain/entity"
	"multimusic/internal/domain/service"
	"multimusic/internal/infra/auth"
	"multimusic/internal/infra/crypto"
	logs "multimusic/internal/infra/log"
	"multimusic/internal/infra/oauth/google"
	"multimusic/internal/infra/oauth/soundcloud"
	"multimusic/internal/infra/oauth/spotify"
	"multimusic/internal/infra/oauth/state"
	"multimusic/internal/infra/oauth/youtube"
	"multimusic/internal/infra/persistence/postgres"
	"multimusic/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		postgres.New,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			postgres.NewAccountRepository,
			postgres.NewIdentityRepository,
			postgres.NewConnectionRepository,
			postgres.NewTransactionManager,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewJWTSessionService,
			newTokenCipher,
			newStateStore,
			newSSOProviders,
			newPlatformClients,
		),
	)
}

// newTokenCipher builds the AES codec sealing platform tokens at rest.
func newTokenCipher(cfg *config.Config) (service.TokenCipher, error) {
	return crypto.NewAESTokenCipher(cfg.Encryption.Key)
}

// newStateStore builds the single-use OAuth state store.
func newStateStore(cfg *config.Config) service.StateStore {
	return state.New(cfg.OAuth.StateTTL)
}

// newSSOProviders builds the registry of configured SSO providers.
func newSSOProviders(cfg *config.Config) (map[entity.Provider]service.SSOProvider, error) {
	providers := make(map[entity.Provider]service.SSOProvider)

	if cfg.OAuth.Google != nil {
		googleProvider, err := google.NewProvider(cfg.OAuth.Google)
		if err != nil {
			return nil, err
		}
		providers[googleProvider.Provider()] = googleProvider
	}

	return providers, nil
}

// newPlatformClients builds the registry of configured platform clients.
// Platforms without registered OAuth clients simply stay unavailable.
func newPlatformClients(cfg *config.Config) (map[entity.Platform]service.PlatformClient, error) {
	clients := make(map[entity.Platform]service.PlatformClient)

	if cfg.OAuth.Spotify != nil {
		spotifyClient, err := spotify.NewClient(cfg.OAuth.Spotify)
		if err != nil {
			return nil, err
		}
		clients[spotifyClient.Platform()] = spotifyClient
	}

	if cfg.OAuth.YouTube != nil {
		youtubeClient, err := youtube.NewClient(cfg.OAuth.YouTube)
		if err != nil {
			return nil, err
		}
		clients[youtubeClient.Platform()] = youtubeClient
	}

	if cfg.OAuth.SoundCloud != nil {
		soundcloudClient, err := soundcloud.NewClient(cfg.OAuth.SoundCloud)
		if err != nil {
			return nil, err
		}
		clients[soundcloudClient.Platform()] = soundcloudClient
	}

	return clients, nil
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewIdentityService,
			impl.NewPlatformService,
			impl.NewProfileService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewAuthMiddleware,
			middleware.NewErrorMiddleware,
			middleware.NewRequestContextMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewAuthHandler,
			handler.NewPlatformHandler,
			handler.NewUserHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				http.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
