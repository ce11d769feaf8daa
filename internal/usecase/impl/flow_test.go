package impl

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"multimusic/internal/domain/entity"
	"multimusic/internal/domain/service"
	"multimusic/internal/usecase"
)

// Exercises the full journey: sign in with Google, connect Spotify, then read
// the platform list back.
func TestLoginThenConnectSpotifyFlow(t *testing.T) {
	google := &fakeSSOProvider{
		name: entity.ProviderGoogle,
		identities: map[string]*service.SSOIdentity{
			"abc": {SubjectID: "google-sub-1", Email: "user@example.com", Name: "Test User"},
		},
	}
	spotify := &fakePlatformClient{
		name: entity.PlatformSpotify,
		tokens: map[string]*service.PlatformTokens{
			"xyz": {
				AccessToken:    "spotify-access",
				RefreshToken:   "spotify-refresh",
				ExpiresIn:      3600,
				PlatformUserID: "spotify-user-1",
			},
		},
	}

	states := newFakeStateStore()
	accountRepo := newFakeAccountRepo()
	identityRepo := newFakeIdentityRepo()
	connectionRepo := newFakeConnectionRepo()
	factory := &fakeRepoFactory{
		accountRepo:    accountRepo,
		identityRepo:   identityRepo,
		connectionRepo: connectionRepo,
	}

	identitySvc := NewIdentityService(IdentityServiceParams{
		Providers:      map[entity.Provider]service.SSOProvider{entity.ProviderGoogle: google},
		States:         states,
		SessionService: &fakeSessionService{},
		TxManager:      &fakeTxManager{factory: factory},
		AccountRepo:    accountRepo,
		IdentityRepo:   identityRepo,
		Logger:         discardLogger(),
	})
	platformSvc := NewPlatformService(PlatformServiceParams{
		Platforms:      map[entity.Platform]service.PlatformClient{entity.PlatformSpotify: spotify},
		States:         states,
		Cipher:         &fakeCipher{},
		AccountRepo:    accountRepo,
		ConnectionRepo: connectionRepo,
		Logger:         discardLogger(),
	})
	profileSvc := newProfileService(accountRepo, identityRepo, connectionRepo)

	ctx := context.Background()

	// Sign in with Google.
	beginLogin, err := identitySvc.BeginLogin(ctx, "google")
	require.NoError(t, err)
	login, err := identitySvc.CompleteLogin(ctx, usecase.CompleteLoginInput{
		Provider: "google",
		Code:     "abc",
		State:    beginLogin.State,
	})
	require.NoError(t, err)
	require.NotEmpty(t, login.SessionToken)

	// Connect Spotify.
	beginConnect, err := platformSvc.BeginConnect(ctx, login.Account.ID, "spotify")
	require.NoError(t, err)
	conn, err := platformSvc.CompleteConnect(ctx, usecase.CompleteConnectInput{
		Platform: "spotify",
		Code:     "xyz",
		State:    beginConnect.State,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, conn.AccessToken)
	assert.NotEmpty(t, conn.RefreshToken)
	assert.NotEqual(t, "spotify-access", conn.AccessToken)

	// The platform list reflects the connection without leaking tokens.
	platforms, err := profileSvc.ListPlatforms(ctx, login.Account.ID)
	require.NoError(t, err)
	require.Len(t, platforms, 1)
	assert.Equal(t, entity.PlatformSpotify, platforms[0].Platform)
	assert.True(t, platforms[0].Connected)
}
