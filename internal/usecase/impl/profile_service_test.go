package impl

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"multimusic/internal/domain/entity"
	domainerrors "multimusic/internal/domain/errors"
	"multimusic/internal/usecase"
)

func newProfileService(accountRepo *fakeAccountRepo, identityRepo *fakeIdentityRepo, connectionRepo *fakeConnectionRepo) usecase.ProfileUsecase {
	return NewProfileService(ProfileServiceParams{
		AccountRepo:    accountRepo,
		IdentityRepo:   identityRepo,
		ConnectionRepo: connectionRepo,
		Logger:         discardLogger(),
	})
}

func TestGetProfile_ReturnsAccountFields(t *testing.T) {
	accountRepo := newFakeAccountRepo()
	account := &entity.Account{
		ID:              "mmp_0123456789abcdef0123456789abcdef",
		Email:           "user@example.com",
		DisplayName:     "Test User",
		PrimaryProvider: entity.ProviderGoogle,
	}
	require.NoError(t, accountRepo.Create(context.Background(), account))

	svc := newProfileService(accountRepo, newFakeIdentityRepo(), newFakeConnectionRepo())

	got, err := svc.GetProfile(context.Background(), account.ID)
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", got.Email)
	assert.Equal(t, "Test User", got.DisplayName)
}

func TestGetProfile_NotFound(t *testing.T) {
	svc := newProfileService(newFakeAccountRepo(), newFakeIdentityRepo(), newFakeConnectionRepo())

	_, err := svc.GetProfile(context.Background(), "mmp_missing")
	assert.ErrorContains(t, err, domainerrors.ErrAccountNotFound.Message())
}

func TestListAuthProviders_ReturnsLinkedIdentities(t *testing.T) {
	identityRepo := newFakeIdentityRepo()
	require.NoError(t, identityRepo.Create(context.Background(), &entity.IdentityLink{
		AccountID: "mmp_a",
		Provider:  entity.ProviderGoogle,
		SubjectID: "sub-1",
		Email:     "user@example.com",
	}))

	svc := newProfileService(newFakeAccountRepo(), identityRepo, newFakeConnectionRepo())

	infos, err := svc.ListAuthProviders(context.Background(), "mmp_a")
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, entity.ProviderGoogle, infos[0].Provider)
	assert.Equal(t, "user@example.com", infos[0].Email)
	assert.False(t, infos[0].LinkedAt.IsZero())
}

func TestListPlatforms_NeverExposesTokens(t *testing.T) {
	connectionRepo := newFakeConnectionRepo()
	require.NoError(t, connectionRepo.Upsert(context.Background(), &entity.PlatformConnection{
		AccountID:      "mmp_a",
		Platform:       entity.PlatformSpotify,
		PlatformUserID: "spotify-user-1",
		AccessToken:    "enc(secret)",
		RefreshToken:   "enc(secret)",
		Scope:          "user-read-email",
	}))

	svc := newProfileService(newFakeAccountRepo(), newFakeIdentityRepo(), connectionRepo)

	infos, err := svc.ListPlatforms(context.Background(), "mmp_a")
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, entity.PlatformSpotify, infos[0].Platform)
	assert.True(t, infos[0].Connected)
	assert.Equal(t, "spotify-user-1", infos[0].PlatformUserID)
	assert.Equal(t, "user-read-email", infos[0].Scope)
}
