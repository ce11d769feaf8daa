package impl

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"multimusic/internal/domain/entity"
	domainerrors "multimusic/internal/domain/errors"
	"multimusic/internal/domain/service"
	"multimusic/internal/usecase"
)

type platformFixture struct {
	svc            usecase.PlatformUsecase
	spotify        *fakePlatformClient
	soundcloud     *fakePlatformClient
	states         *fakeStateStore
	cipher         *fakeCipher
	accountRepo    *fakeAccountRepo
	connectionRepo *fakeConnectionRepo
	accountID      string
}

func newPlatformFixture(t *testing.T) *platformFixture {
	t.Helper()

	spotify := &fakePlatformClient{
		name: entity.PlatformSpotify,
		tokens: map[string]*service.PlatformTokens{
			"xyz": {
				AccessToken:    "spotify-access",
				RefreshToken:   "spotify-refresh",
				Scope:          "user-read-email",
				ExpiresIn:      3600,
				PlatformUserID: "spotify-user-1",
			},
		},
	}
	soundcloud := &fakePlatformClient{
		name:     entity.PlatformSoundCloud,
		verifier: "pkce-verifier",
		tokens: map[string]*service.PlatformTokens{
			"sc-code": {
				AccessToken:    "sc-access",
				RefreshToken:   "sc-refresh",
				ExpiresIn:      3600,
				PlatformUserID: "12345",
			},
		},
	}

	states := newFakeStateStore()
	cipher := &fakeCipher{}
	accountRepo := newFakeAccountRepo()
	connectionRepo := newFakeConnectionRepo()

	account := &entity.Account{ID: "mmp_0123456789abcdef0123456789abcdef", PrimaryProvider: entity.ProviderGoogle}
	require.NoError(t, accountRepo.Create(context.Background(), account))

	svc := NewPlatformService(PlatformServiceParams{
		Platforms: map[entity.Platform]service.PlatformClient{
			entity.PlatformSpotify:    spotify,
			entity.PlatformSoundCloud: soundcloud,
		},
		States:         states,
		Cipher:         cipher,
		AccountRepo:    accountRepo,
		ConnectionRepo: connectionRepo,
		Logger:         discardLogger(),
	})

	return &platformFixture{
		svc:            svc,
		spotify:        spotify,
		soundcloud:     soundcloud,
		states:         states,
		cipher:         cipher,
		accountRepo:    accountRepo,
		connectionRepo: connectionRepo,
		accountID:      account.ID,
	}
}

func (f *platformFixture) connect(t *testing.T, platform, code string) *entity.PlatformConnection {
	t.Helper()

	begin, err := f.svc.BeginConnect(context.Background(), f.accountID, platform)
	require.NoError(t, err)

	conn, err := f.svc.CompleteConnect(context.Background(), usecase.CompleteConnectInput{
		Platform: platform,
		Code:     code,
		State:    begin.State,
	})
	require.NoError(t, err)

	return conn
}

func TestBeginConnect_StateCarriesAccountID(t *testing.T) {
	f := newPlatformFixture(t)

	out, err := f.svc.BeginConnect(context.Background(), f.accountID, "spotify")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out.State, f.accountID+":"))
	assert.Contains(t, out.AuthURL, "state="+out.State)
}

func TestBeginConnect_UnknownPlatform(t *testing.T) {
	f := newPlatformFixture(t)

	_, err := f.svc.BeginConnect(context.Background(), f.accountID, "tidal")
	assert.ErrorContains(t, err, domainerrors.ErrUnsupportedPlatform.Message())
}

func TestBeginConnect_UnknownAccount(t *testing.T) {
	f := newPlatformFixture(t)

	_, err := f.svc.BeginConnect(context.Background(), "mmp_missing", "spotify")
	assert.ErrorContains(t, err, domainerrors.ErrAccountNotFound.Message())
}

func TestCompleteConnect_StoresEncryptedTokens(t *testing.T) {
	f := newPlatformFixture(t)

	conn := f.connect(t, "spotify", "xyz")

	assert.Equal(t, "spotify-user-1", conn.PlatformUserID)
	assert.NotEqual(t, "spotify-access", conn.AccessToken)
	assert.NotEqual(t, "spotify-refresh", conn.RefreshToken)

	stored, err := f.connectionRepo.Find(context.Background(), f.accountID, entity.PlatformSpotify)
	require.NoError(t, err)

	access, err := f.cipher.Decrypt(stored.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "spotify-access", access)

	refresh, err := f.cipher.Decrypt(stored.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "spotify-refresh", refresh)
}

func TestCompleteConnect_PassesVerifierThrough(t *testing.T) {
	f := newPlatformFixture(t)

	f.connect(t, "soundcloud", "sc-code")

	assert.Equal(t, "pkce-verifier", f.soundcloud.lastVerifier)
}

func TestCompleteConnect_RejectsInvalidState(t *testing.T) {
	f := newPlatformFixture(t)

	_, err := f.svc.CompleteConnect(context.Background(), usecase.CompleteConnectInput{
		Platform: "spotify",
		Code:     "xyz",
		State:    "no-colon-here",
	})
	assert.ErrorContains(t, err, domainerrors.ErrInvalidState.Message())

	_, err = f.svc.CompleteConnect(context.Background(), usecase.CompleteConnectInput{
		Platform: "spotify",
		Code:     "xyz",
		State:    f.accountID + ":never-issued",
	})
	assert.ErrorContains(t, err, domainerrors.ErrInvalidState.Message())
}

func TestCompleteConnect_StateIsSingleUse(t *testing.T) {
	f := newPlatformFixture(t)

	begin, err := f.svc.BeginConnect(context.Background(), f.accountID, "spotify")
	require.NoError(t, err)

	input := usecase.CompleteConnectInput{Platform: "spotify", Code: "xyz", State: begin.State}
	_, err = f.svc.CompleteConnect(context.Background(), input)
	require.NoError(t, err)

	_, err = f.svc.CompleteConnect(context.Background(), input)
	assert.ErrorContains(t, err, domainerrors.ErrInvalidState.Message())
}

func TestRefresh_UpdatesAccessTokenOnly(t *testing.T) {
	f := newPlatformFixture(t)
	f.connect(t, "spotify", "xyz")

	before, err := f.connectionRepo.Find(context.Background(), f.accountID, entity.PlatformSpotify)
	require.NoError(t, err)

	f.spotify.refreshed = &service.PlatformTokens{AccessToken: "spotify-access-2", ExpiresIn: 1800}

	out, err := f.svc.Refresh(context.Background(), f.accountID, "spotify")
	require.NoError(t, err)
	assert.Equal(t, "spotify-access-2", out.AccessToken)
	assert.Equal(t, int64(1800), out.ExpiresIn)

	after, err := f.connectionRepo.Find(context.Background(), f.accountID, entity.PlatformSpotify)
	require.NoError(t, err)
	assert.Equal(t, before.RefreshToken, after.RefreshToken)
	assert.NotEqual(t, before.AccessToken, after.AccessToken)

	access, err := f.cipher.Decrypt(after.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "spotify-access-2", access)
}

func TestRefresh_PersistsRotatedRefreshToken(t *testing.T) {
	f := newPlatformFixture(t)
	f.connect(t, "soundcloud", "sc-code")

	f.soundcloud.refreshed = &service.PlatformTokens{
		AccessToken:  "sc-access-2",
		RefreshToken: "sc-refresh-2",
		ExpiresIn:    1800,
	}

	_, err := f.svc.Refresh(context.Background(), f.accountID, "soundcloud")
	require.NoError(t, err)

	after, err := f.connectionRepo.Find(context.Background(), f.accountID, entity.PlatformSoundCloud)
	require.NoError(t, err)

	refresh, err := f.cipher.Decrypt(after.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "sc-refresh-2", refresh)
}

func TestRefresh_FailureLeavesTokensUntouched(t *testing.T) {
	f := newPlatformFixture(t)
	f.connect(t, "spotify", "xyz")

	before, err := f.connectionRepo.Find(context.Background(), f.accountID, entity.PlatformSpotify)
	require.NoError(t, err)

	f.spotify.refreshErr = errors.New("invalid_grant")

	_, err = f.svc.Refresh(context.Background(), f.accountID, "spotify")
	assert.ErrorContains(t, err, domainerrors.ErrTokenRefresh.Message())

	after, err := f.connectionRepo.Find(context.Background(), f.accountID, entity.PlatformSpotify)
	require.NoError(t, err)
	assert.Equal(t, before.AccessToken, after.AccessToken)
	assert.Equal(t, before.RefreshToken, after.RefreshToken)
	assert.WithinDuration(t, before.ExpiresAt, after.ExpiresAt, time.Second)
}

func TestRefresh_DecryptFailureSurfacesAsTokenError(t *testing.T) {
	f := newPlatformFixture(t)
	f.connect(t, "spotify", "xyz")

	f.cipher.failDecrypt = true

	_, err := f.svc.Refresh(context.Background(), f.accountID, "spotify")
	assert.ErrorContains(t, err, domainerrors.ErrTokenDecrypt.Message())
}

func TestRefresh_NotConnected(t *testing.T) {
	f := newPlatformFixture(t)

	_, err := f.svc.Refresh(context.Background(), f.accountID, "spotify")
	assert.ErrorContains(t, err, domainerrors.ErrPlatformNotConnected.Message())
}

func TestDisconnect_IsIdempotent(t *testing.T) {
	f := newPlatformFixture(t)
	f.connect(t, "spotify", "xyz")

	require.NoError(t, f.svc.Disconnect(context.Background(), f.accountID, "spotify"))

	_, err := f.connectionRepo.Find(context.Background(), f.accountID, entity.PlatformSpotify)
	assert.Error(t, err)

	// Second disconnect of the same platform is a silent no-op.
	require.NoError(t, f.svc.Disconnect(context.Background(), f.accountID, "spotify"))
}
