package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"multimusic/config"
)

func newTestConfig(secret string, ttl time.Duration) *config.Config {
	cfg := &config.Config{}
	cfg.Session = &config.SessionConfig{Secret: secret, TTL: ttl}

	return cfg
}

func TestNewJWTSessionService_RequiresSecret(t *testing.T) {
	_, err := NewJWTSessionService(newTestConfig("", time.Hour))
	assert.Error(t, err)
}

func TestJWTSessionService_IssueVerifyRoundTrip(t *testing.T) {
	svc, err := NewJWTSessionService(newTestConfig("unit-test-secret", time.Hour))
	require.NoError(t, err)

	token, err := svc.Issue("mmp_0123456789abcdef0123456789abcdef")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	accountID, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "mmp_0123456789abcdef0123456789abcdef", accountID)
}

func TestJWTSessionService_VerifyRejectsTamperedToken(t *testing.T) {
	svc, err := NewJWTSessionService(newTestConfig("unit-test-secret", time.Hour))
	require.NoError(t, err)

	token, err := svc.Issue("mmp_0123456789abcdef0123456789abcdef")
	require.NoError(t, err)

	_, err = svc.Verify(token + "x")
	assert.Error(t, err)
}

func TestJWTSessionService_VerifyRejectsWrongSecret(t *testing.T) {
	issuer, err := NewJWTSessionService(newTestConfig("secret-one", time.Hour))
	require.NoError(t, err)
	verifier, err := NewJWTSessionService(newTestConfig("secret-two", time.Hour))
	require.NoError(t, err)

	token, err := issuer.Issue("mmp_0123456789abcdef0123456789abcdef")
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.Error(t, err)
}

func TestJWTSessionService_VerifyRejectsExpiredToken(t *testing.T) {
	svc, err := NewJWTSessionService(newTestConfig("unit-test-secret", -time.Minute))
	require.NoError(t, err)

	token, err := svc.Issue("mmp_0123456789abcdef0123456789abcdef")
	require.NoError(t, err)

	_, err = svc.Verify(token)
	assert.Error(t, err)
}
