package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAESTokenCipher_RejectsEmptyKey(t *testing.T) {
	_, err := NewAESTokenCipher("")
	assert.Error(t, err)
}

func TestAESTokenCipher_RoundTrip(t *testing.T) {
	cipher, err := NewAESTokenCipher("unit-test-key")
	require.NoError(t, err)

	sealed, err := cipher.Encrypt("ya29.access-token")
	require.NoError(t, err)
	assert.NotEqual(t, "ya29.access-token", sealed)

	opened, err := cipher.Decrypt(sealed)
	require.NoError(t, err)
	assert.Equal(t, "ya29.access-token", opened)
}

func TestAESTokenCipher_UniqueCiphertextPerCall(t *testing.T) {
	cipher, err := NewAESTokenCipher("unit-test-key")
	require.NoError(t, err)

	first, err := cipher.Encrypt("same-token")
	require.NoError(t, err)
	second, err := cipher.Encrypt("same-token")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestAESTokenCipher_DecryptRejectsGarbage(t *testing.T) {
	cipher, err := NewAESTokenCipher("unit-test-key")
	require.NoError(t, err)

	_, err = cipher.Decrypt("not-base64!!")
	assert.Error(t, err)

	_, err = cipher.Decrypt("c2hvcnQ")
	assert.Error(t, err)
}

func TestAESTokenCipher_DecryptRejectsWrongKey(t *testing.T) {
	first, err := NewAESTokenCipher("key-one")
	require.NoError(t, err)
	second, err := NewAESTokenCipher("key-two")
	require.NoError(t, err)

	sealed, err := first.Encrypt("refresh-token")
	require.NoError(t, err)

	_, err = second.Decrypt(sealed)
	assert.Error(t, err)
}
