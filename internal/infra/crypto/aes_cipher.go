// Package crypto provides the token encryption used before OAuth tokens are
// written to storage.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"io"

	"multimusic/internal/errors"
)

const keySize = 32

// AESTokenCipher encrypts tokens with AES-256-GCM. Payloads are stored as
// base64(nonce || ciphertext).
type AESTokenCipher struct {
	aead cipher.AEAD
}

// NewAESTokenCipher builds a cipher from the configured key material.
// Keys shorter than 32 bytes are zero-padded, longer ones truncated, so the
// configured secret does not have to be an exact AES key length.
func NewAESTokenCipher(key string) (*AESTokenCipher, error) {
	if key == "" {
		return nil, errors.New("encryption key is empty")
	}

	normalized := make([]byte, keySize)
	copy(normalized, []byte(key))

	block, err := aes.NewCipher(normalized)
	if err != nil {
		return nil, errors.Wrap(err, "new cipher")
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, errors.Wrap(err, "new gcm")
	}

	return &AESTokenCipher{aead: aead}, nil
}

// Encrypt seals one plaintext token into a printable payload.
func (c *AESTokenCipher) Encrypt(plaintext string) (string, error) {
	// AES-GCM requires a unique nonce per encryption under the same key.
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", errors.Wrap(err, "read nonce")
	}

	ciphertext := c.aead.Seal(nil, nonce, []byte(plaintext), nil)
	payload := append(nonce, ciphertext...)

	return base64.RawStdEncoding.EncodeToString(payload), nil
}

// Decrypt opens a payload previously produced by Encrypt.
func (c *AESTokenCipher) Decrypt(sealed string) (string, error) {
	payload, err := base64.RawStdEncoding.DecodeString(sealed)
	if err != nil {
		return "", errors.Wrap(err, "decode sealed token")
	}

	nonceSize := c.aead.NonceSize()
	if len(payload) < nonceSize {
		return "", errors.New("sealed token is too short")
	}

	nonce := payload[:nonceSize]
	ciphertext := payload[nonceSize:]
	plaintext, err := c.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", errors.Wrap(err, "decrypt sealed token")
	}

	return string(plaintext), nil
}
