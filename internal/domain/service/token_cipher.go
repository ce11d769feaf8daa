package service

// TokenCipher encrypts OAuth tokens at rest. Implementations must be
// authenticated ciphers so that tampered ciphertext fails to decrypt rather
// than yielding garbage tokens.
type TokenCipher interface {
	// Encrypt seals a plaintext token into an opaque printable string.
	Encrypt(plaintext string) (string, error)

	// Decrypt opens a string previously produced by Encrypt.
	Decrypt(ciphertext string) (string, error)
}
