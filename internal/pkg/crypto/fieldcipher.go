// Package crypto provides non-deterministic field-level encryption for
// sensitive scalar values (salary, biometric descriptors). Each value is
// stored as a self-describing token "nonce:tag:ciphertext" in hex, so a
// reader can validate structure before attempting decryption.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	// ErrMalformedToken means the value does not have the expected
	// nonce:tag:ciphertext structure. The value was never a valid token.
	ErrMalformedToken = errors.New("malformed field token")

	// ErrAuthenticationFailed means the token structure is valid but the
	// authentication tag does not verify: the data was tampered with or
	// was encrypted under a different key. Callers must not coerce this
	// into an empty value.
	ErrAuthenticationFailed = errors.New("field token authentication failed")
)

const keySize = 32 // AES-256

// FieldCipher encrypts and decrypts individual sensitive values with
// AES-256-GCM. A fresh nonce is drawn per Encrypt call, so encrypting the
// same plaintext twice yields different tokens.
type FieldCipher struct {
	aead cipher.AEAD
}

// New builds a FieldCipher from a hex-encoded 32-byte key.
func New(hexKey string) (*FieldCipher, error) {
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("FIELD_ENCRYPTION_KEY is not valid hex: %w", err)
	}
	if len(key) != keySize {
		return nil, fmt.Errorf("FIELD_ENCRYPTION_KEY must decode to %d bytes, got %d", keySize, len(key))
	}
	return newFromKey(key)
}

// NewEphemeral builds a FieldCipher with a random key. Values encrypted
// with it cannot be decrypted after a restart; local development only.
func NewEphemeral() (*FieldCipher, error) {
	key := make([]byte, keySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return nil, err
	}
	return newFromKey(key)
}

func newFromKey(key []byte) (*FieldCipher, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &FieldCipher{aead: aead}, nil
}

// Encrypt seals plaintext into a token of the form
// hex(nonce) ":" hex(tag) ":" hex(ciphertext).
func (c *FieldCipher) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to draw nonce: %w", err)
	}

	// Seal appends the authentication tag to the ciphertext
	sealed := c.aead.Seal(nil, nonce, []byte(plaintext), nil)
	tagStart := len(sealed) - c.aead.Overhead()
	ciphertext, tag := sealed[:tagStart], sealed[tagStart:]

	return hex.EncodeToString(nonce) + ":" + hex.EncodeToString(tag) + ":" + hex.EncodeToString(ciphertext), nil
}

// Decrypt opens a token produced by Encrypt. It returns ErrMalformedToken
// when the token does not split into nonce, tag and ciphertext segments of
// the expected lengths, and ErrAuthenticationFailed when the tag does not
// verify against the configured key.
func (c *FieldCipher) Decrypt(token string) (string, error) {
	parts := strings.Split(token, ":")
	if len(parts) != 3 {
		return "", ErrMalformedToken
	}

	nonce, err := hex.DecodeString(parts[0])
	if err != nil || len(nonce) != c.aead.NonceSize() {
		return "", ErrMalformedToken
	}
	tag, err := hex.DecodeString(parts[1])
	if err != nil || len(tag) != c.aead.Overhead() {
		return "", ErrMalformedToken
	}
	ciphertext, err := hex.DecodeString(parts[2])
	if err != nil {
		return "", ErrMalformedToken
	}

	plaintext, err := c.aead.Open(nil, nonce, append(ciphertext, tag...), nil)
	if err != nil {
		return "", ErrAuthenticationFailed
	}
	return string(plaintext), nil
}
