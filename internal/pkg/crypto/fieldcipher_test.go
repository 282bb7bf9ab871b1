package crypto

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func newTestCipher(t *testing.T) *FieldCipher {
	t.Helper()
	c, err := New(testKey)
	require.NoError(t, err)
	return c
}

func TestNew_RejectsBadKeys(t *testing.T) {
	_, err := New("not-hex")
	assert.Error(t, err)

	_, err = New("abcd") // too short
	assert.Error(t, err)
}

func TestFieldCipher_RoundTrip(t *testing.T) {
	c := newTestCipher(t)

	for _, plaintext := range []string{"", "5000.00", "biometric-descriptor-v2", "héllo wörld"} {
		token, err := c.Encrypt(plaintext)
		require.NoError(t, err)

		decrypted, err := c.Decrypt(token)
		require.NoError(t, err)
		assert.Equal(t, plaintext, decrypted)
	}
}

func TestFieldCipher_TokenFormat(t *testing.T) {
	c := newTestCipher(t)

	token, err := c.Encrypt("5000.00")
	require.NoError(t, err)

	parts := strings.Split(token, ":")
	require.Len(t, parts, 3)
	for _, part := range parts {
		_, err := hex.DecodeString(part)
		assert.NoError(t, err)
	}
	assert.Len(t, parts[0], 24) // 12-byte GCM nonce
	assert.Len(t, parts[1], 32) // 16-byte tag
}

func TestFieldCipher_NonDeterministic(t *testing.T) {
	c := newTestCipher(t)

	first, err := c.Encrypt("5000.00")
	require.NoError(t, err)
	second, err := c.Encrypt("5000.00")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestFieldCipher_TamperedTokenFailsAuthentication(t *testing.T) {
	c := newTestCipher(t)

	token, err := c.Encrypt("5000.00")
	require.NoError(t, err)

	// Flip one bit in the ciphertext segment
	raw := []byte(token)
	last := len(raw) - 1
	if raw[last] == '0' {
		raw[last] = '1'
	} else {
		raw[last] = '0'
	}

	_, err = c.Decrypt(string(raw))
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestFieldCipher_WrongKeyFailsAuthentication(t *testing.T) {
	c := newTestCipher(t)
	other, err := NewEphemeral()
	require.NoError(t, err)

	token, err := c.Encrypt("5000.00")
	require.NoError(t, err)

	_, err = other.Decrypt(token)
	assert.ErrorIs(t, err, ErrAuthenticationFailed)
}

func TestFieldCipher_MalformedTokens(t *testing.T) {
	c := newTestCipher(t)

	for _, token := range []string{
		"",
		"plain salary value",
		"aabb:ccdd",
		"aabb:ccdd:eeff:0011",
		"zz:ccdd:eeff",                    // bad hex nonce
		"aabb:ccdd:eeff",                  // wrong nonce length
		strings.Repeat("00", 12) + "::ff", // empty tag
	} {
		_, err := c.Decrypt(token)
		assert.ErrorIs(t, err, ErrMalformedToken, "token %q", token)
	}
}
