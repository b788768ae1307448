package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 64 hex chars = 32 bytes = valid AES-256 key
const testKey = "0123456789abcdef0123456789abcdef0123456789abcdef0123456789abcdef"

func TestNewAesGcmService_ValidKey(t *testing.T) {
	svc, err := NewAesGcmService(testKey)
	require.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestNewAesGcmService_InvalidHex(t *testing.T) {
	svc, err := NewAesGcmService("zzzz")
	assert.Error(t, err)
	assert.Nil(t, svc)
}

func TestNewAesGcmService_WrongKeyLength(t *testing.T) {
	svc, err := NewAesGcmService("0123456789abcdef")
	assert.Error(t, err)
	assert.Nil(t, svc)
}

func TestEncryptDecrypt_Roundtrip(t *testing.T) {
	svc, err := NewAesGcmService(testKey)
	require.NoError(t, err)

	plaintext := "00112233445566778899aabbccddeeff"

	ciphertext, err := svc.Encrypt(plaintext)
	require.NoError(t, err)
	assert.NotEqual(t, plaintext, ciphertext)

	decrypted, err := svc.Decrypt(ciphertext)
	require.NoError(t, err)
	assert.Equal(t, plaintext, decrypted)
}

func TestEncrypt_UniqueNonces(t *testing.T) {
	svc, err := NewAesGcmService(testKey)
	require.NoError(t, err)

	first, err := svc.Encrypt("same input")
	require.NoError(t, err)
	second, err := svc.Encrypt("same input")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestDecrypt_GarbageInput(t *testing.T) {
	svc, err := NewAesGcmService(testKey)
	require.NoError(t, err)

	_, err = svc.Decrypt("not-hex")
	assert.Error(t, err)

	_, err = svc.Decrypt("00ff")
	assert.Error(t, err, "shorter than nonce")
}

func TestNoopService_PassesThrough(t *testing.T) {
	svc := NoopService{}

	out, err := svc.Encrypt("token")
	require.NoError(t, err)
	assert.Equal(t, "token", out)

	back, err := svc.Decrypt(out)
	require.NoError(t, err)
	assert.Equal(t, "token", back)
}
