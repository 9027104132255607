package crypto

import (
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey(t *testing.T) []byte {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return key
}

func TestNewCipher(t *testing.T) {
	key := testKey(t)

	t.Run("AESGCM", func(t *testing.T) {
		cipher, err := NewCipher(key, AESGCM)
		assert.NoError(t, err)
		assert.NotNil(t, cipher)
	})

	t.Run("ChaCha20Poly1305", func(t *testing.T) {
		cipher, err := NewCipher(key, ChaCha20Poly1305)
		assert.NoError(t, err)
		assert.NotNil(t, cipher)
	})

	t.Run("UnsupportedAlgorithm", func(t *testing.T) {
		cipher, err := NewCipher(key, Algorithm("des"))
		assert.Error(t, err)
		assert.Nil(t, cipher)
	})

	t.Run("InvalidKeySize", func(t *testing.T) {
		cipher, err := NewCipher([]byte("short"), AESGCM)
		assert.Error(t, err)
		assert.Nil(t, cipher)
	})
}

func TestAEAD_RoundTrip(t *testing.T) {
	for _, algorithm := range []Algorithm{AESGCM, ChaCha20Poly1305} {
		t.Run(string(algorithm), func(t *testing.T) {
			cipher, err := NewCipher(testKey(t), algorithm)
			require.NoError(t, err)

			plaintext := []byte("patient record archive payload")
			aad := []byte("backup_WoundAssessment_42.zip")

			ciphertext, nonce, err := cipher.Encrypt(plaintext, aad)
			require.NoError(t, err)
			assert.NotEqual(t, plaintext, ciphertext)
			assert.Len(t, nonce, cipher.NonceSize())

			decrypted, err := cipher.Decrypt(ciphertext, nonce, aad)
			require.NoError(t, err)
			assert.Equal(t, plaintext, decrypted)
		})
	}
}

func TestAEAD_TamperDetection(t *testing.T) {
	for _, algorithm := range []Algorithm{AESGCM, ChaCha20Poly1305} {
		t.Run(string(algorithm), func(t *testing.T) {
			cipher, err := NewCipher(testKey(t), algorithm)
			require.NoError(t, err)

			plaintext := []byte("archive payload")
			aad := []byte("archive-name")

			ciphertext, nonce, err := cipher.Encrypt(plaintext, aad)
			require.NoError(t, err)

			t.Run("ModifiedCiphertext", func(t *testing.T) {
				tampered := append([]byte(nil), ciphertext...)
				tampered[0] ^= 0xff
				_, err := cipher.Decrypt(tampered, nonce, aad)
				assert.Error(t, err)
			})

			t.Run("WrongAAD", func(t *testing.T) {
				_, err := cipher.Decrypt(ciphertext, nonce, []byte("other-name"))
				assert.Error(t, err)
			})

			t.Run("WrongNonce", func(t *testing.T) {
				wrongNonce := make([]byte, len(nonce))
				_, err := cipher.Decrypt(ciphertext, wrongNonce, aad)
				assert.Error(t, err)
			})
		})
	}
}

func TestAEAD_UniqueNonces(t *testing.T) {
	cipher, err := NewCipher(testKey(t), AESGCM)
	require.NoError(t, err)

	_, nonce1, err := cipher.Encrypt([]byte("data"), nil)
	require.NoError(t, err)
	_, nonce2, err := cipher.Encrypt([]byte("data"), nil)
	require.NoError(t, err)

	assert.NotEqual(t, nonce1, nonce2)
}

func TestParseAlgorithm(t *testing.T) {
	algorithm, err := ParseAlgorithm("aes-gcm")
	assert.NoError(t, err)
	assert.Equal(t, AESGCM, algorithm)

	algorithm, err = ParseAlgorithm("chacha20-poly1305")
	assert.NoError(t, err)
	assert.Equal(t, ChaCha20Poly1305, algorithm)

	_, err = ParseAlgorithm("rc4")
	assert.Error(t, err)

	_, err = ParseAlgorithm("")
	assert.Error(t, err)
}

func TestDeriveKey(t *testing.T) {
	t.Run("Deterministic", func(t *testing.T) {
		key1, err := DeriveKey([]byte("passphrase"), "backup-archive-v1")
		require.NoError(t, err)
		key2, err := DeriveKey([]byte("passphrase"), "backup-archive-v1")
		require.NoError(t, err)
		assert.Equal(t, key1, key2)
		assert.Len(t, key1, 32)
	})

	t.Run("InfoSeparatesUsages", func(t *testing.T) {
		key1, err := DeriveKey([]byte("passphrase"), "backup-archive-v1")
		require.NoError(t, err)
		key2, err := DeriveKey([]byte("passphrase"), "another-usage")
		require.NoError(t, err)
		assert.NotEqual(t, key1, key2)
	})

	t.Run("DifferentPassphrases", func(t *testing.T) {
		key1, err := DeriveKey([]byte("passphrase-a"), "backup-archive-v1")
		require.NoError(t, err)
		key2, err := DeriveKey([]byte("passphrase-b"), "backup-archive-v1")
		require.NoError(t, err)
		assert.NotEqual(t, key1, key2)
	})
}

func TestZero(t *testing.T) {
	key := []byte{1, 2, 3, 4}
	Zero(key)
	assert.Equal(t, []byte{0, 0, 0, 0}, key)
}
