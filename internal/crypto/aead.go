// Package crypto provides the cryptographic primitives used by the compliance
// engine: content digests, AEAD ciphers for archive confidentiality, and key
// derivation from configured passphrases.
package crypto

import (
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// Algorithm identifies an AEAD cipher.
type Algorithm string

const (
	// AESGCM is AES-256 in Galois/Counter Mode.
	AESGCM Algorithm = "aes-gcm"
	// ChaCha20Poly1305 is the ChaCha20-Poly1305 AEAD construction.
	ChaCha20Poly1305 Algorithm = "chacha20-poly1305"
)

// AEAD provides authenticated encryption with associated data.
//
// Implementations are stateless and safe for concurrent use; each Encrypt
// call generates its own random nonce.
type AEAD interface {
	// Encrypt encrypts plaintext, authenticating the optional aad. The
	// returned nonce must be stored alongside the ciphertext for decryption.
	Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// Decrypt decrypts ciphertext, verifying the authentication tag and the
	// aad supplied at encryption time. Returns an error on any tampering.
	Decrypt(ciphertext, nonce, aad []byte) ([]byte, error)

	// NonceSize returns the nonce length in bytes.
	NonceSize() int
}

// NewCipher creates an AEAD cipher for the given 32-byte key and algorithm.
func NewCipher(key []byte, algorithm Algorithm) (AEAD, error) {
	switch algorithm {
	case AESGCM:
		return NewAESGCM(key)
	case ChaCha20Poly1305:
		return NewChaCha20Poly1305(key)
	default:
		return nil, fmt.Errorf("unsupported algorithm: %s", algorithm)
	}
}

// ParseAlgorithm converts a configuration string into an Algorithm.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch Algorithm(s) {
	case AESGCM, ChaCha20Poly1305:
		return Algorithm(s), nil
	default:
		return "", fmt.Errorf(
			"invalid algorithm: %s (valid options: aes-gcm, chacha20-poly1305)", s,
		)
	}
}

// DeriveKey expands a passphrase into a 32-byte key using HKDF-SHA256.
// The info parameter separates key usages (e.g., "backup-archive-v1") so the
// same passphrase never yields the same key for two purposes.
func DeriveKey(passphrase []byte, info string) ([]byte, error) {
	kdf := hkdf.New(sha256.New, passphrase, nil, []byte(info))

	key := make([]byte, 32)
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}

	return key, nil
}

// Zero overwrites sensitive data in memory with zeros.
// Prevents key material from lingering in memory after use.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
