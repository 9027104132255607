package crypto

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
)

// DigestHex computes the SHA-256 digest of data and returns it hex-encoded.
// Used for backup archive content hashes and document hashes: hex keeps the
// value safe to store in text columns and sidecar files.
func DigestHex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// DigestReaderHex computes the SHA-256 digest of everything read from r.
func DigestReaderHex(r io.Reader) (string, error) {
	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
