// Package domain defines the core domain models for digital document
// signatures. A DigitalSignature binds a document identifier and content hash
// to a signer identity and certificate; a document may accumulate multiple
// signatures (co-signing, re-signing) and the most recent one is
// authoritative for verification.
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// SignatureStatus describes the verification state of a signature.
type SignatureStatus string

const (
	StatusValid               SignatureStatus = "VALID"
	StatusInvalid             SignatureStatus = "INVALID"
	StatusExpired             SignatureStatus = "EXPIRED"
	StatusRevoked             SignatureStatus = "REVOKED"
	StatusPendingVerification SignatureStatus = "PENDING_VERIFICATION"
)

// DigitalSignature is one signing event over a clinical document.
// Rows are created at signing time and updated (never deleted) at each
// verification attempt, so stored state never diverges from the last
// verification outcome.
type DigitalSignature struct {
	// ID is the unique identifier of the signature row.
	ID uuid.UUID
	// DocumentID identifies the signed document.
	DocumentID string
	// DocumentType is the document's type tag (e.g., "WOUND_ASSESSMENT").
	DocumentType string

	// Signer identity.
	SignerID        string
	SignerName      string
	SignerLicenseID string

	// Cryptographic material.
	CertificateData      string
	SignatureData        string
	HashAlgorithm        string
	SignatureAlgorithm   string
	DocumentHash         string
	CertificateSerial    string
	CertificateIssuer    string
	CertificateValidFrom time.Time
	CertificateValidTo   time.Time

	// Verification state.
	SignedAt          time.Time
	VerifiedAt        *time.Time
	IsValid           bool
	VerificationNotes string

	// Row bookkeeping.
	RecordCreatedAt time.Time
	RecordUpdatedAt *time.Time
}

// RevokedNotePrefix marks a signature as administratively revoked. Revocation
// is permanent: verification never flips a revoked signature back to valid.
const RevokedNotePrefix = "revoked"

// CertificateExpired reports whether the certificate validity window has
// lapsed at the given time.
func (s *DigitalSignature) CertificateExpired(now time.Time) bool {
	return now.After(s.CertificateValidTo)
}

// Revoked reports whether the signature has been administratively revoked.
func (s *DigitalSignature) Revoked() bool {
	return strings.HasPrefix(s.VerificationNotes, RevokedNotePrefix)
}

// Status derives the signature's verification state at the given time.
func (s *DigitalSignature) Status(now time.Time) SignatureStatus {
	switch {
	case s.Revoked():
		return StatusRevoked
	case s.CertificateExpired(now):
		return StatusExpired
	case s.VerifiedAt == nil:
		return StatusPendingVerification
	case s.IsValid:
		return StatusValid
	default:
		return StatusInvalid
	}
}
