// Package usecase implements business logic for the digital signature ledger.
// It coordinates the cryptographic signer, the signature repository and the
// certificate handling rules: a document may accumulate multiple signatures,
// the most recent one is authoritative, and every verification attempt is
// persisted on the row it verified.
package usecase

import (
	"context"
	"time"

	signatureDomain "github.com/healplus/compliance/internal/signature/domain"
	signatureService "github.com/healplus/compliance/internal/signature/service"
)

// SignatureRepository defines the persistence operations the use case needs.
type SignatureRepository interface {
	Create(ctx context.Context, sig *signatureDomain.DigitalSignature) error
	UpdateVerification(ctx context.Context, sig *signatureDomain.DigitalSignature) error
	GetLatestByDocument(ctx context.Context, documentID string) (*signatureDomain.DigitalSignature, error)
	ListByDocument(ctx context.Context, documentID string) ([]*signatureDomain.DigitalSignature, error)
	ExistsValidByDocument(ctx context.Context, documentID string) (bool, error)
}

// DocumentSigner defines the cryptographic operations the use case needs.
type DocumentSigner interface {
	ParseBundle(pemData []byte) (*signatureService.Bundle, error)
	Sign(content []byte, bundle *signatureService.Bundle) (documentHash, signature string, err error)
	Verify(content []byte, signature string, bundle *signatureService.Bundle) (bool, error)
	GenerateBundle(signerName, licenseID string, validFrom time.Time, validity time.Duration) ([]byte, error)
}

// SignRequest carries the inputs for signing a document.
type SignRequest struct {
	DocumentID      string
	DocumentType    string
	DocumentContent []byte
	SignerID        string
	SignerName      string
	SignerLicenseID string
	// CertificateBundle is an optional PEM bundle (certificate plus EC
	// private key). When empty a self-signed credential is provisioned.
	CertificateBundle []byte
}

// VerifyResult is the outcome of a verification attempt.
type VerifyResult struct {
	Signature *signatureDomain.DigitalSignature
	Valid     bool
	Status    signatureDomain.SignatureStatus
	Notes     string
}

// SignatureUseCase defines the business operations of the signature ledger.
type SignatureUseCase interface {
	// Sign produces a new signature over the document content and appends it
	// to the ledger.
	Sign(ctx context.Context, req SignRequest) (*signatureDomain.DigitalSignature, error)
	// Verify checks the most recent signature for a document against the
	// supplied content and persists the outcome.
	Verify(ctx context.Context, documentID string, documentContent []byte) (*VerifyResult, error)
	// Revoke invalidates every signature on a document. Idempotent.
	Revoke(ctx context.Context, documentID, reason string) error
	// ListByDocument returns every signature for a document, newest first.
	ListByDocument(ctx context.Context, documentID string) ([]*signatureDomain.DigitalSignature, error)
	// IsDocumentSigned reports whether the document carries at least one
	// currently valid signature.
	IsDocumentSigned(ctx context.Context, documentID string) (bool, error)
}
