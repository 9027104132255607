package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/healplus/compliance/internal/errors"
	signatureDomain "github.com/healplus/compliance/internal/signature/domain"
	signatureService "github.com/healplus/compliance/internal/signature/service"
)

// signatureUseCase implements the SignatureUseCase interface.
type signatureUseCase struct {
	repo     SignatureRepository
	signer   DocumentSigner
	validity time.Duration
	now      func() time.Time
}

// NewSignatureUseCase creates a signature use case. validity is the lifetime
// of self-provisioned signing certificates.
func NewSignatureUseCase(
	repo SignatureRepository,
	signer DocumentSigner,
	validity time.Duration,
) SignatureUseCase {
	return &signatureUseCase{
		repo:     repo,
		signer:   signer,
		validity: validity,
		now:      time.Now,
	}
}

// Sign produces a new signature over the document content and appends it to
// the ledger. The private key never reaches the database; only the
// certificate is stored.
func (u *signatureUseCase) Sign(
	ctx context.Context,
	req SignRequest,
) (*signatureDomain.DigitalSignature, error) {
	now := u.now().UTC()

	bundlePEM := req.CertificateBundle
	if len(bundlePEM) == 0 {
		generated, err := u.signer.GenerateBundle(req.SignerName, req.SignerLicenseID, now, u.validity)
		if err != nil {
			return nil, apperrors.Wrap(signatureDomain.ErrSigningFailed, fmt.Sprintf("failed to provision credential: %v", err))
		}
		bundlePEM = generated
	}

	bundle, err := u.signer.ParseBundle(bundlePEM)
	if err != nil {
		return nil, err
	}
	if now.Before(bundle.Certificate.NotBefore) || now.After(bundle.Certificate.NotAfter) {
		return nil, apperrors.Wrap(signatureDomain.ErrInvalidCertificate, "certificate is outside its validity window")
	}

	documentHash, signatureData, err := u.signer.Sign(req.DocumentContent, bundle)
	if err != nil {
		return nil, err
	}

	sig := &signatureDomain.DigitalSignature{
		ID:                   uuid.Must(uuid.NewV7()),
		DocumentID:           req.DocumentID,
		DocumentType:         req.DocumentType,
		SignerID:             req.SignerID,
		SignerName:           req.SignerName,
		SignerLicenseID:      req.SignerLicenseID,
		CertificateData:      bundle.CertificatePEM(),
		SignatureData:        signatureData,
		HashAlgorithm:        signatureService.HashAlgorithm,
		SignatureAlgorithm:   signatureService.SignatureAlgorithm,
		DocumentHash:         documentHash,
		CertificateSerial:    bundle.Serial(),
		CertificateIssuer:    bundle.Issuer(),
		CertificateValidFrom: bundle.Certificate.NotBefore,
		CertificateValidTo:   bundle.Certificate.NotAfter,
		SignedAt:             now,
		IsValid:              true,
		RecordCreatedAt:      now,
	}

	if err := u.repo.Create(ctx, sig); err != nil {
		return nil, err
	}
	return sig, nil
}

// Verify checks the most recent signature for a document against the supplied
// content and persists the outcome on that row. A failed check is a normal
// result, not an error, and a document with no signature on record fails
// closed with an invalid result; only infrastructure failures return errors.
func (u *signatureUseCase) Verify(
	ctx context.Context,
	documentID string,
	documentContent []byte,
) (*VerifyResult, error) {
	sig, err := u.repo.GetLatestByDocument(ctx, documentID)
	if err != nil {
		if apperrors.Is(err, signatureDomain.ErrSignatureNotFound) {
			return &VerifyResult{
				Valid:  false,
				Status: signatureDomain.StatusInvalid,
				Notes:  "no signature on record",
			}, nil
		}
		return nil, err
	}

	now := u.now().UTC()
	valid, notes := u.evaluate(sig, documentContent, now)

	sig.VerifiedAt = &now
	sig.IsValid = valid
	if !sig.Revoked() {
		sig.VerificationNotes = notes
	}
	if err := u.repo.UpdateVerification(ctx, sig); err != nil {
		return nil, err
	}

	return &VerifyResult{
		Signature: sig,
		Valid:     valid,
		Status:    sig.Status(now),
		Notes:     sig.VerificationNotes,
	}, nil
}

// evaluate runs the verification checks in order of severity and returns the
// verdict plus a note describing the first failed check.
func (u *signatureUseCase) evaluate(
	sig *signatureDomain.DigitalSignature,
	content []byte,
	now time.Time,
) (bool, string) {
	if sig.Revoked() {
		return false, sig.VerificationNotes
	}
	if sig.CertificateExpired(now) {
		return false, "certificate expired"
	}

	bundle, err := u.signer.ParseBundle([]byte(sig.CertificateData))
	if err != nil {
		return false, fmt.Sprintf("stored certificate unreadable: %v", err)
	}
	ok, err := u.signer.Verify(content, sig.SignatureData, bundle)
	if err != nil {
		return false, fmt.Sprintf("signature verification error: %v", err)
	}
	if !ok {
		return false, "signature does not match document content"
	}
	return true, "signature verified"
}

// Revoke invalidates every signature on a document. Already-revoked rows are
// left untouched, making the operation idempotent.
func (u *signatureUseCase) Revoke(ctx context.Context, documentID, reason string) error {
	sigs, err := u.repo.ListByDocument(ctx, documentID)
	if err != nil {
		return err
	}
	if len(sigs) == 0 {
		return signatureDomain.ErrSignatureNotFound
	}

	now := u.now().UTC()
	for _, sig := range sigs {
		if sig.Revoked() {
			continue
		}
		sig.VerifiedAt = &now
		sig.IsValid = false
		sig.VerificationNotes = fmt.Sprintf("%s: %s", signatureDomain.RevokedNotePrefix, reason)
		if err := u.repo.UpdateVerification(ctx, sig); err != nil {
			return err
		}
	}
	return nil
}

// ListByDocument returns every signature for a document, newest first.
func (u *signatureUseCase) ListByDocument(
	ctx context.Context,
	documentID string,
) ([]*signatureDomain.DigitalSignature, error) {
	return u.repo.ListByDocument(ctx, documentID)
}

// IsDocumentSigned reports whether the document carries at least one
// currently valid signature.
func (u *signatureUseCase) IsDocumentSigned(ctx context.Context, documentID string) (bool, error) {
	return u.repo.ExistsValidByDocument(ctx, documentID)
}
