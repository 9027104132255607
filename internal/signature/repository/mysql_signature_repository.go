package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/healplus/compliance/internal/database"
	apperrors "github.com/healplus/compliance/internal/errors"
	signatureDomain "github.com/healplus/compliance/internal/signature/domain"
)

// MySQLSignatureRepository implements DigitalSignature persistence for MySQL.
type MySQLSignatureRepository struct {
	db *sql.DB
}

// NewMySQLSignatureRepository creates a new MySQL signature repository instance.
func NewMySQLSignatureRepository(db *sql.DB) *MySQLSignatureRepository {
	return &MySQLSignatureRepository{db: db}
}

// Create inserts a new signature row.
func (m *MySQLSignatureRepository) Create(
	ctx context.Context,
	sig *signatureDomain.DigitalSignature,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO digital_signatures (` + signatureColumns + `)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := querier.ExecContext(
		ctx,
		query,
		sig.ID,
		sig.DocumentID,
		sig.DocumentType,
		sig.SignerID,
		sig.SignerName,
		sig.SignerLicenseID,
		sig.CertificateData,
		sig.SignatureData,
		sig.HashAlgorithm,
		sig.SignatureAlgorithm,
		sig.DocumentHash,
		sig.CertificateSerial,
		sig.CertificateIssuer,
		sig.CertificateValidFrom,
		sig.CertificateValidTo,
		sig.SignedAt,
		sig.VerifiedAt,
		sig.IsValid,
		sig.VerificationNotes,
		sig.RecordCreatedAt,
		sig.RecordUpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create signature")
	}
	return nil
}

// UpdateVerification persists the outcome of a verification attempt.
func (m *MySQLSignatureRepository) UpdateVerification(
	ctx context.Context,
	sig *signatureDomain.DigitalSignature,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE digital_signatures
			  SET verified_at = ?, is_valid = ?, verification_notes = ?, record_updated_at = ?
			  WHERE id = ?`

	now := time.Now().UTC()
	sig.RecordUpdatedAt = &now

	_, err := querier.ExecContext(
		ctx,
		query,
		sig.VerifiedAt,
		sig.IsValid,
		sig.VerificationNotes,
		sig.RecordUpdatedAt,
		sig.ID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update signature verification")
	}
	return nil
}

// GetLatestByDocument retrieves the most recent signature for a document.
func (m *MySQLSignatureRepository) GetLatestByDocument(
	ctx context.Context,
	documentID string,
) (*signatureDomain.DigitalSignature, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + signatureColumns + `
			  FROM digital_signatures
			  WHERE document_id = ?
			  ORDER BY signed_at DESC
			  LIMIT 1`

	sig, err := scanSignature(querier.QueryRowContext(ctx, query, documentID).Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, signatureDomain.ErrSignatureNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get latest signature")
	}
	return sig, nil
}

// ListByDocument retrieves every signature for a document, newest first.
func (m *MySQLSignatureRepository) ListByDocument(
	ctx context.Context,
	documentID string,
) ([]*signatureDomain.DigitalSignature, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + signatureColumns + `
			  FROM digital_signatures
			  WHERE document_id = ?
			  ORDER BY signed_at DESC`

	rows, err := querier.QueryContext(ctx, query, documentID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list signatures")
	}
	return collectSignatures(rows)
}

// ExistsValidByDocument reports whether the document carries at least one
// currently valid signature.
func (m *MySQLSignatureRepository) ExistsValidByDocument(
	ctx context.Context,
	documentID string,
) (bool, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT EXISTS (
			    SELECT 1 FROM digital_signatures
			    WHERE document_id = ? AND is_valid = TRUE
			  )`

	var exists bool
	if err := querier.QueryRowContext(ctx, query, documentID).Scan(&exists); err != nil {
		return false, apperrors.Wrap(err, "failed to check valid signature existence")
	}
	return exists, nil
}
