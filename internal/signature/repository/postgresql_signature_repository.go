// Package repository implements persistence for the digital signature ledger.
package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/healplus/compliance/internal/database"
	apperrors "github.com/healplus/compliance/internal/errors"
	signatureDomain "github.com/healplus/compliance/internal/signature/domain"
)

// signatureColumns is the canonical column list shared by all row queries.
const signatureColumns = `id, document_id, document_type, signer_id, signer_name, signer_license_id,
	certificate_data, signature_data, hash_algorithm, signature_algorithm, document_hash,
	certificate_serial, certificate_issuer, certificate_valid_from, certificate_valid_to,
	signed_at, verified_at, is_valid, verification_notes, record_created_at, record_updated_at`

// scanSignature scans one signature row from any row-like scanner.
func scanSignature(scan func(dest ...any) error) (*signatureDomain.DigitalSignature, error) {
	var sig signatureDomain.DigitalSignature
	err := scan(
		&sig.ID,
		&sig.DocumentID,
		&sig.DocumentType,
		&sig.SignerID,
		&sig.SignerName,
		&sig.SignerLicenseID,
		&sig.CertificateData,
		&sig.SignatureData,
		&sig.HashAlgorithm,
		&sig.SignatureAlgorithm,
		&sig.DocumentHash,
		&sig.CertificateSerial,
		&sig.CertificateIssuer,
		&sig.CertificateValidFrom,
		&sig.CertificateValidTo,
		&sig.SignedAt,
		&sig.VerifiedAt,
		&sig.IsValid,
		&sig.VerificationNotes,
		&sig.RecordCreatedAt,
		&sig.RecordUpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &sig, nil
}

// collectSignatures drains a result set into a slice.
func collectSignatures(rows *sql.Rows) ([]*signatureDomain.DigitalSignature, error) {
	defer rows.Close() //nolint:errcheck

	var sigs []*signatureDomain.DigitalSignature
	for rows.Next() {
		sig, err := scanSignature(rows.Scan)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan signature")
		}
		sigs = append(sigs, sig)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate signatures")
	}
	return sigs, nil
}

// PostgreSQLSignatureRepository implements DigitalSignature persistence for PostgreSQL.
type PostgreSQLSignatureRepository struct {
	db *sql.DB
}

// NewPostgreSQLSignatureRepository creates a new PostgreSQL signature repository instance.
func NewPostgreSQLSignatureRepository(db *sql.DB) *PostgreSQLSignatureRepository {
	return &PostgreSQLSignatureRepository{db: db}
}

// Create inserts a new signature row.
func (p *PostgreSQLSignatureRepository) Create(
	ctx context.Context,
	sig *signatureDomain.DigitalSignature,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO digital_signatures (` + signatureColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
			          $14, $15, $16, $17, $18, $19, $20, $21)`

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
func (p *PostgreSQLSignatureRepository) UpdateVerification(
	ctx context.Context,
	sig *signatureDomain.DigitalSignature,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE digital_signatures
			  SET verified_at = $1, is_valid = $2, verification_notes = $3, record_updated_at = $4
			  WHERE id = $5`

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
func (p *PostgreSQLSignatureRepository) GetLatestByDocument(
	ctx context.Context,
	documentID string,
) (*signatureDomain.DigitalSignature, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + signatureColumns + `
			  FROM digital_signatures
			  WHERE document_id = $1
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
func (p *PostgreSQLSignatureRepository) ListByDocument(
	ctx context.Context,
	documentID string,
) ([]*signatureDomain.DigitalSignature, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + signatureColumns + `
			  FROM digital_signatures
			  WHERE document_id = $1
			  ORDER BY signed_at DESC`

	rows, err := querier.QueryContext(ctx, query, documentID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list signatures")
	}
	return collectSignatures(rows)
}

// ExistsValidByDocument reports whether the document carries at least one
// currently valid signature.
func (p *PostgreSQLSignatureRepository) ExistsValidByDocument(
	ctx context.Context,
	documentID string,
) (bool, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT EXISTS (
			    SELECT 1 FROM digital_signatures
			    WHERE document_id = $1 AND is_valid = TRUE
			  )`

	var exists bool
	if err := querier.QueryRowContext(ctx, query, documentID).Scan(&exists); err != nil {
		return false, apperrors.Wrap(err, "failed to check valid signature existence")
	}
	return exists, nil
}
