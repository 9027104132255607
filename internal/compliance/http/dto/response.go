package dto

import (
	"time"

	"github.com/healplus/compliance/internal/backup"
	retentionDomain "github.com/healplus/compliance/internal/retention/domain"
	retentionUseCase "github.com/healplus/compliance/internal/retention/usecase"
	signatureDomain "github.com/healplus/compliance/internal/signature/domain"
)

// SignatureResponse represents a digital signature in API responses.
// The certificate is included; the private key never leaves the signer.
type SignatureResponse struct {
	ID                 string     `json:"id"`
	DocumentID         string     `json:"document_id"`
	DocumentType       string     `json:"document_type"`
	SignerID           string     `json:"signer_id"`
	SignerName         string     `json:"signer_name"`
	SignerLicenseID    string     `json:"signer_license_id"`
	HashAlgorithm      string     `json:"hash_algorithm"`
	SignatureAlgorithm string     `json:"signature_algorithm"`
	DocumentHash       string     `json:"document_hash"`
	CertificateSerial  string     `json:"certificate_serial"`
	CertificateIssuer  string     `json:"certificate_issuer"`
	CertificateValidTo time.Time  `json:"certificate_valid_to"`
	SignedAt           time.Time  `json:"signed_at"`
	VerifiedAt         *time.Time `json:"verified_at,omitempty"`
	IsValid            bool       `json:"is_valid"`
	Status             string     `json:"status"`
	VerificationNotes  string     `json:"verification_notes,omitempty"`
}

// MapSignatureToResponse converts a domain signature to an API response.
func MapSignatureToResponse(sig *signatureDomain.DigitalSignature, now time.Time) SignatureResponse {
	return SignatureResponse{
		ID:                 sig.ID.String(),
		DocumentID:         sig.DocumentID,
		DocumentType:       sig.DocumentType,
		SignerID:           sig.SignerID,
		SignerName:         sig.SignerName,
		SignerLicenseID:    sig.SignerLicenseID,
		HashAlgorithm:      sig.HashAlgorithm,
		SignatureAlgorithm: sig.SignatureAlgorithm,
		DocumentHash:       sig.DocumentHash,
		CertificateSerial:  sig.CertificateSerial,
		CertificateIssuer:  sig.CertificateIssuer,
		CertificateValidTo: sig.CertificateValidTo,
		SignedAt:           sig.SignedAt,
		VerifiedAt:         sig.VerifiedAt,
		IsValid:            sig.IsValid,
		Status:             string(sig.Status(now)),
		VerificationNotes:  sig.VerificationNotes,
	}
}

// MapSignaturesToResponse converts a slice of domain signatures.
func MapSignaturesToResponse(sigs []*signatureDomain.DigitalSignature, now time.Time) []SignatureResponse {
	out := make([]SignatureResponse, 0, len(sigs))
	for _, sig := range sigs {
		out = append(out, MapSignatureToResponse(sig, now))
	}
	return out
}

// VerifyResponse is the outcome of a verification attempt.
type VerifyResponse struct {
	DocumentID string            `json:"document_id"`
	Valid      bool              `json:"valid"`
	Status     string            `json:"status"`
	Notes      string             `json:"notes,omitempty"`
	Signature  *SignatureResponse `json:"signature,omitempty"`
}

// SignedStatusResponse reports whether a document carries a valid signature.
type SignedStatusResponse struct {
	DocumentID string `json:"document_id"`
	Signed     bool   `json:"signed"`
}

// RetentionRecordResponse represents a retention ledger row in API responses.
type RetentionRecordResponse struct {
	ID                      string     `json:"id"`
	EntityType              string     `json:"entity_type"`
	EntityID                string     `json:"entity_id"`
	CreatedAt               time.Time  `json:"created_at"`
	RetentionUntil          time.Time  `json:"retention_until"`
	RetentionDays           int        `json:"retention_days"`
	LegalBasis              string     `json:"legal_basis"`
	Status                  string     `json:"status"`
	IsBackedUp              bool       `json:"is_backed_up"`
	LastBackupAt            *time.Time `json:"last_backup_at,omitempty"`
	BackupLocation          string     `json:"backup_location,omitempty"`
	BackupAttempts          int        `json:"backup_attempts"`
	LastBackupError         string     `json:"last_backup_error,omitempty"`
	IsMarkedForDeletion     bool       `json:"is_marked_for_deletion"`
	MarkedForDeletionAt     *time.Time `json:"marked_for_deletion_at,omitempty"`
	DeletionReason          string     `json:"deletion_reason,omitempty"`
	IsDeleted               bool       `json:"is_deleted"`
	DeletedAt               *time.Time `json:"deleted_at,omitempty"`
	DeletedBy               string     `json:"deleted_by,omitempty"`
	LastVerifiedAt          *time.Time `json:"last_verified_at,omitempty"`
	IntegrityVerified       bool       `json:"integrity_verified"`
	RequiresSpecialHandling bool       `json:"requires_special_handling"`
	SpecialHandlingNotes    string     `json:"special_handling_notes,omitempty"`
}

// MapRetentionRecordToResponse converts a ledger row to an API response.
func MapRetentionRecordToResponse(record *retentionDomain.RetentionRecord) RetentionRecordResponse {
	return RetentionRecordResponse{
		ID:                      record.ID.String(),
		EntityType:              record.EntityType,
		EntityID:                record.EntityID,
		CreatedAt:               record.CreatedAt,
		RetentionUntil:          record.RetentionUntil,
		RetentionDays:           record.RetentionDays,
		LegalBasis:              string(record.LegalBasis),
		Status:                  string(record.Status()),
		IsBackedUp:              record.IsBackedUp,
		LastBackupAt:            record.LastBackupAt,
		BackupLocation:          record.BackupLocation,
		BackupAttempts:          record.BackupAttempts,
		LastBackupError:         record.LastBackupError,
		IsMarkedForDeletion:     record.IsMarkedForDeletion,
		MarkedForDeletionAt:     record.MarkedForDeletionAt,
		DeletionReason:          record.DeletionReason,
		IsDeleted:               record.IsDeleted,
		DeletedAt:               record.DeletedAt,
		DeletedBy:               record.DeletedBy,
		LastVerifiedAt:          record.LastVerifiedAt,
		IntegrityVerified:       record.IntegrityVerified,
		RequiresSpecialHandling: record.RequiresSpecialHandling,
		SpecialHandlingNotes:    record.SpecialHandlingNotes,
	}
}

// RegisterRetentionResponse is the outcome of registering an entity.
type RegisterRetentionResponse struct {
	RetentionID    string    `json:"retention_id"`
	EntityType     string    `json:"entity_type"`
	EntityID       string    `json:"entity_id"`
	RetentionUntil time.Time `json:"retention_until"`
	RetentionDays  int       `json:"retention_days"`
	LegalBasis     string    `json:"legal_basis"`
}

// MapRecordToRegisterResponse converts a freshly created ledger row.
func MapRecordToRegisterResponse(record *retentionDomain.RetentionRecord) RegisterRetentionResponse {
	return RegisterRetentionResponse{
		RetentionID:    record.ID.String(),
		EntityType:     record.EntityType,
		EntityID:       record.EntityID,
		RetentionUntil: record.RetentionUntil,
		RetentionDays:  record.RetentionDays,
		LegalBasis:     string(record.LegalBasis),
	}
}

// StatisticsResponse aggregates retention, integrity and backup counts. The
// backup section is best-effort and omitted when the archive store cannot be
// listed.
type StatisticsResponse struct {
	Retention RetentionStatisticsResponse `json:"retention"`
	Integrity IntegrityStatisticsResponse `json:"integrity"`
	Backups   *BackupStatisticsResponse   `json:"backups,omitempty"`
}

// BackupStatisticsResponse holds the archive store aggregates.
type BackupStatisticsResponse struct {
	TotalArchives  int64 `json:"total_archives"`
	TotalSizeBytes int64 `json:"total_size_bytes"`
}

// MapArchivesToStatistics aggregates an archive listing into backup counts.
func MapArchivesToStatistics(infos []backup.ArchiveInfo) *BackupStatisticsResponse {
	var size int64
	for _, info := range infos {
		size += info.SizeBytes
	}
	return &BackupStatisticsResponse{
		TotalArchives:  int64(len(infos)),
		TotalSizeBytes: size,
	}
}

// RetentionStatisticsResponse holds the retention ledger aggregates.
type RetentionStatisticsResponse struct {
	TotalRecords    int64 `json:"total_records"`
	BackedUpRecords int64 `json:"backed_up_records"`
	PendingDeletion int64 `json:"pending_deletion"`
	DeletedRecords  int64 `json:"deleted_records"`
}

// IntegrityStatisticsResponse holds the integrity aggregates.
type IntegrityStatisticsResponse struct {
	TotalRecords           int64   `json:"total_records"`
	VerifiedRecords        int64   `json:"verified_records"`
	FailedRecords          int64   `json:"failed_records"`
	SpecialHandlingRecords int64   `json:"special_handling_records"`
	IntegrityPercentage    float64 `json:"integrity_percentage"`
}

// MapStatisticsToResponse converts the use case aggregates.
func MapStatisticsToResponse(stats *retentionUseCase.Statistics) StatisticsResponse {
	return StatisticsResponse{
		Retention: RetentionStatisticsResponse{
			TotalRecords:    stats.Retention.TotalRecords,
			BackedUpRecords: stats.Retention.BackedUpRecords,
			PendingDeletion: stats.Retention.PendingDeletion,
			DeletedRecords:  stats.Retention.DeletedRecords,
		},
		Integrity: IntegrityStatisticsResponse{
			TotalRecords:           stats.Integrity.TotalRecords,
			VerifiedRecords:        stats.Integrity.VerifiedRecords,
			FailedRecords:          stats.Integrity.FailedRecords,
			SpecialHandlingRecords: stats.Integrity.SpecialHandlingRecords,
			IntegrityPercentage:    stats.Integrity.IntegrityPercentage(),
		},
	}
}

// BackupInfoResponse represents one stored archive.
type BackupInfoResponse struct {
	Name         string    `json:"name"`
	Path         string    `json:"path"`
	SizeBytes    int64     `json:"size_bytes"`
	LastModified time.Time `json:"last_modified"`
}

// MapArchivesToResponse converts stored archive listings.
func MapArchivesToResponse(infos []backup.ArchiveInfo) []BackupInfoResponse {
	out := make([]BackupInfoResponse, 0, len(infos))
	for _, info := range infos {
		out = append(out, BackupInfoResponse{
			Name:         info.Name,
			Path:         info.Path,
			SizeBytes:    info.SizeBytes,
			LastModified: info.LastModified,
		})
	}
	return out
}
