// Package domain defines the core domain models for data retention.
// One RetentionRecord tracks the lifecycle of a single regulated entity:
// its retention window, backup state, deletion state and integrity state.
// Rows are never physically removed; the ledger row is the permanent
// compliance trail even after the underlying entity is deleted.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// LegalBasis is the enumerated legal reason a record must be retained.
type LegalBasis string

const (
	// LegalBasisLei13787 is the Brazilian electronic medical record statute
	// mandating multi-year retention of clinical documents.
	LegalBasisLei13787 LegalBasis = "LEI_13787"
	// LegalBasisLGPD is the Brazilian general data protection law.
	LegalBasisLGPD LegalBasis = "LGPD"
	// LegalBasisANVISA covers records retained under sanitary regulation.
	LegalBasisANVISA LegalBasis = "ANVISA"
	// LegalBasisMedicalRecords covers professional-council record keeping rules.
	LegalBasisMedicalRecords LegalBasis = "MEDICAL_RECORDS"
	// LegalBasisConsent covers data retained under explicit patient consent.
	LegalBasisConsent LegalBasis = "CONSENT"
)

// Status describes where a record sits in its retention lifecycle.
type Status string

const (
	StatusActive            Status = "ACTIVE"
	StatusBackedUp          Status = "BACKED_UP"
	StatusMarkedForDeletion Status = "MARKED_FOR_DELETION"
	StatusDeleted           Status = "DELETED"
)

// SystemDeletionActor is recorded as deletedBy when the deletion sweep
// removes an entity, as opposed to an operator-triggered deletion.
const SystemDeletionActor = "SYSTEM_AUTO_DELETION"

// RetentionRecord is one row of the retention ledger.
type RetentionRecord struct {
	// ID is the unique identifier of the ledger row.
	ID uuid.UUID
	// EntityType is the tracked entity's type tag (e.g., "WoundAssessment").
	EntityType string
	// EntityID is the tracked entity's identifier. (EntityType, EntityID) is
	// unique among non-deleted rows.
	EntityID string
	// CreatedAt is when the underlying clinical record was created.
	CreatedAt time.Time
	// RetentionUntil is the earliest moment the record may leave retention.
	// Always strictly after CreatedAt.
	RetentionUntil time.Time
	// RetentionDays is the configured retention window in days.
	RetentionDays int
	// LegalBasis is the legal reason for the retention period.
	LegalBasis LegalBasis

	// Backup state.
	IsBackedUp      bool
	LastBackupAt    *time.Time
	BackupLocation  string
	BackupHash      string
	BackupAttempts  int
	LastBackupError string

	// IsArchived marks records moved to cold storage.
	IsArchived bool

	// Deletion state. IsDeleted implies IsBackedUp: data is never destroyed
	// without a verified backup.
	IsMarkedForDeletion bool
	MarkedForDeletionAt *time.Time
	DeletionReason      string
	IsDeleted           bool
	DeletedAt           *time.Time
	DeletedBy           string

	// Integrity state.
	LastVerifiedAt          *time.Time
	IntegrityVerified       bool
	VerificationHash        string
	RequiresSpecialHandling bool
	SpecialHandlingNotes    string

	// Ledger row bookkeeping.
	RecordCreatedAt time.Time
	RecordUpdatedAt *time.Time
}

// Status derives the lifecycle state from the record's flags.
// INTEGRITY_FAILED is an orthogonal condition; check IntegrityVerified.
func (r *RetentionRecord) Status() Status {
	switch {
	case r.IsDeleted:
		return StatusDeleted
	case r.IsMarkedForDeletion:
		return StatusMarkedForDeletion
	case r.IsBackedUp:
		return StatusBackedUp
	default:
		return StatusActive
	}
}

// Expired reports whether the retention window has lapsed at the given time.
func (r *RetentionRecord) Expired(now time.Time) bool {
	return r.RetentionUntil.Before(now)
}

// GraceElapsed reports whether the mandatory grace window between marking and
// deletion has elapsed at the given time.
func (r *RetentionRecord) GraceElapsed(now time.Time, grace time.Duration) bool {
	if r.MarkedForDeletionAt == nil {
		return false
	}
	return !r.MarkedForDeletionAt.After(now.Add(-grace))
}
