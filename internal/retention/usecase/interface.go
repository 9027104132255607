// Package usecase implements business logic for the retention ledger:
// registering entities under a retention window, forcing backups and
// integrity checks on demand, and aggregating compliance statistics.
package usecase

import (
	"context"
	"time"

	retentionDomain "github.com/healplus/compliance/internal/retention/domain"
)

// RetentionRepository defines the persistence operations over the ledger.
type RetentionRepository interface {
	Create(ctx context.Context, record *retentionDomain.RetentionRecord) error
	Update(ctx context.Context, record *retentionDomain.RetentionRecord) error
	GetByEntity(ctx context.Context, entityType, entityID string) (*retentionDomain.RetentionRecord, error)
	ExistsActive(ctx context.Context, entityType, entityID string) (bool, error)
	FindPendingBackup(ctx context.Context) ([]*retentionDomain.RetentionRecord, error)
	FindExpiredReadyForDeletion(ctx context.Context, now time.Time) ([]*retentionDomain.RetentionRecord, error)
	FindMarkedBefore(ctx context.Context, threshold time.Time) ([]*retentionDomain.RetentionRecord, error)
	FindNeedingVerification(ctx context.Context, cutoff time.Time, limit int) ([]*retentionDomain.RetentionRecord, error)
	RetentionStatistics(ctx context.Context) (*retentionDomain.RetentionStatistics, error)
	IntegrityStatistics(ctx context.Context) (*retentionDomain.IntegrityStatistics, error)
}

// RecordBackuper creates and records a backup for a single ledger row.
type RecordBackuper interface {
	BackupRecord(ctx context.Context, record *retentionDomain.RetentionRecord) error
}

// RecordVerifier runs the integrity checks for a single ledger row.
type RecordVerifier interface {
	VerifyRecord(ctx context.Context, record *retentionDomain.RetentionRecord) (bool, error)
}

// RegisterRequest carries the inputs for placing an entity under retention.
type RegisterRequest struct {
	EntityType string
	EntityID   string
	// CreatedAt is when the underlying record was created. Zero means now.
	CreatedAt time.Time
	// RetentionDays overrides the configured default when positive.
	RetentionDays int
	// LegalBasis overrides the default statute when non-empty.
	LegalBasis retentionDomain.LegalBasis
}

// Statistics bundles the ledger aggregates reported by the compliance API.
type Statistics struct {
	Retention *retentionDomain.RetentionStatistics
	Integrity *retentionDomain.IntegrityStatistics
}

// RetentionUseCase defines the business operations of the retention ledger.
type RetentionUseCase interface {
	// Register places an entity under retention, applying configured
	// defaults for the window and legal basis.
	Register(ctx context.Context, req RegisterRequest) (*retentionDomain.RetentionRecord, error)
	// GetByEntity returns the most recent ledger row for an entity.
	GetByEntity(ctx context.Context, entityType, entityID string) (*retentionDomain.RetentionRecord, error)
	// ForceBackup creates a backup for the entity immediately, outside the
	// scheduled sweep.
	ForceBackup(ctx context.Context, entityType, entityID string) (*retentionDomain.RetentionRecord, error)
	// ForceVerify runs the integrity checks for the entity immediately,
	// outside the scheduled sweep.
	ForceVerify(ctx context.Context, entityType, entityID string) (*retentionDomain.RetentionRecord, error)
	// Statistics aggregates retention and integrity counts over the ledger.
	Statistics(ctx context.Context) (*Statistics, error)
}
