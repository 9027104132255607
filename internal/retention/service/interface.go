// Package service implements the scheduled lifecycle sweeps over the
// retention ledger: backing up pending records, marking and executing
// deletions after the grace window, and verifying record integrity.
package service

import (
	"context"
	"time"

	"github.com/healplus/compliance/internal/backup"
	retentionDomain "github.com/healplus/compliance/internal/retention/domain"
)

// Ledger defines the ledger operations the sweeps need.
type Ledger interface {
	Update(ctx context.Context, record *retentionDomain.RetentionRecord) error
	FindPendingBackup(ctx context.Context) ([]*retentionDomain.RetentionRecord, error)
	FindExpiredReadyForDeletion(ctx context.Context, now time.Time) ([]*retentionDomain.RetentionRecord, error)
	FindMarkedBefore(ctx context.Context, threshold time.Time) ([]*retentionDomain.RetentionRecord, error)
	FindNeedingVerification(ctx context.Context, cutoff time.Time, limit int) ([]*retentionDomain.RetentionRecord, error)
}

// BackupArchiver defines the archive operations the sweeps need.
type BackupArchiver interface {
	CreateBackup(ctx context.Context, record *retentionDomain.RetentionRecord) (*backup.Result, error)
	VerifyIntegrity(ctx context.Context, location, expectedHash string) (bool, error)
}

// EntityRemover deletes the underlying entity once the safety checks pass.
type EntityRemover interface {
	Delete(ctx context.Context, entityType, entityID, deletedBy string) error
}

// Report summarizes one sweep run.
type Report struct {
	Processed int
	Succeeded int
	Failed    int
}
