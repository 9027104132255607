package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/healplus/compliance/internal/metrics"
	retentionDomain "github.com/healplus/compliance/internal/retention/domain"
)

// BackupSweep backs up every ledger row that has no verified backup yet.
// Failed rows stay pending and are retried on every subsequent run; each
// attempt is recorded on the row so operators can spot rows that never
// converge.
type BackupSweep struct {
	ledger   Ledger
	archiver BackupArchiver
	business metrics.BusinessMetrics
	logger   *slog.Logger
	now      func() time.Time
}

// NewBackupSweep creates a backup sweep instance.
func NewBackupSweep(
	ledger Ledger,
	archiver BackupArchiver,
	business metrics.BusinessMetrics,
	logger *slog.Logger,
) *BackupSweep {
	return &BackupSweep{
		ledger:   ledger,
		archiver: archiver,
		business: business,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock overrides the time source, used by tests.
func (s *BackupSweep) WithClock(now func() time.Time) *BackupSweep {
	s.now = now
	return s
}

// Run processes every row pending backup, sequentially. One failing row never
// stops the sweep; the error is recorded on the row and the sweep moves on.
func (s *BackupSweep) Run(ctx context.Context) (*Report, error) {
	records, err := s.ledger.FindPendingBackup(ctx)
	if err != nil {
		return nil, err
	}

	report := &Report{}
	for _, record := range records {
		if ctx.Err() != nil {
			break
		}
		report.Processed++
		if err := s.BackupRecord(ctx, record); err != nil {
			report.Failed++
			s.logger.Error("backup failed",
				"entity_type", record.EntityType,
				"entity_id", record.EntityID,
				"attempts", record.BackupAttempts,
				"error", err,
			)
			continue
		}
		report.Succeeded++
	}

	s.business.RecordSweep(ctx, "backup", int64(report.Processed), int64(report.Failed))
	s.logger.Info("backup sweep finished",
		"processed", report.Processed,
		"succeeded", report.Succeeded,
		"failed", report.Failed,
	)
	return report, ctx.Err()
}

// BackupRecord creates and records a backup for a single ledger row. On
// failure the attempt counter and last error are persisted and the row stays
// pending; on success the row is marked backed up and its verification
// fingerprint is stored for the integrity sweep.
func (s *BackupSweep) BackupRecord(ctx context.Context, record *retentionDomain.RetentionRecord) error {
	record.BackupAttempts++

	result, err := s.archiver.CreateBackup(ctx, record)
	if err != nil {
		record.LastBackupError = err.Error()
		if updateErr := s.ledger.Update(ctx, record); updateErr != nil {
			s.logger.Error("failed to record backup attempt",
				"entity_type", record.EntityType,
				"entity_id", record.EntityID,
				"error", updateErr,
			)
		}
		return err
	}

	record.IsBackedUp = true
	record.LastBackupAt = &result.CreatedAt
	record.BackupLocation = result.Location
	record.BackupHash = result.Hash
	record.LastBackupError = ""
	record.VerificationHash = VerificationHash(record)

	return s.ledger.Update(ctx, record)
}
