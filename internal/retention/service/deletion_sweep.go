package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/healplus/compliance/internal/metrics"
	retentionDomain "github.com/healplus/compliance/internal/retention/domain"
)

const (
	deletionReasonExpired   = "retention period expired"
	deletionReasonCancelled = "deletion cancelled - no verified backup"
)

// DeletionSweep runs the two-phase deletion protocol over the ledger. Phase
// one marks rows whose retention window has lapsed and extends the window by
// the grace period. Phase two, for rows marked longer ago than the grace
// period, deletes the underlying entity only when a verified backup exists;
// otherwise the deletion is aborted and the row stays pending with an
// annotated reason. The abort path is what guarantees data is never destroyed
// without a verified backup.
type DeletionSweep struct {
	ledger   Ledger
	archiver BackupArchiver
	remover  EntityRemover
	grace    time.Duration
	business metrics.BusinessMetrics
	logger   *slog.Logger
	now      func() time.Time
}

// NewDeletionSweep creates a deletion sweep instance.
func NewDeletionSweep(
	ledger Ledger,
	archiver BackupArchiver,
	remover EntityRemover,
	grace time.Duration,
	business metrics.BusinessMetrics,
	logger *slog.Logger,
) *DeletionSweep {
	return &DeletionSweep{
		ledger:   ledger,
		archiver: archiver,
		remover:  remover,
		grace:    grace,
		business: business,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock overrides the time source, used by tests.
func (s *DeletionSweep) WithClock(now func() time.Time) *DeletionSweep {
	s.now = now
	return s
}

// Run executes both phases of the deletion protocol.
func (s *DeletionSweep) Run(ctx context.Context) (*Report, error) {
	report := &Report{}

	if err := s.markExpired(ctx, report); err != nil {
		return report, err
	}
	if err := s.executeMarked(ctx, report); err != nil {
		return report, err
	}

	s.business.RecordSweep(ctx, "deletion", int64(report.Processed), int64(report.Failed))
	s.logger.Info("deletion sweep finished",
		"processed", report.Processed,
		"succeeded", report.Succeeded,
		"failed", report.Failed,
	)
	return report, ctx.Err()
}

// markExpired flags rows past their retention window. The window is extended
// by the grace period so retentionUntil keeps pointing at the earliest moment
// the row may actually leave retention; the stored verification fingerprint
// is recomputed to follow the changed window.
func (s *DeletionSweep) markExpired(ctx context.Context, report *Report) error {
	now := s.now().UTC()

	records, err := s.ledger.FindExpiredReadyForDeletion(ctx, now)
	if err != nil {
		return err
	}

	for _, record := range records {
		if ctx.Err() != nil {
			break
		}
		report.Processed++

		markedAt := now
		record.IsMarkedForDeletion = true
		record.MarkedForDeletionAt = &markedAt
		record.DeletionReason = deletionReasonExpired
		record.RetentionUntil = record.RetentionUntil.Add(s.grace)
		if record.VerificationHash != "" {
			record.VerificationHash = VerificationHash(record)
		}

		if err := s.ledger.Update(ctx, record); err != nil {
			report.Failed++
			s.logger.Error("failed to mark record for deletion",
				"entity_type", record.EntityType,
				"entity_id", record.EntityID,
				"error", err,
			)
			continue
		}
		report.Succeeded++

		s.logger.Info("record marked for deletion",
			"entity_type", record.EntityType,
			"entity_id", record.EntityID,
			"retention_until", record.RetentionUntil,
		)
	}
	return nil
}

// executeMarked deletes entities whose grace window has elapsed, enforcing
// the verified-backup requirement.
func (s *DeletionSweep) executeMarked(ctx context.Context, report *Report) error {
	now := s.now().UTC()

	records, err := s.ledger.FindMarkedBefore(ctx, now.Add(-s.grace))
	if err != nil {
		return err
	}

	for _, record := range records {
		if ctx.Err() != nil {
			break
		}
		report.Processed++

		if !s.backupVerified(ctx, record) {
			record.DeletionReason = deletionReasonCancelled
			if err := s.ledger.Update(ctx, record); err != nil {
				s.logger.Error("failed to annotate cancelled deletion",
					"entity_type", record.EntityType,
					"entity_id", record.EntityID,
					"error", err,
				)
			}
			report.Failed++
			s.logger.Warn("deletion aborted, no verified backup",
				"entity_type", record.EntityType,
				"entity_id", record.EntityID,
			)
			continue
		}

		if err := s.remover.Delete(ctx, record.EntityType, record.EntityID, retentionDomain.SystemDeletionActor); err != nil {
			report.Failed++
			s.logger.Error("failed to delete entity",
				"entity_type", record.EntityType,
				"entity_id", record.EntityID,
				"error", err,
			)
			continue
		}

		deletedAt := now
		record.IsDeleted = true
		record.DeletedAt = &deletedAt
		record.DeletedBy = retentionDomain.SystemDeletionActor

		if err := s.ledger.Update(ctx, record); err != nil {
			report.Failed++
			s.logger.Error("failed to record deletion",
				"entity_type", record.EntityType,
				"entity_id", record.EntityID,
				"error", err,
			)
			continue
		}
		report.Succeeded++

		s.logger.Info("entity deleted",
			"entity_type", record.EntityType,
			"entity_id", record.EntityID,
			"deleted_by", record.DeletedBy,
		)
	}
	return nil
}

// backupVerified checks that the row claims a backup and that the stored
// archive still matches its recorded hash.
func (s *DeletionSweep) backupVerified(ctx context.Context, record *retentionDomain.RetentionRecord) bool {
	if !record.IsBackedUp {
		return false
	}
	ok, err := s.archiver.VerifyIntegrity(ctx, record.BackupLocation, record.BackupHash)
	if err != nil {
		s.logger.Error("backup verification error",
			"entity_type", record.EntityType,
			"entity_id", record.EntityID,
			"error", err,
		)
		return false
	}
	return ok
}
