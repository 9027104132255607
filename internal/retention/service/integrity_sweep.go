package service

import (
	"context"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/healplus/compliance/internal/metrics"
	retentionDomain "github.com/healplus/compliance/internal/retention/domain"
)

const specialHandlingNotePrefix = "integrity check failed: "

// IntegritySweep verifies ledger rows whose last check is older than the
// staleness window. Each row's check is independent and I/O-bound, so rows
// are fanned out to a bounded worker pool; the sweep waits for every worker
// before reporting.
type IntegritySweep struct {
	ledger        Ledger
	archiver      BackupArchiver
	workers       int
	recordTimeout time.Duration
	staleness     time.Duration
	batchSize     int
	business      metrics.BusinessMetrics
	logger        *slog.Logger
	now           func() time.Time
}

// NewIntegritySweep creates an integrity sweep instance.
func NewIntegritySweep(
	ledger Ledger,
	archiver BackupArchiver,
	workers int,
	recordTimeout time.Duration,
	staleness time.Duration,
	batchSize int,
	business metrics.BusinessMetrics,
	logger *slog.Logger,
) *IntegritySweep {
	return &IntegritySweep{
		ledger:        ledger,
		archiver:      archiver,
		workers:       workers,
		recordTimeout: recordTimeout,
		staleness:     staleness,
		batchSize:     batchSize,
		business:      business,
		logger:        logger,
		now:           time.Now,
	}
}

// WithClock overrides the time source, used by tests.
func (s *IntegritySweep) WithClock(now func() time.Time) *IntegritySweep {
	s.now = now
	return s
}

// Run fans the stale rows out to the worker pool and waits for all of them.
// Individual verification failures are outcomes recorded on the rows, not
// sweep errors.
func (s *IntegritySweep) Run(ctx context.Context) (*Report, error) {
	cutoff := s.now().UTC().Add(-s.staleness)

	records, err := s.ledger.FindNeedingVerification(ctx, cutoff, s.batchSize)
	if err != nil {
		return nil, err
	}

	var processed, succeeded, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for _, record := range records {
		g.Go(func() error {
			rctx, cancel := context.WithTimeout(gctx, s.recordTimeout)
			defer cancel()

			processed.Add(1)
			ok, err := s.VerifyRecord(rctx, record)
			if err != nil {
				failed.Add(1)
				s.logger.Error("integrity verification error",
					"entity_type", record.EntityType,
					"entity_id", record.EntityID,
					"error", err,
				)
				return nil
			}
			if ok {
				succeeded.Add(1)
			} else {
				failed.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()

	report := &Report{
		Processed: int(processed.Load()),
		Succeeded: int(succeeded.Load()),
		Failed:    int(failed.Load()),
	}

	s.business.RecordSweep(ctx, "integrity", processed.Load(), failed.Load())
	s.logger.Info("integrity sweep finished",
		"processed", report.Processed,
		"succeeded", report.Succeeded,
		"failed", report.Failed,
	)
	return report, ctx.Err()
}

// VerifyRecord runs every integrity check for one ledger row and persists
// the outcome. Returns whether the row passed. A row that fails any check is
// flagged for special handling with a note listing each failed check.
func (s *IntegritySweep) VerifyRecord(ctx context.Context, record *retentionDomain.RetentionRecord) (bool, error) {
	now := s.now().UTC()
	var failures []string

	expected := VerificationHash(record)
	switch {
	case record.VerificationHash == "":
		// First verification of this row; adopt the fingerprint.
		record.VerificationHash = expected
	case record.VerificationHash != expected:
		failures = append(failures, "verification hash mismatch")
	}

	if record.CreatedAt.After(now) {
		failures = append(failures, "creation timestamp is in the future")
	}
	if !record.RetentionUntil.After(record.CreatedAt) {
		failures = append(failures, "retention window ends before creation")
	}

	if record.IsBackedUp {
		ok, err := s.archiver.VerifyIntegrity(ctx, record.BackupLocation, record.BackupHash)
		if err != nil {
			failures = append(failures, "backup archive unreadable: "+err.Error())
		} else if !ok {
			failures = append(failures, "backup archive hash mismatch")
		}
	}

	verified := len(failures) == 0
	record.LastVerifiedAt = &now
	record.IntegrityVerified = verified
	if verified {
		if strings.HasPrefix(record.SpecialHandlingNotes, specialHandlingNotePrefix) {
			record.RequiresSpecialHandling = false
			record.SpecialHandlingNotes = ""
		}
	} else {
		record.RequiresSpecialHandling = true
		record.SpecialHandlingNotes = specialHandlingNotePrefix + strings.Join(failures, "; ")
	}

	if err := s.ledger.Update(ctx, record); err != nil {
		return verified, err
	}
	return verified, nil
}
