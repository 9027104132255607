package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healplus/compliance/internal/metrics"
	retentionDomain "github.com/healplus/compliance/internal/retention/domain"
	"github.com/healplus/compliance/internal/retention/service/mocks"
)

const testGrace = 30 * 24 * time.Hour

func newDeletionSweep(
	ledger *mocks.MockLedger,
	archiver *mocks.MockBackupArchiver,
	remover *mocks.MockEntityRemover,
	now time.Time,
) *DeletionSweep {
	return NewDeletionSweep(
		ledger, archiver, remover, testGrace,
		metrics.NewNoOpBusinessMetrics(), testLogger(),
	).WithClock(func() time.Time { return now })
}

func noRecords() []*retentionDomain.RetentionRecord {
	return []*retentionDomain.RetentionRecord{}
}

func TestDeletionSweep_MarkExpired(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2031, 6, 1, 3, 0, 0, 0, time.UTC)

	t.Run("MarksAndExtendsRetention", func(t *testing.T) {
		mockLedger := &mocks.MockLedger{}
		mockArchiver := &mocks.MockBackupArchiver{}
		mockRemover := &mocks.MockEntityRemover{}

		record := pendingRecord("42")
		record.RetentionUntil = now.Add(-time.Hour)
		record.IsBackedUp = true
		record.VerificationHash = VerificationHash(record)
		originalUntil := record.RetentionUntil

		mockLedger.On("FindExpiredReadyForDeletion", ctx, now).
			Return([]*retentionDomain.RetentionRecord{record}, nil).Once()
		mockLedger.On("Update", ctx, record).Return(nil).Once()
		mockLedger.On("FindMarkedBefore", ctx, now.Add(-testGrace)).
			Return(noRecords(), nil).Once()

		sweep := newDeletionSweep(mockLedger, mockArchiver, mockRemover, now)
		report, err := sweep.Run(ctx)
		require.NoError(t, err)

		assert.Equal(t, &Report{Processed: 1, Succeeded: 1}, report)
		assert.True(t, record.IsMarkedForDeletion)
		require.NotNil(t, record.MarkedForDeletionAt)
		assert.True(t, now.Equal(*record.MarkedForDeletionAt))
		assert.Equal(t, "retention period expired", record.DeletionReason)
		assert.True(t, originalUntil.Add(testGrace).Equal(record.RetentionUntil))
		// The fingerprint follows the extended window.
		assert.Equal(t, VerificationHash(record), record.VerificationHash)
		assert.False(t, record.IsDeleted)

		mockLedger.AssertExpectations(t)
	})

	t.Run("EmptyFingerprintStaysEmpty", func(t *testing.T) {
		mockLedger := &mocks.MockLedger{}
		mockArchiver := &mocks.MockBackupArchiver{}
		mockRemover := &mocks.MockEntityRemover{}

		record := pendingRecord("42")
		record.RetentionUntil = now.Add(-time.Hour)

		mockLedger.On("FindExpiredReadyForDeletion", ctx, now).
			Return([]*retentionDomain.RetentionRecord{record}, nil).Once()
		mockLedger.On("Update", ctx, record).Return(nil).Once()
		mockLedger.On("FindMarkedBefore", ctx, now.Add(-testGrace)).
			Return(noRecords(), nil).Once()

		sweep := newDeletionSweep(mockLedger, mockArchiver, mockRemover, now)
		_, err := sweep.Run(ctx)
		require.NoError(t, err)

		assert.Empty(t, record.VerificationHash)
	})
}

func TestDeletionSweep_ExecuteMarked(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2031, 7, 1, 3, 0, 0, 0, time.UTC)

	markedRecord := func() *retentionDomain.RetentionRecord {
		record := pendingRecord("42")
		markedAt := now.Add(-testGrace).Add(-time.Hour)
		record.IsMarkedForDeletion = true
		record.MarkedForDeletionAt = &markedAt
		record.DeletionReason = "retention period expired"
		record.IsBackedUp = true
		record.BackupLocation = "backup_WoundAssessment_42.zip"
		record.BackupHash = "abc123"
		return record
	}

	t.Run("DeletesWithVerifiedBackup", func(t *testing.T) {
		mockLedger := &mocks.MockLedger{}
		mockArchiver := &mocks.MockBackupArchiver{}
		mockRemover := &mocks.MockEntityRemover{}

		record := markedRecord()

		mockLedger.On("FindExpiredReadyForDeletion", ctx, now).Return(noRecords(), nil).Once()
		mockLedger.On("FindMarkedBefore", ctx, now.Add(-testGrace)).
			Return([]*retentionDomain.RetentionRecord{record}, nil).Once()
		mockArchiver.On("VerifyIntegrity", ctx, record.BackupLocation, record.BackupHash).
			Return(true, nil).Once()
		mockRemover.On("Delete", ctx, "WoundAssessment", "42", "SYSTEM_AUTO_DELETION").
			Return(nil).Once()
		mockLedger.On("Update", ctx, record).Return(nil).Once()

		sweep := newDeletionSweep(mockLedger, mockArchiver, mockRemover, now)
		report, err := sweep.Run(ctx)
		require.NoError(t, err)

		assert.Equal(t, &Report{Processed: 1, Succeeded: 1}, report)
		assert.True(t, record.IsDeleted)
		require.NotNil(t, record.DeletedAt)
		assert.True(t, now.Equal(*record.DeletedAt))
		assert.Equal(t, "SYSTEM_AUTO_DELETION", record.DeletedBy)

		mockLedger.AssertExpectations(t)
		mockArchiver.AssertExpectations(t)
		mockRemover.AssertExpectations(t)
	})

	t.Run("AbortsWithoutBackup", func(t *testing.T) {
		mockLedger := &mocks.MockLedger{}
		mockArchiver := &mocks.MockBackupArchiver{}
		mockRemover := &mocks.MockEntityRemover{}

		record := markedRecord()
		record.IsBackedUp = false

		mockLedger.On("FindExpiredReadyForDeletion", ctx, now).Return(noRecords(), nil).Once()
		mockLedger.On("FindMarkedBefore", ctx, now.Add(-testGrace)).
			Return([]*retentionDomain.RetentionRecord{record}, nil).Once()
		mockLedger.On("Update", ctx, record).Return(nil).Once()

		sweep := newDeletionSweep(mockLedger, mockArchiver, mockRemover, now)
		report, err := sweep.Run(ctx)
		require.NoError(t, err)

		assert.Equal(t, &Report{Processed: 1, Failed: 1}, report)
		assert.False(t, record.IsDeleted)
		assert.Equal(t, "deletion cancelled - no verified backup", record.DeletionReason)
		// The row stays marked so a later sweep retries once a backup lands.
		assert.True(t, record.IsMarkedForDeletion)

		mockRemover.AssertNotCalled(t, "Delete")
		mockLedger.AssertExpectations(t)
	})

	t.Run("AbortsWhenArchiveHashDiffers", func(t *testing.T) {
		mockLedger := &mocks.MockLedger{}
		mockArchiver := &mocks.MockBackupArchiver{}
		mockRemover := &mocks.MockEntityRemover{}

		record := markedRecord()

		mockLedger.On("FindExpiredReadyForDeletion", ctx, now).Return(noRecords(), nil).Once()
		mockLedger.On("FindMarkedBefore", ctx, now.Add(-testGrace)).
			Return([]*retentionDomain.RetentionRecord{record}, nil).Once()
		mockArchiver.On("VerifyIntegrity", ctx, record.BackupLocation, record.BackupHash).
			Return(false, nil).Once()
		mockLedger.On("Update", ctx, record).Return(nil).Once()

		sweep := newDeletionSweep(mockLedger, mockArchiver, mockRemover, now)
		report, err := sweep.Run(ctx)
		require.NoError(t, err)

		assert.Equal(t, &Report{Processed: 1, Failed: 1}, report)
		assert.False(t, record.IsDeleted)
		assert.Equal(t, "deletion cancelled - no verified backup", record.DeletionReason)

		mockRemover.AssertNotCalled(t, "Delete")
	})

	t.Run("RemoverFailureKeepsRow", func(t *testing.T) {
		mockLedger := &mocks.MockLedger{}
		mockArchiver := &mocks.MockBackupArchiver{}
		mockRemover := &mocks.MockEntityRemover{}

		record := markedRecord()

		mockLedger.On("FindExpiredReadyForDeletion", ctx, now).Return(noRecords(), nil).Once()
		mockLedger.On("FindMarkedBefore", ctx, now.Add(-testGrace)).
			Return([]*retentionDomain.RetentionRecord{record}, nil).Once()
		mockArchiver.On("VerifyIntegrity", ctx, record.BackupLocation, record.BackupHash).
			Return(true, nil).Once()
		mockRemover.On("Delete", ctx, "WoundAssessment", "42", "SYSTEM_AUTO_DELETION").
			Return(assert.AnError).Once()

		sweep := newDeletionSweep(mockLedger, mockArchiver, mockRemover, now)
		report, err := sweep.Run(ctx)
		require.NoError(t, err)

		assert.Equal(t, &Report{Processed: 1, Failed: 1}, report)
		assert.False(t, record.IsDeleted)

		mockLedger.AssertExpectations(t)
	})
}

func TestDeletionSweep_GraceNotElapsedRowsUntouched(t *testing.T) {
	// Rows inside the grace window never surface from FindMarkedBefore; the
	// sweep only sees rows whose marking predates now minus the grace period.
	ctx := context.Background()
	now := time.Date(2031, 7, 1, 3, 0, 0, 0, time.UTC)

	mockLedger := &mocks.MockLedger{}
	mockArchiver := &mocks.MockBackupArchiver{}
	mockRemover := &mocks.MockEntityRemover{}

	mockLedger.On("FindExpiredReadyForDeletion", ctx, now).Return(noRecords(), nil).Once()
	mockLedger.On("FindMarkedBefore", ctx, now.Add(-testGrace)).Return(noRecords(), nil).Once()

	sweep := newDeletionSweep(mockLedger, mockArchiver, mockRemover, now)
	report, err := sweep.Run(ctx)
	require.NoError(t, err)

	assert.Equal(t, &Report{}, report)
	mockLedger.AssertExpectations(t)
	mockRemover.AssertNotCalled(t, "Delete")
}
