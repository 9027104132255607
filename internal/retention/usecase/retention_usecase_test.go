package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/healplus/compliance/internal/errors"
	retentionDomain "github.com/healplus/compliance/internal/retention/domain"
	"github.com/healplus/compliance/internal/retention/usecase/mocks"
)

const defaultRetentionDays = 2555

func TestRetentionUseCase_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("AppliesDefaults", func(t *testing.T) {
		mockRepo := &mocks.MockRetentionRepository{}
		mockRepo.On("ExistsActive", ctx, "WoundAssessment", "42").Return(false, nil).Once()
		mockRepo.On("Create", ctx, mock.AnythingOfType("*domain.RetentionRecord")).Return(nil).Once()

		uc := NewRetentionUseCase(mockRepo, nil, nil, defaultRetentionDays)
		record, err := uc.Register(ctx, RegisterRequest{
			EntityType: "WoundAssessment",
			EntityID:   "42",
		})
		require.NoError(t, err)

		assert.NotEqual(t, "", record.ID.String())
		assert.Equal(t, "WoundAssessment", record.EntityType)
		assert.Equal(t, "42", record.EntityID)
		assert.Equal(t, defaultRetentionDays, record.RetentionDays)
		assert.Equal(t, retentionDomain.LegalBasisLei13787, record.LegalBasis)
		assert.False(t, record.CreatedAt.IsZero())
		assert.True(t, record.RetentionUntil.Equal(record.CreatedAt.AddDate(0, 0, defaultRetentionDays)))
		assert.Equal(t, retentionDomain.StatusActive, record.Status())

		mockRepo.AssertExpectations(t)
	})

	t.Run("HonorsOverrides", func(t *testing.T) {
		mockRepo := &mocks.MockRetentionRepository{}
		mockRepo.On("ExistsActive", ctx, "Prescription", "7").Return(false, nil).Once()
		mockRepo.On("Create", ctx, mock.Anything).Return(nil).Once()

		createdAt := time.Date(2020, 1, 15, 8, 0, 0, 0, time.UTC)
		uc := NewRetentionUseCase(mockRepo, nil, nil, defaultRetentionDays)
		record, err := uc.Register(ctx, RegisterRequest{
			EntityType:    "Prescription",
			EntityID:      "7",
			CreatedAt:     createdAt,
			RetentionDays: 365,
			LegalBasis:    retentionDomain.LegalBasisANVISA,
		})
		require.NoError(t, err)

		assert.True(t, createdAt.Equal(record.CreatedAt))
		assert.Equal(t, 365, record.RetentionDays)
		assert.Equal(t, retentionDomain.LegalBasisANVISA, record.LegalBasis)
		assert.True(t, createdAt.AddDate(0, 0, 365).Equal(record.RetentionUntil))
	})

	t.Run("DuplicateEntity", func(t *testing.T) {
		mockRepo := &mocks.MockRetentionRepository{}
		mockRepo.On("ExistsActive", ctx, "WoundAssessment", "42").Return(true, nil).Once()

		uc := NewRetentionUseCase(mockRepo, nil, nil, defaultRetentionDays)
		record, err := uc.Register(ctx, RegisterRequest{
			EntityType: "WoundAssessment",
			EntityID:   "42",
		})
		assert.Nil(t, record)
		assert.True(t, apperrors.Is(err, retentionDomain.ErrDuplicateEntity))
		mockRepo.AssertNotCalled(t, "Create")
	})

	t.Run("RepositoryError", func(t *testing.T) {
		mockRepo := &mocks.MockRetentionRepository{}
		mockRepo.On("ExistsActive", ctx, "WoundAssessment", "42").Return(false, assert.AnError).Once()

		uc := NewRetentionUseCase(mockRepo, nil, nil, defaultRetentionDays)
		record, err := uc.Register(ctx, RegisterRequest{
			EntityType: "WoundAssessment",
			EntityID:   "42",
		})
		assert.Nil(t, record)
		assert.Error(t, err)
	})
}

func TestRetentionUseCase_GetByEntity(t *testing.T) {
	ctx := context.Background()

	t.Run("Found", func(t *testing.T) {
		mockRepo := &mocks.MockRetentionRepository{}
		expected := &retentionDomain.RetentionRecord{EntityType: "WoundAssessment", EntityID: "42"}
		mockRepo.On("GetByEntity", ctx, "WoundAssessment", "42").Return(expected, nil).Once()

		uc := NewRetentionUseCase(mockRepo, nil, nil, defaultRetentionDays)
		record, err := uc.GetByEntity(ctx, "WoundAssessment", "42")
		require.NoError(t, err)
		assert.Equal(t, expected, record)
	})

	t.Run("NotFound", func(t *testing.T) {
		mockRepo := &mocks.MockRetentionRepository{}
		mockRepo.On("GetByEntity", ctx, "WoundAssessment", "404").
			Return(nil, retentionDomain.ErrRecordNotFound).Once()

		uc := NewRetentionUseCase(mockRepo, nil, nil, defaultRetentionDays)
		record, err := uc.GetByEntity(ctx, "WoundAssessment", "404")
		assert.Nil(t, record)
		assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
	})
}

func TestRetentionUseCase_ForceBackup(t *testing.T) {
	ctx := context.Background()

	t.Run("DelegatesToBackuper", func(t *testing.T) {
		mockRepo := &mocks.MockRetentionRepository{}
		mockBackuper := &mocks.MockRecordBackuper{}

		record := &retentionDomain.RetentionRecord{EntityType: "WoundAssessment", EntityID: "42"}
		mockRepo.On("GetByEntity", ctx, "WoundAssessment", "42").Return(record, nil).Once()
		mockBackuper.On("BackupRecord", ctx, record).Return(nil).Once()

		uc := NewRetentionUseCase(mockRepo, mockBackuper, nil, defaultRetentionDays)
		got, err := uc.ForceBackup(ctx, "WoundAssessment", "42")
		require.NoError(t, err)
		assert.Equal(t, record, got)

		mockBackuper.AssertExpectations(t)
	})

	t.Run("BackupFailure", func(t *testing.T) {
		mockRepo := &mocks.MockRetentionRepository{}
		mockBackuper := &mocks.MockRecordBackuper{}

		record := &retentionDomain.RetentionRecord{EntityType: "WoundAssessment", EntityID: "42"}
		mockRepo.On("GetByEntity", ctx, "WoundAssessment", "42").Return(record, nil).Once()
		mockBackuper.On("BackupRecord", ctx, record).Return(apperrors.ErrBackupFailed).Once()

		uc := NewRetentionUseCase(mockRepo, mockBackuper, nil, defaultRetentionDays)
		got, err := uc.ForceBackup(ctx, "WoundAssessment", "42")
		assert.Nil(t, got)
		assert.True(t, apperrors.Is(err, apperrors.ErrBackupFailed))
	})
}

func TestRetentionUseCase_ForceVerify(t *testing.T) {
	ctx := context.Background()
	mockRepo := &mocks.MockRetentionRepository{}
	mockVerifier := &mocks.MockRecordVerifier{}

	record := &retentionDomain.RetentionRecord{EntityType: "WoundAssessment", EntityID: "42"}
	mockRepo.On("GetByEntity", ctx, "WoundAssessment", "42").Return(record, nil).Once()
	mockVerifier.On("VerifyRecord", ctx, record).Return(false, nil).Once()

	uc := NewRetentionUseCase(mockRepo, nil, mockVerifier, defaultRetentionDays)
	got, err := uc.ForceVerify(ctx, "WoundAssessment", "42")
	require.NoError(t, err)
	assert.Equal(t, record, got)

	mockVerifier.AssertExpectations(t)
}

func TestRetentionUseCase_Statistics(t *testing.T) {
	ctx := context.Background()

	t.Run("AggregatesBoth", func(t *testing.T) {
		mockRepo := &mocks.MockRetentionRepository{}
		retention := &retentionDomain.RetentionStatistics{TotalRecords: 10, BackedUpRecords: 8}
		integrity := &retentionDomain.IntegrityStatistics{TotalRecords: 10, VerifiedRecords: 9}
		mockRepo.On("RetentionStatistics", ctx).Return(retention, nil).Once()
		mockRepo.On("IntegrityStatistics", ctx).Return(integrity, nil).Once()

		uc := NewRetentionUseCase(mockRepo, nil, nil, defaultRetentionDays)
		stats, err := uc.Statistics(ctx)
		require.NoError(t, err)
		assert.Equal(t, retention, stats.Retention)
		assert.Equal(t, integrity, stats.Integrity)
	})

	t.Run("RepositoryError", func(t *testing.T) {
		mockRepo := &mocks.MockRetentionRepository{}
		mockRepo.On("RetentionStatistics", ctx).Return(nil, assert.AnError).Once()

		uc := NewRetentionUseCase(mockRepo, nil, nil, defaultRetentionDays)
		stats, err := uc.Statistics(ctx)
		assert.Nil(t, stats)
		assert.Error(t, err)
	})
}
