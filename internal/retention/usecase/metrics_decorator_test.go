package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/healplus/compliance/internal/metrics"
	retentionDomain "github.com/healplus/compliance/internal/retention/domain"
	"github.com/healplus/compliance/internal/retention/usecase/mocks"
)

// mockBusinessMetrics is a mock implementation of metrics.BusinessMetrics for testing.
type mockBusinessMetrics struct {
	mock.Mock
}

func (m *mockBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	m.Called(ctx, domain, operation, status)
}

func (m *mockBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	m.Called(ctx, domain, operation, duration, status)
}

func (m *mockBusinessMetrics) RecordSweep(ctx context.Context, sweep string, processed, failed int64) {
	m.Called(ctx, sweep, processed, failed)
}

var _ metrics.BusinessMetrics = (*mockBusinessMetrics)(nil)

func TestRetentionMetricsDecorator_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mockRepo := &mocks.MockRetentionRepository{}
		mockRepo.On("ExistsActive", ctx, "WoundAssessment", "42").Return(false, nil).Once()
		mockRepo.On("Create", ctx, mock.Anything).Return(nil).Once()

		mockMetrics := &mockBusinessMetrics{}
		mockMetrics.On("RecordOperation", ctx, "retention", "register", "success").Return().Once()
		mockMetrics.On("RecordDuration", ctx, "retention", "register",
			mock.AnythingOfType("time.Duration"), "success").Return().Once()

		decorator := NewRetentionUseCaseWithMetrics(
			NewRetentionUseCase(mockRepo, nil, nil, defaultRetentionDays),
			mockMetrics,
		)
		record, err := decorator.Register(ctx, RegisterRequest{
			EntityType: "WoundAssessment",
			EntityID:   "42",
		})
		assert.NoError(t, err)
		assert.NotNil(t, record)

		mockMetrics.AssertExpectations(t)
	})

	t.Run("Error", func(t *testing.T) {
		mockRepo := &mocks.MockRetentionRepository{}
		mockRepo.On("ExistsActive", ctx, "WoundAssessment", "42").Return(true, nil).Once()

		mockMetrics := &mockBusinessMetrics{}
		mockMetrics.On("RecordOperation", ctx, "retention", "register", "error").Return().Once()
		mockMetrics.On("RecordDuration", ctx, "retention", "register",
			mock.AnythingOfType("time.Duration"), "error").Return().Once()

		decorator := NewRetentionUseCaseWithMetrics(
			NewRetentionUseCase(mockRepo, nil, nil, defaultRetentionDays),
			mockMetrics,
		)
		record, err := decorator.Register(ctx, RegisterRequest{
			EntityType: "WoundAssessment",
			EntityID:   "42",
		})
		assert.Error(t, err)
		assert.Nil(t, record)

		mockMetrics.AssertExpectations(t)
	})
}

func TestRetentionMetricsDecorator_Statistics(t *testing.T) {
	ctx := context.Background()

	mockRepo := &mocks.MockRetentionRepository{}
	mockRepo.On("RetentionStatistics", ctx).Return(&retentionDomain.RetentionStatistics{}, nil).Once()
	mockRepo.On("IntegrityStatistics", ctx).Return(&retentionDomain.IntegrityStatistics{}, nil).Once()

	mockMetrics := &mockBusinessMetrics{}
	mockMetrics.On("RecordOperation", ctx, "retention", "statistics", "success").Return().Once()
	mockMetrics.On("RecordDuration", ctx, "retention", "statistics",
		mock.AnythingOfType("time.Duration"), "success").Return().Once()

	decorator := NewRetentionUseCaseWithMetrics(
		NewRetentionUseCase(mockRepo, nil, nil, defaultRetentionDays),
		mockMetrics,
	)
	stats, err := decorator.Statistics(ctx)
	assert.NoError(t, err)
	assert.NotNil(t, stats)

	mockMetrics.AssertExpectations(t)
}
