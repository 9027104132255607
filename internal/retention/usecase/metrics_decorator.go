package usecase

import (
	"context"
	"time"

	"github.com/healplus/compliance/internal/metrics"
	retentionDomain "github.com/healplus/compliance/internal/retention/domain"
)

// retentionUseCaseWithMetrics decorates RetentionUseCase with metrics instrumentation.
type retentionUseCaseWithMetrics struct {
	next    RetentionUseCase
	metrics metrics.BusinessMetrics
}

// NewRetentionUseCaseWithMetrics wraps a RetentionUseCase with metrics recording.
func NewRetentionUseCaseWithMetrics(useCase RetentionUseCase, m metrics.BusinessMetrics) RetentionUseCase {
	return &retentionUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (r *retentionUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	r.metrics.RecordOperation(ctx, "retention", operation, status)
	r.metrics.RecordDuration(ctx, "retention", operation, time.Since(start), status)
}

// Register records metrics for retention registration.
func (r *retentionUseCaseWithMetrics) Register(
	ctx context.Context,
	req RegisterRequest,
) (*retentionDomain.RetentionRecord, error) {
	start := time.Now()
	record, err := r.next.Register(ctx, req)
	r.record(ctx, "register", start, err)
	return record, err
}

// GetByEntity records metrics for ledger lookups.
func (r *retentionUseCaseWithMetrics) GetByEntity(
	ctx context.Context,
	entityType, entityID string,
) (*retentionDomain.RetentionRecord, error) {
	start := time.Now()
	record, err := r.next.GetByEntity(ctx, entityType, entityID)
	r.record(ctx, "get_by_entity", start, err)
	return record, err
}

// ForceBackup records metrics for forced backups.
func (r *retentionUseCaseWithMetrics) ForceBackup(
	ctx context.Context,
	entityType, entityID string,
) (*retentionDomain.RetentionRecord, error) {
	start := time.Now()
	record, err := r.next.ForceBackup(ctx, entityType, entityID)
	r.record(ctx, "force_backup", start, err)
	return record, err
}

// ForceVerify records metrics for forced integrity checks.
func (r *retentionUseCaseWithMetrics) ForceVerify(
	ctx context.Context,
	entityType, entityID string,
) (*retentionDomain.RetentionRecord, error) {
	start := time.Now()
	record, err := r.next.ForceVerify(ctx, entityType, entityID)
	r.record(ctx, "force_verify", start, err)
	return record, err
}

// Statistics records metrics for statistics aggregation.
func (r *retentionUseCaseWithMetrics) Statistics(ctx context.Context) (*Statistics, error) {
	start := time.Now()
	stats, err := r.next.Statistics(ctx)
	r.record(ctx, "statistics", start, err)
	return stats, err
}
