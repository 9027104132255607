package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	retentionDomain "github.com/healplus/compliance/internal/retention/domain"
)

// retentionUseCase implements the RetentionUseCase interface.
type retentionUseCase struct {
	repo                 RetentionRepository
	backuper             RecordBackuper
	verifier             RecordVerifier
	defaultRetentionDays int
	defaultLegalBasis    retentionDomain.LegalBasis
	now                  func() time.Time
}

// NewRetentionUseCase creates a retention use case instance.
func NewRetentionUseCase(
	repo RetentionRepository,
	backuper RecordBackuper,
	verifier RecordVerifier,
	defaultRetentionDays int,
) RetentionUseCase {
	return &retentionUseCase{
		repo:                 repo,
		backuper:             backuper,
		verifier:             verifier,
		defaultRetentionDays: defaultRetentionDays,
		defaultLegalBasis:    retentionDomain.LegalBasisLei13787,
		now:                  time.Now,
	}
}

// Register places an entity under retention. At most one non-deleted ledger
// row may exist per entity; re-registering after deletion starts a fresh row.
func (u *retentionUseCase) Register(
	ctx context.Context,
	req RegisterRequest,
) (*retentionDomain.RetentionRecord, error) {
	now := u.now().UTC()

	createdAt := req.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}
	retentionDays := req.RetentionDays
	if retentionDays <= 0 {
		retentionDays = u.defaultRetentionDays
	}
	legalBasis := req.LegalBasis
	if legalBasis == "" {
		legalBasis = u.defaultLegalBasis
	}

	retentionUntil := createdAt.AddDate(0, 0, retentionDays)
	if !retentionUntil.After(createdAt) {
		return nil, retentionDomain.ErrInvalidRetentionWindow
	}

	exists, err := u.repo.ExistsActive(ctx, req.EntityType, req.EntityID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, retentionDomain.ErrDuplicateEntity
	}

	record := &retentionDomain.RetentionRecord{
		ID:              uuid.Must(uuid.NewV7()),
		EntityType:      req.EntityType,
		EntityID:        req.EntityID,
		CreatedAt:       createdAt,
		RetentionUntil:  retentionUntil,
		RetentionDays:   retentionDays,
		LegalBasis:      legalBasis,
		RecordCreatedAt: now,
	}
	if err := u.repo.Create(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// GetByEntity returns the most recent ledger row for an entity.
func (u *retentionUseCase) GetByEntity(
	ctx context.Context,
	entityType, entityID string,
) (*retentionDomain.RetentionRecord, error) {
	return u.repo.GetByEntity(ctx, entityType, entityID)
}

// ForceBackup creates a backup for the entity immediately. The ledger row is
// reloaded afterwards so the caller sees the recorded outcome, including a
// failed attempt.
func (u *retentionUseCase) ForceBackup(
	ctx context.Context,
	entityType, entityID string,
) (*retentionDomain.RetentionRecord, error) {
	record, err := u.repo.GetByEntity(ctx, entityType, entityID)
	if err != nil {
		return nil, err
	}
	if err := u.backuper.BackupRecord(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// ForceVerify runs the integrity checks for the entity immediately.
func (u *retentionUseCase) ForceVerify(
	ctx context.Context,
	entityType, entityID string,
) (*retentionDomain.RetentionRecord, error) {
	record, err := u.repo.GetByEntity(ctx, entityType, entityID)
	if err != nil {
		return nil, err
	}
	if _, err := u.verifier.VerifyRecord(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// Statistics aggregates retention and integrity counts over the ledger.
func (u *retentionUseCase) Statistics(ctx context.Context) (*Statistics, error) {
	retention, err := u.repo.RetentionStatistics(ctx)
	if err != nil {
		return nil, err
	}
	integrity, err := u.repo.IntegrityStatistics(ctx)
	if err != nil {
		return nil, err
	}
	return &Statistics{Retention: retention, Integrity: integrity}, nil
}
