package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/healplus/compliance/internal/database"
	apperrors "github.com/healplus/compliance/internal/errors"
	retentionDomain "github.com/healplus/compliance/internal/retention/domain"
)

// MySQLRetentionRepository implements RetentionRecord persistence for MySQL.
type MySQLRetentionRepository struct {
	db *sql.DB
}

// NewMySQLRetentionRepository creates a new MySQL retention repository instance.
func NewMySQLRetentionRepository(db *sql.DB) *MySQLRetentionRepository {
	return &MySQLRetentionRepository{db: db}
}

// Create inserts a new ledger row.
func (m *MySQLRetentionRepository) Create(
	ctx context.Context,
	record *retentionDomain.RetentionRecord,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO data_retention (` + retentionColumns + `)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := querier.ExecContext(
		ctx,
		query,
		record.ID,
		record.EntityType,
		record.EntityID,
		record.CreatedAt,
		record.RetentionUntil,
		record.RetentionDays,
		record.LegalBasis,
		record.IsBackedUp,
		record.LastBackupAt,
		record.BackupLocation,
		record.BackupHash,
		record.BackupAttempts,
		record.LastBackupError,
		record.IsArchived,
		record.IsMarkedForDeletion,
		record.MarkedForDeletionAt,
		record.DeletionReason,
		record.IsDeleted,
		record.DeletedAt,
		record.DeletedBy,
		record.LastVerifiedAt,
		record.IntegrityVerified,
		record.VerificationHash,
		record.RequiresSpecialHandling,
		record.SpecialHandlingNotes,
		record.RecordCreatedAt,
		record.RecordUpdatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create retention record")
	}
	return nil
}

// Update persists every mutable field of the ledger row identified by ID and
// stamps record_updated_at.
func (m *MySQLRetentionRepository) Update(
	ctx context.Context,
	record *retentionDomain.RetentionRecord,
) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE data_retention
			  SET retention_until = ?, is_backed_up = ?, last_backup_at = ?,
			      backup_location = ?, backup_hash = ?, backup_attempts = ?,
			      last_backup_error = ?, is_archived = ?, is_marked_for_deletion = ?,
			      marked_for_deletion_at = ?, deletion_reason = ?, is_deleted = ?,
			      deleted_at = ?, deleted_by = ?, last_verified_at = ?,
			      integrity_verified = ?, verification_hash = ?,
			      requires_special_handling = ?, special_handling_notes = ?,
			      record_updated_at = ?
			  WHERE id = ?`

	now := time.Now().UTC()
	record.RecordUpdatedAt = &now

	_, err := querier.ExecContext(
		ctx,
		query,
		record.RetentionUntil,
		record.IsBackedUp,
		record.LastBackupAt,
		record.BackupLocation,
		record.BackupHash,
		record.BackupAttempts,
		record.LastBackupError,
		record.IsArchived,
		record.IsMarkedForDeletion,
		record.MarkedForDeletionAt,
		record.DeletionReason,
		record.IsDeleted,
		record.DeletedAt,
		record.DeletedBy,
		record.LastVerifiedAt,
		record.IntegrityVerified,
		record.VerificationHash,
		record.RequiresSpecialHandling,
		record.SpecialHandlingNotes,
		record.RecordUpdatedAt,
		record.ID,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to update retention record")
	}
	return nil
}

// GetByEntity retrieves the most recent ledger row for an entity key.
func (m *MySQLRetentionRepository) GetByEntity(
	ctx context.Context,
	entityType, entityID string,
) (*retentionDomain.RetentionRecord, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + retentionColumns + `
			  FROM data_retention
			  WHERE entity_type = ? AND entity_id = ?
			  ORDER BY record_created_at DESC
			  LIMIT 1`

	record, err := scanRetentionRecord(querier.QueryRowContext(ctx, query, entityType, entityID).Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, retentionDomain.ErrRecordNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get retention record by entity")
	}
	return record, nil
}

// ExistsActive reports whether a non-deleted row exists for the entity key.
func (m *MySQLRetentionRepository) ExistsActive(
	ctx context.Context,
	entityType, entityID string,
) (bool, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT EXISTS (
			    SELECT 1 FROM data_retention
			    WHERE entity_type = ? AND entity_id = ? AND is_deleted = FALSE
			  )`

	var exists bool
	if err := querier.QueryRowContext(ctx, query, entityType, entityID).Scan(&exists); err != nil {
		return false, apperrors.Wrap(err, "failed to check retention record existence")
	}
	return exists, nil
}

// FindPendingBackup returns non-deleted rows that have no backup yet.
func (m *MySQLRetentionRepository) FindPendingBackup(
	ctx context.Context,
) ([]*retentionDomain.RetentionRecord, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + retentionColumns + `
			  FROM data_retention
			  WHERE is_backed_up = FALSE AND is_deleted = FALSE
			  ORDER BY record_created_at`

	rows, err := querier.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to find records pending backup")
	}
	return collectRetentionRecords(rows)
}

// FindExpiredReadyForDeletion returns rows past their retention window that
// are neither deleted nor already marked for deletion.
func (m *MySQLRetentionRepository) FindExpiredReadyForDeletion(
	ctx context.Context,
	now time.Time,
) ([]*retentionDomain.RetentionRecord, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + retentionColumns + `
			  FROM data_retention
			  WHERE retention_until < ? AND is_deleted = FALSE AND is_marked_for_deletion = FALSE
			  ORDER BY retention_until`

	rows, err := querier.QueryContext(ctx, query, now)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to find expired records")
	}
	return collectRetentionRecords(rows)
}

// FindMarkedBefore returns non-deleted rows marked for deletion at or before
// the threshold, i.e. rows whose grace window has elapsed.
func (m *MySQLRetentionRepository) FindMarkedBefore(
	ctx context.Context,
	threshold time.Time,
) ([]*retentionDomain.RetentionRecord, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + retentionColumns + `
			  FROM data_retention
			  WHERE is_marked_for_deletion = TRUE AND is_deleted = FALSE
			    AND marked_for_deletion_at <= ?
			  ORDER BY marked_for_deletion_at`

	rows, err := querier.QueryContext(ctx, query, threshold)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to find records marked for deletion")
	}
	return collectRetentionRecords(rows)
}

// FindNeedingVerification returns non-deleted rows never verified or last
// verified before the cutoff, capped at limit.
func (m *MySQLRetentionRepository) FindNeedingVerification(
	ctx context.Context,
	cutoff time.Time,
	limit int,
) ([]*retentionDomain.RetentionRecord, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT ` + retentionColumns + `
			  FROM data_retention
			  WHERE is_deleted = FALSE
			    AND (last_verified_at IS NULL OR last_verified_at < ?)
			  ORDER BY last_verified_at IS NULL DESC, last_verified_at
			  LIMIT ?`

	rows, err := querier.QueryContext(ctx, query, cutoff, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to find records needing verification")
	}
	return collectRetentionRecords(rows)
}

// RetentionStatistics aggregates ledger counts by backup/deletion status.
func (m *MySQLRetentionRepository) RetentionStatistics(
	ctx context.Context,
) (*retentionDomain.RetentionStatistics, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT
			    COUNT(*),
			    COALESCE(SUM(is_backed_up), 0),
			    COALESCE(SUM(is_marked_for_deletion AND NOT is_deleted), 0),
			    COALESCE(SUM(is_deleted), 0)
			  FROM data_retention`

	var stats retentionDomain.RetentionStatistics
	err := querier.QueryRowContext(ctx, query).Scan(
		&stats.TotalRecords,
		&stats.BackedUpRecords,
		&stats.PendingDeletion,
		&stats.DeletedRecords,
	)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to compute retention statistics")
	}
	return &stats, nil
}

// IntegrityStatistics aggregates ledger counts by integrity status.
func (m *MySQLRetentionRepository) IntegrityStatistics(
	ctx context.Context,
) (*retentionDomain.IntegrityStatistics, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT
			    COUNT(*),
			    COALESCE(SUM(integrity_verified), 0),
			    COALESCE(SUM(NOT integrity_verified), 0),
			    COALESCE(SUM(requires_special_handling), 0)
			  FROM data_retention`

	var stats retentionDomain.IntegrityStatistics
	err := querier.QueryRowContext(ctx, query).Scan(
		&stats.TotalRecords,
		&stats.VerifiedRecords,
		&stats.FailedRecords,
		&stats.SpecialHandlingRecords,
	)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to compute integrity statistics")
	}
	return &stats, nil
}
