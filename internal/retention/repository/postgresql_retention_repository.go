// Package repository implements persistence for the retention ledger.
// Repositories support both PostgreSQL and MySQL; every mutation is a
// single-row read-modify-write, so no cross-row transaction is required.
package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/healplus/compliance/internal/database"
	apperrors "github.com/healplus/compliance/internal/errors"
	retentionDomain "github.com/healplus/compliance/internal/retention/domain"
)

// retentionColumns is the canonical column list shared by all row queries.
const retentionColumns = `id, entity_type, entity_id, created_at, retention_until, retention_days,
	legal_basis, is_backed_up, last_backup_at, backup_location, backup_hash, backup_attempts,
	last_backup_error, is_archived, is_marked_for_deletion, marked_for_deletion_at,
	deletion_reason, is_deleted, deleted_at, deleted_by, last_verified_at, integrity_verified,
	verification_hash, requires_special_handling, special_handling_notes,
	record_created_at, record_updated_at`

// scanRetentionRecord scans one ledger row from any row-like scanner.
func scanRetentionRecord(scan func(dest ...any) error) (*retentionDomain.RetentionRecord, error) {
	var record retentionDomain.RetentionRecord
	err := scan(
		&record.ID,
		&record.EntityType,
		&record.EntityID,
		&record.CreatedAt,
		&record.RetentionUntil,
		&record.RetentionDays,
		&record.LegalBasis,
		&record.IsBackedUp,
		&record.LastBackupAt,
		&record.BackupLocation,
		&record.BackupHash,
		&record.BackupAttempts,
		&record.LastBackupError,
		&record.IsArchived,
		&record.IsMarkedForDeletion,
		&record.MarkedForDeletionAt,
		&record.DeletionReason,
		&record.IsDeleted,
		&record.DeletedAt,
		&record.DeletedBy,
		&record.LastVerifiedAt,
		&record.IntegrityVerified,
		&record.VerificationHash,
		&record.RequiresSpecialHandling,
		&record.SpecialHandlingNotes,
		&record.RecordCreatedAt,
		&record.RecordUpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// collectRetentionRecords drains a result set into a slice.
func collectRetentionRecords(rows *sql.Rows) ([]*retentionDomain.RetentionRecord, error) {
	defer rows.Close() //nolint:errcheck

	var records []*retentionDomain.RetentionRecord
	for rows.Next() {
		record, err := scanRetentionRecord(rows.Scan)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan retention record")
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate retention records")
	}
	return records, nil
}

// PostgreSQLRetentionRepository implements RetentionRecord persistence for PostgreSQL.
type PostgreSQLRetentionRepository struct {
	db *sql.DB
}

// NewPostgreSQLRetentionRepository creates a new PostgreSQL retention repository instance.
func NewPostgreSQLRetentionRepository(db *sql.DB) *PostgreSQLRetentionRepository {
	return &PostgreSQLRetentionRepository{db: db}
}

// Create inserts a new ledger row.
func (p *PostgreSQLRetentionRepository) Create(
	ctx context.Context,
	record *retentionDomain.RetentionRecord,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO data_retention (` + retentionColumns + `)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			          $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27)`

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
func (p *PostgreSQLRetentionRepository) Update(
	ctx context.Context,
	record *retentionDomain.RetentionRecord,
) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE data_retention
			  SET retention_until = $1, is_backed_up = $2, last_backup_at = $3,
			      backup_location = $4, backup_hash = $5, backup_attempts = $6,
			      last_backup_error = $7, is_archived = $8, is_marked_for_deletion = $9,
			      marked_for_deletion_at = $10, deletion_reason = $11, is_deleted = $12,
			      deleted_at = $13, deleted_by = $14, last_verified_at = $15,
			      integrity_verified = $16, verification_hash = $17,
			      requires_special_handling = $18, special_handling_notes = $19,
			      record_updated_at = $20
			  WHERE id = $21`

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
func (p *PostgreSQLRetentionRepository) GetByEntity(
	ctx context.Context,
	entityType, entityID string,
) (*retentionDomain.RetentionRecord, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + retentionColumns + `
			  FROM data_retention
			  WHERE entity_type = $1 AND entity_id = $2
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
func (p *PostgreSQLRetentionRepository) ExistsActive(
	ctx context.Context,
	entityType, entityID string,
) (bool, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT EXISTS (
			    SELECT 1 FROM data_retention
			    WHERE entity_type = $1 AND entity_id = $2 AND is_deleted = FALSE
			  )`

	var exists bool
	if err := querier.QueryRowContext(ctx, query, entityType, entityID).Scan(&exists); err != nil {
		return false, apperrors.Wrap(err, "failed to check retention record existence")
	}
	return exists, nil
}

// FindPendingBackup returns non-deleted rows that have no backup yet.
func (p *PostgreSQLRetentionRepository) FindPendingBackup(
	ctx context.Context,
) ([]*retentionDomain.RetentionRecord, error) {
	querier := database.GetTx(ctx, p.db)

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
func (p *PostgreSQLRetentionRepository) FindExpiredReadyForDeletion(
	ctx context.Context,
	now time.Time,
) ([]*retentionDomain.RetentionRecord, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + retentionColumns + `
			  FROM data_retention
			  WHERE retention_until < $1 AND is_deleted = FALSE AND is_marked_for_deletion = FALSE
			  ORDER BY retention_until`

	rows, err := querier.QueryContext(ctx, query, now)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to find expired records")
	}
	return collectRetentionRecords(rows)
}

// FindMarkedBefore returns non-deleted rows marked for deletion at or before
// the threshold, i.e. rows whose grace window has elapsed.
func (p *PostgreSQLRetentionRepository) FindMarkedBefore(
	ctx context.Context,
	threshold time.Time,
) ([]*retentionDomain.RetentionRecord, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + retentionColumns + `
			  FROM data_retention
			  WHERE is_marked_for_deletion = TRUE AND is_deleted = FALSE
			    AND marked_for_deletion_at <= $1
			  ORDER BY marked_for_deletion_at`

	rows, err := querier.QueryContext(ctx, query, threshold)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to find records marked for deletion")
	}
	return collectRetentionRecords(rows)
}

// FindNeedingVerification returns non-deleted rows never verified or last
// verified before the cutoff, capped at limit.
func (p *PostgreSQLRetentionRepository) FindNeedingVerification(
	ctx context.Context,
	cutoff time.Time,
	limit int,
) ([]*retentionDomain.RetentionRecord, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT ` + retentionColumns + `
			  FROM data_retention
			  WHERE is_deleted = FALSE
			    AND (last_verified_at IS NULL OR last_verified_at < $1)
			  ORDER BY last_verified_at NULLS FIRST
			  LIMIT $2`

	rows, err := querier.QueryContext(ctx, query, cutoff, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to find records needing verification")
	}
	return collectRetentionRecords(rows)
}

// RetentionStatistics aggregates ledger counts by backup/deletion status.
func (p *PostgreSQLRetentionRepository) RetentionStatistics(
	ctx context.Context,
) (*retentionDomain.RetentionStatistics, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT
			    COUNT(*),
			    COUNT(*) FILTER (WHERE is_backed_up),
			    COUNT(*) FILTER (WHERE is_marked_for_deletion AND NOT is_deleted),
			    COUNT(*) FILTER (WHERE is_deleted)
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
func (p *PostgreSQLRetentionRepository) IntegrityStatistics(
	ctx context.Context,
) (*retentionDomain.IntegrityStatistics, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT
			    COUNT(*),
			    COUNT(*) FILTER (WHERE integrity_verified),
			    COUNT(*) FILTER (WHERE NOT integrity_verified),
			    COUNT(*) FILTER (WHERE requires_special_handling)
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
