package domain

import (
	"github.com/healplus/compliance/internal/errors"
)

// Retention-specific error definitions.
var (
	// ErrDuplicateEntity indicates a non-deleted ledger row already exists
	// for the (entityType, entityId) key.
	ErrDuplicateEntity = errors.Wrap(errors.ErrConflict, "entity already registered for retention")

	// ErrRecordNotFound indicates no ledger row exists for the entity.
	ErrRecordNotFound = errors.Wrap(errors.ErrNotFound, "retention record not found")

	// ErrInvalidRetentionWindow indicates retentionUntil would not be
	// strictly after createdAt.
	ErrInvalidRetentionWindow = errors.Wrap(errors.ErrInvalidInput, "retention window must end after creation time")
)
