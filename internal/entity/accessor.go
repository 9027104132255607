// Package entity defines the port through which the compliance engine talks
// to the domain services that own the tracked entities. The engine never
// touches clinical tables directly: snapshots, audit excerpts, deletions and
// restores all go through an EntityAccessor supplied by the owning service.
package entity

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// Accessor is implemented by the domain service owning an entity type.
type Accessor interface {
	// Snapshot returns a serialized copy of the entity's current data, used
	// as the data section of a backup archive.
	Snapshot(ctx context.Context, entityType, entityID string) ([]byte, error)

	// AuditExcerpt returns the audit-log entries relevant to the entity,
	// serialized for inclusion in a backup archive.
	AuditExcerpt(ctx context.Context, entityType, entityID string) ([]byte, error)

	// Delete removes the underlying entity. Called by the deletion sweep
	// only after the safety invariant (verified backup exists) holds.
	Delete(ctx context.Context, entityType, entityID, deletedBy string) error

	// Restore replays a previously snapshotted entity back into the domain
	// store.
	Restore(ctx context.Context, entityType, entityID string, snapshot []byte) error
}

// Registry routes accessor calls to the implementation registered for each
// entity type, falling back to a default when none is registered. Safe for
// concurrent use.
type Registry struct {
	mu        sync.RWMutex
	accessors map[string]Accessor
	fallback  Accessor
}

// NewRegistry creates a registry with the given fallback accessor.
func NewRegistry(fallback Accessor) *Registry {
	return &Registry{
		accessors: make(map[string]Accessor),
		fallback:  fallback,
	}
}

// Register binds an accessor to an entity type, replacing any previous binding.
func (r *Registry) Register(entityType string, accessor Accessor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accessors[entityType] = accessor
}

// resolve returns the accessor for an entity type.
func (r *Registry) resolve(entityType string) Accessor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if a, ok := r.accessors[entityType]; ok {
		return a
	}
	return r.fallback
}

// Snapshot delegates to the accessor registered for the entity type.
func (r *Registry) Snapshot(ctx context.Context, entityType, entityID string) ([]byte, error) {
	return r.resolve(entityType).Snapshot(ctx, entityType, entityID)
}

// AuditExcerpt delegates to the accessor registered for the entity type.
func (r *Registry) AuditExcerpt(ctx context.Context, entityType, entityID string) ([]byte, error) {
	return r.resolve(entityType).AuditExcerpt(ctx, entityType, entityID)
}

// Delete delegates to the accessor registered for the entity type.
func (r *Registry) Delete(ctx context.Context, entityType, entityID, deletedBy string) error {
	return r.resolve(entityType).Delete(ctx, entityType, entityID, deletedBy)
}

// Restore delegates to the accessor registered for the entity type.
func (r *Registry) Restore(ctx context.Context, entityType, entityID string, snapshot []byte) error {
	return r.resolve(entityType).Restore(ctx, entityType, entityID, snapshot)
}

// PlaceholderAccessor is the default accessor used when the owning domain
// service has not registered one. Snapshots carry only the entity key and a
// timestamp, audit excerpts are empty, and deletion is a recorded no-op, so
// the lifecycle engine stays operational while integrations are wired up
// service by service.
type PlaceholderAccessor struct{}

// NewPlaceholderAccessor creates the default accessor.
func NewPlaceholderAccessor() *PlaceholderAccessor {
	return &PlaceholderAccessor{}
}

// Snapshot returns a minimal JSON snapshot for the entity key.
func (a *PlaceholderAccessor) Snapshot(_ context.Context, entityType, entityID string) ([]byte, error) {
	snapshot := map[string]any{
		"entityType": entityType,
		"entityId":   entityID,
		"snapshotAt": time.Now().UTC().Format(time.RFC3339),
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	return data, nil
}

// AuditExcerpt returns an empty audit entry list.
func (a *PlaceholderAccessor) AuditExcerpt(_ context.Context, entityType, entityID string) ([]byte, error) {
	excerpt := map[string]any{
		"entityType": entityType,
		"entityId":   entityID,
		"auditLogs":  []any{},
	}
	data, err := json.Marshal(excerpt)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal audit excerpt: %w", err)
	}
	return data, nil
}

// Delete is a no-op; the ledger row still records the deletion outcome.
func (a *PlaceholderAccessor) Delete(_ context.Context, _, _, _ string) error {
	return nil
}

// Restore is a no-op.
func (a *PlaceholderAccessor) Restore(_ context.Context, _, _ string, _ []byte) error {
	return nil
}
