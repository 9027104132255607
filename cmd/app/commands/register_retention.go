package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/healplus/compliance/internal/app"
	"github.com/healplus/compliance/internal/config"
	retentionDomain "github.com/healplus/compliance/internal/retention/domain"
	retentionUseCase "github.com/healplus/compliance/internal/retention/usecase"
)

// RunRegisterRetention registers an entity for retention from the command
// line, useful for backfilling the ledger for records that predate the
// compliance engine.
func RunRegisterRetention(
	ctx context.Context,
	entityType, entityID, createdAtStr string,
	retentionDays int,
	legalBasis string,
) error {
	cfg := config.Load()
	container := app.NewContainer(cfg)
	logger := container.Logger()

	defer closeContainer(container, logger)

	var createdAt time.Time
	if createdAtStr != "" {
		parsed, err := time.Parse(time.RFC3339, createdAtStr)
		if err != nil {
			return fmt.Errorf("invalid created-at value (want RFC 3339): %w", err)
		}
		createdAt = parsed
	}

	useCase, err := container.RetentionUseCase(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize retention use case: %w", err)
	}

	record, err := useCase.Register(ctx, retentionUseCase.RegisterRequest{
		EntityType:    entityType,
		EntityID:      entityID,
		CreatedAt:     createdAt,
		RetentionDays: retentionDays,
		LegalBasis:    retentionDomain.LegalBasis(legalBasis),
	})
	if err != nil {
		return fmt.Errorf("failed to register entity: %w", err)
	}

	logger.Info("entity registered for retention",
		slog.String("retention_id", record.ID.String()),
		slog.String("entity_type", record.EntityType),
		slog.String("entity_id", record.EntityID),
		slog.Time("retention_until", record.RetentionUntil),
		slog.String("legal_basis", string(record.LegalBasis)),
	)
	return nil
}
