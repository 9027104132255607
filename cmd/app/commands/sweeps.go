package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/healplus/compliance/internal/app"
	"github.com/healplus/compliance/internal/config"
	retentionService "github.com/healplus/compliance/internal/retention/service"
)

// RunBackupSweep runs one backup sweep immediately and exits.
func RunBackupSweep(ctx context.Context) error {
	return runSweep(ctx, "backup", func(ctx context.Context, container *app.Container) (*retentionService.Report, error) {
		sweep, err := container.BackupSweep(ctx)
		if err != nil {
			return nil, err
		}
		return sweep.Run(ctx)
	})
}

// RunDeletionSweep runs one deletion sweep immediately and exits.
func RunDeletionSweep(ctx context.Context) error {
	return runSweep(ctx, "deletion", func(ctx context.Context, container *app.Container) (*retentionService.Report, error) {
		sweep, err := container.DeletionSweep(ctx)
		if err != nil {
			return nil, err
		}
		return sweep.Run(ctx)
	})
}

// RunIntegritySweep runs one integrity sweep immediately and exits.
func RunIntegritySweep(ctx context.Context) error {
	return runSweep(ctx, "integrity", func(ctx context.Context, container *app.Container) (*retentionService.Report, error) {
		sweep, err := container.IntegritySweep(ctx)
		if err != nil {
			return nil, err
		}
		return sweep.Run(ctx)
	})
}

// RunRetentionCycle runs the backup sweep followed by the deletion sweep,
// the same ordering the scheduler uses.
func RunRetentionCycle(ctx context.Context) error {
	if err := RunBackupSweep(ctx); err != nil {
		return err
	}
	return RunDeletionSweep(ctx)
}

func runSweep(
	ctx context.Context,
	name string,
	run func(ctx context.Context, container *app.Container) (*retentionService.Report, error),
) error {
	cfg := config.Load()
	container := app.NewContainer(cfg)
	logger := container.Logger()

	defer closeContainer(container, logger)

	report, err := run(ctx, container)
	if err != nil {
		return fmt.Errorf("%s sweep failed: %w", name, err)
	}

	logger.Info("sweep completed",
		slog.String("sweep", name),
		slog.Int("processed", report.Processed),
		slog.Int("succeeded", report.Succeeded),
		slog.Int("failed", report.Failed),
	)
	return nil
}
