package app

import (
	"context"
	"fmt"
	"time"

	retentionRepository "github.com/healplus/compliance/internal/retention/repository"
	retentionService "github.com/healplus/compliance/internal/retention/service"
	retentionUseCase "github.com/healplus/compliance/internal/retention/usecase"
)

// RetentionRepository returns the retention ledger repository.
func (c *Container) RetentionRepository() (retentionUseCase.RetentionRepository, error) {
	c.retentionRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["retentionRepo"] = fmt.Errorf("failed to get database for retention repository: %w", err)
			return
		}

		switch c.config.DBDriver {
		case "mysql":
			c.retentionRepo = retentionRepository.NewMySQLRetentionRepository(db)
		case "postgres":
			c.retentionRepo = retentionRepository.NewPostgreSQLRetentionRepository(db)
		default:
			c.initErrors["retentionRepo"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if storedErr, exists := c.initErrors["retentionRepo"]; exists {
		return nil, storedErr
	}
	return c.retentionRepo, nil
}

// BackupSweep returns the backup sweep service.
func (c *Container) BackupSweep(ctx context.Context) (*retentionService.BackupSweep, error) {
	c.backupSweepInit.Do(func() {
		repo, err := c.RetentionRepository()
		if err != nil {
			c.initErrors["backupSweep"] = err
			return
		}
		archiver, err := c.Archiver(ctx)
		if err != nil {
			c.initErrors["backupSweep"] = err
			return
		}
		business, err := c.BusinessMetrics()
		if err != nil {
			c.initErrors["backupSweep"] = err
			return
		}
		c.backupSweep = retentionService.NewBackupSweep(repo, archiver, business, c.Logger())
	})
	if storedErr, exists := c.initErrors["backupSweep"]; exists {
		return nil, storedErr
	}
	return c.backupSweep, nil
}

// DeletionSweep returns the deletion sweep service.
func (c *Container) DeletionSweep(ctx context.Context) (*retentionService.DeletionSweep, error) {
	c.deletionSweepInit.Do(func() {
		repo, err := c.RetentionRepository()
		if err != nil {
			c.initErrors["deletionSweep"] = err
			return
		}
		archiver, err := c.Archiver(ctx)
		if err != nil {
			c.initErrors["deletionSweep"] = err
			return
		}
		business, err := c.BusinessMetrics()
		if err != nil {
			c.initErrors["deletionSweep"] = err
			return
		}

		grace := time.Duration(c.config.DeletionGraceDays) * 24 * time.Hour
		c.deletionSweep = retentionService.NewDeletionSweep(
			repo,
			archiver,
			c.EntityRegistry(),
			grace,
			business,
			c.Logger(),
		)
	})
	if storedErr, exists := c.initErrors["deletionSweep"]; exists {
		return nil, storedErr
	}
	return c.deletionSweep, nil
}

// IntegritySweep returns the integrity sweep service.
func (c *Container) IntegritySweep(ctx context.Context) (*retentionService.IntegritySweep, error) {
	c.integritySweepInit.Do(func() {
		repo, err := c.RetentionRepository()
		if err != nil {
			c.initErrors["integritySweep"] = err
			return
		}
		archiver, err := c.Archiver(ctx)
		if err != nil {
			c.initErrors["integritySweep"] = err
			return
		}
		business, err := c.BusinessMetrics()
		if err != nil {
			c.initErrors["integritySweep"] = err
			return
		}

		c.integritySweep = retentionService.NewIntegritySweep(
			repo,
			archiver,
			c.config.IntegrityWorkers,
			c.config.IntegrityRecordTimeout,
			c.config.IntegrityStaleness,
			c.config.IntegritySweepBatchSize,
			business,
			c.Logger(),
		)
	})
	if storedErr, exists := c.initErrors["integritySweep"]; exists {
		return nil, storedErr
	}
	return c.integritySweep, nil
}

// RetentionUseCase returns the retention use case, instrumented with metrics.
func (c *Container) RetentionUseCase(ctx context.Context) (retentionUseCase.RetentionUseCase, error) {
	c.retentionUCInit.Do(func() {
		repo, err := c.RetentionRepository()
		if err != nil {
			c.initErrors["retentionUseCase"] = err
			return
		}
		backupSweep, err := c.BackupSweep(ctx)
		if err != nil {
			c.initErrors["retentionUseCase"] = err
			return
		}
		integritySweep, err := c.IntegritySweep(ctx)
		if err != nil {
			c.initErrors["retentionUseCase"] = err
			return
		}
		business, err := c.BusinessMetrics()
		if err != nil {
			c.initErrors["retentionUseCase"] = err
			return
		}

		useCase := retentionUseCase.NewRetentionUseCase(
			repo,
			backupSweep,
			integritySweep,
			c.config.DefaultRetentionDays,
		)
		c.retentionUC = retentionUseCase.NewRetentionUseCaseWithMetrics(useCase, business)
	})
	if storedErr, exists := c.initErrors["retentionUseCase"]; exists {
		return nil, storedErr
	}
	return c.retentionUC, nil
}
