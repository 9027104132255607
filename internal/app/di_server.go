package app

import (
	"context"

	complianceHTTP "github.com/healplus/compliance/internal/compliance/http"
	"github.com/healplus/compliance/internal/http"
	"github.com/healplus/compliance/internal/scheduler"
)

// ComplianceHandler returns the compliance API handler.
func (c *Container) ComplianceHandler(ctx context.Context) (*complianceHTTP.ComplianceHandler, error) {
	c.complianceHandlerInit.Do(func() {
		signatureUC, err := c.SignatureUseCase()
		if err != nil {
			c.initErrors["complianceHandler"] = err
			return
		}
		retentionUC, err := c.RetentionUseCase(ctx)
		if err != nil {
			c.initErrors["complianceHandler"] = err
			return
		}
		archiver, err := c.Archiver(ctx)
		if err != nil {
			c.initErrors["complianceHandler"] = err
			return
		}

		c.complianceHandler = complianceHTTP.NewComplianceHandler(
			signatureUC,
			retentionUC,
			archiver,
			c.Logger(),
		)
	})
	if storedErr, exists := c.initErrors["complianceHandler"]; exists {
		return nil, storedErr
	}
	return c.complianceHandler, nil
}

// HTTPServer returns the compliance API server.
func (c *Container) HTTPServer(ctx context.Context) (*http.Server, error) {
	c.httpServerInit.Do(func() {
		handler, err := c.ComplianceHandler(ctx)
		if err != nil {
			c.initErrors["httpServer"] = err
			return
		}

		opts := []http.Option{
			http.WithCORS(c.config.CORSEnabled, c.config.CORSAllowOrigins),
			http.WithRateLimit(c.config.RateLimitEnabled, c.config.RateLimitRequestsPerSec, c.config.RateLimitBurst),
		}
		if provider, err := c.MetricsProvider(); err == nil && provider != nil {
			opts = append(opts, http.WithMetrics(provider.MeterProvider(), c.config.MetricsNamespace))
		}

		c.httpServer = http.NewServer(
			c.config.ServerHost,
			c.config.ServerPort,
			c.Logger(),
			handler,
			opts...,
		)
	})
	if storedErr, exists := c.initErrors["httpServer"]; exists {
		return nil, storedErr
	}
	return c.httpServer, nil
}

// MetricsServer returns the Prometheus metrics server, or nil when metrics
// are disabled.
func (c *Container) MetricsServer() (*http.MetricsServer, error) {
	c.metricsServerInit.Do(func() {
		provider, err := c.MetricsProvider()
		if err != nil {
			c.initErrors["metricsServer"] = err
			return
		}
		if provider == nil {
			return
		}
		c.metricsServer = http.NewMetricsServer(
			c.config.ServerHost,
			c.config.MetricsPort,
			c.Logger(),
			provider,
		)
	})
	if storedErr, exists := c.initErrors["metricsServer"]; exists {
		return nil, storedErr
	}
	return c.metricsServer, nil
}

// Scheduler returns the lifecycle job scheduler with the retention cycle and
// the integrity sweep registered. The retention cycle runs the backup sweep
// first and the deletion sweep second; the ordering is what lets a record
// backed up in the same cycle survive its deletion check.
func (c *Container) Scheduler(ctx context.Context) (*scheduler.Scheduler, error) {
	c.schedulerInit.Do(func() {
		backupSweep, err := c.BackupSweep(ctx)
		if err != nil {
			c.initErrors["scheduler"] = err
			return
		}
		deletionSweep, err := c.DeletionSweep(ctx)
		if err != nil {
			c.initErrors["scheduler"] = err
			return
		}
		integritySweep, err := c.IntegritySweep(ctx)
		if err != nil {
			c.initErrors["scheduler"] = err
			return
		}

		sched := scheduler.NewScheduler(c.Logger())
		sched.Add("retention_cycle", c.config.RetentionCycleInterval, func(ctx context.Context) error {
			if _, err := backupSweep.Run(ctx); err != nil {
				return err
			}
			_, err := deletionSweep.Run(ctx)
			return err
		})
		sched.Add("integrity_sweep", c.config.IntegritySweepInterval, func(ctx context.Context) error {
			_, err := integritySweep.Run(ctx)
			return err
		})
		c.scheduler = sched
	})
	if storedErr, exists := c.initErrors["scheduler"]; exists {
		return nil, storedErr
	}
	return c.scheduler, nil
}
