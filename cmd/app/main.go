// Package main provides the entry point for the application with CLI commands.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/healplus/compliance/cmd/app/commands"
)

const version = "1.0.0"

func main() {
	cmd := &cli.Command{
		Name:    "app",
		Usage:   "HealPlus compliance engine",
		Version: version,
		Commands: []*cli.Command{
			{
				Name:  "server",
				Usage: "Start the HTTP server with the retention scheduler",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunServer(ctx, version)
				},
			},
			{
				Name:  "migrate",
				Usage: "Run database migrations",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunMigrations()
				},
			},
			{
				Name:  "backup-sweep",
				Usage: "Archive all retention records pending backup",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunBackupSweep(ctx)
				},
			},
			{
				Name:  "deletion-sweep",
				Usage: "Mark expired records and purge those past the grace period",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunDeletionSweep(ctx)
				},
			},
			{
				Name:  "integrity-sweep",
				Usage: "Verify retention record hashes and backup archives",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunIntegritySweep(ctx)
				},
			},
			{
				Name:  "retention-cycle",
				Usage: "Run the backup sweep followed by the deletion sweep",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunRetentionCycle(ctx)
				},
			},
			{
				Name:  "register-retention",
				Usage: "Register an entity in the retention ledger",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "entity-type",
						Aliases:  []string{"t"},
						Required: true,
						Usage:    "Entity type (e.g., medical_record)",
					},
					&cli.StringFlag{
						Name:     "entity-id",
						Aliases:  []string{"i"},
						Required: true,
						Usage:    "Entity identifier",
					},
					&cli.StringFlag{
						Name:    "created-at",
						Aliases: []string{"c"},
						Value:   "",
						Usage:   "Entity creation timestamp in RFC 3339 (defaults to now)",
					},
					&cli.IntFlag{
						Name:    "retention-days",
						Aliases: []string{"d"},
						Value:   0,
						Usage:   "Retention period in days (0 uses the configured default)",
					},
					&cli.StringFlag{
						Name:    "legal-basis",
						Aliases: []string{"l"},
						Value:   "",
						Usage:   "Legal basis (LEI_13787, LGPD, ANVISA, MEDICAL_RECORDS, CONSENT)",
					},
				},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					return commands.RunRegisterRetention(
						ctx,
						cmd.String("entity-type"),
						cmd.String("entity-id"),
						cmd.String("created-at"),
						cmd.Int("retention-days"),
						cmd.String("legal-basis"),
					)
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.Any("error", err))
		os.Exit(1)
	}
}
