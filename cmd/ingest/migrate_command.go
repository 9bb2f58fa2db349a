package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/anime-ingest/internal/app"
	"github.com/heartmarshall/anime-ingest/internal/domain"
)

func newMigrateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending PostgreSQL migrations for --apply",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if cfg.Database.DSN == "" {
				return domain.NewValidationError("database.dsn", "required for migrate")
			}

			applied, version, err := app.Migrate(cmd.Context(), cfg, ctx.logger)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Applied %d migrations, schema version %d\n", applied, version)
			return nil
		},
	}
}
