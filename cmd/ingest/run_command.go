package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/heartmarshall/anime-ingest/internal/app"
	"github.com/heartmarshall/anime-ingest/internal/config"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Fetch the catalog and write the insert script and skip log",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := applyRunFlags(cmd.Flags(), cfg); err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("config: validate: %w", err)
			}

			res, err := app.Run(cmd.Context(), cfg, ctx.logger)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderSummary(res))
			fmt.Fprintf(cmd.OutOrStdout(), "Script written to %s, skip log written to %s\n",
				cfg.Output.ScriptPath, cfg.Output.SkipLogPath)
			return nil
		},
	}

	f := cmd.Flags()
	f.Bool("apply", false, "Also apply the batch to PostgreSQL in one transaction")
	f.Int("max-pages", 0, "Fetch at most this many pages (0 = all)")
	f.Bool("safe-content", false, "Ask the API to filter adult entries (sfw=true)")
	f.Bool("no-progress", false, "Disable progress bars")
	f.StringP("output", "o", "", "Insert script path")
	f.String("skip-log", "", "Skip log path")

	return cmd
}

// applyRunFlags copies explicitly set flags over the loaded configuration.
func applyRunFlags(f *pflag.FlagSet, cfg *config.Config) error {
	var err error
	if f.Changed("apply") {
		if cfg.Output.Apply, err = f.GetBool("apply"); err != nil {
			return err
		}
	}
	if f.Changed("max-pages") {
		if cfg.Jikan.MaxPages, err = f.GetInt("max-pages"); err != nil {
			return err
		}
	}
	if f.Changed("safe-content") {
		if cfg.Jikan.SafeContent, err = f.GetBool("safe-content"); err != nil {
			return err
		}
	}
	if f.Changed("no-progress") {
		noProgress, err := f.GetBool("no-progress")
		if err != nil {
			return err
		}
		cfg.Output.Progress = !noProgress
	}
	if f.Changed("output") {
		if cfg.Output.ScriptPath, err = f.GetString("output"); err != nil {
			return err
		}
	}
	if f.Changed("skip-log") {
		if cfg.Output.SkipLogPath, err = f.GetString("skip-log"); err != nil {
			return err
		}
	}
	return nil
}
