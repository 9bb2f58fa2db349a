package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/heartmarshall/anime-ingest/internal/app"
	"github.com/heartmarshall/anime-ingest/internal/config"
	"github.com/heartmarshall/anime-ingest/internal/domain"
	"github.com/heartmarshall/anime-ingest/internal/lookup"
)

type lookupFlags struct {
	kind   string
	script string
	out    string
	seedDB bool
}

func newLookupCommand(ctx *commandContext) *cobra.Command {
	var flags lookupFlags

	cmd := &cobra.Command{
		Use:   "lookup",
		Short: "Derive a lookup map file from a raw insert script",
		Long: "Reads an INSERT script for studios or tags, numbers the names 1..N in file order\n" +
			"and writes them as a map file (.json, .toml or legacy text by extension).",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			kind := domain.LookupKind(flags.kind)
			if !kind.IsValid() {
				return domain.NewValidationError("kind", fmt.Sprintf("must be %q or %q", domain.LookupStudios, domain.LookupTags))
			}
			script, out := lookupPaths(cfg.Lookup, kind)
			if flags.script != "" {
				script = flags.script
			}
			if flags.out != "" {
				out = flags.out
			}
			if script == "" || out == "" {
				return domain.NewValidationError("script", "script and output paths are required")
			}

			m, err := lookup.FromScriptFile(kind, script)
			if err != nil {
				return err
			}
			if err := lookup.WriteMap(out, m); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d %s to %s\n", m.Len(), kind, out)

			if flags.seedDB {
				if cfg.Database.DSN == "" {
					return domain.NewValidationError("database.dsn", "required for --seed-db")
				}
				added, err := app.SeedReference(cmd.Context(), cfg, m)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Inserted %d new %s into the database\n", added, kind)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.kind, "kind", string(domain.LookupStudios), "Lookup kind: studios or tags")
	f.StringVar(&flags.script, "script", "", "Insert script to read (default from lookup config)")
	f.StringVarP(&flags.out, "out", "o", "", "Map file to write (default from lookup config)")
	f.BoolVar(&flags.seedDB, "seed-db", false, "Also insert the names into the studios/tags table")

	return cmd
}

// lookupPaths returns the configured script and map paths for kind.
func lookupPaths(cfg config.LookupConfig, kind domain.LookupKind) (script, out string) {
	if kind == domain.LookupTags {
		return cfg.TagScriptPath, cfg.TagMapPath
	}
	return cfg.StudioScriptPath, cfg.StudioMapPath
}
