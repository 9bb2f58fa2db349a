package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/anime-ingest/internal/adapter/postgres"
	"github.com/heartmarshall/anime-ingest/internal/adapter/postgres/anime"
	"github.com/heartmarshall/anime-ingest/internal/adapter/postgres/refdata"
	"github.com/heartmarshall/anime-ingest/internal/adapter/provider/jikan"
	"github.com/heartmarshall/anime-ingest/internal/app/ingest"
	"github.com/heartmarshall/anime-ingest/internal/config"
	"github.com/heartmarshall/anime-ingest/internal/lookup"
	"github.com/heartmarshall/anime-ingest/internal/progress"
)

// Compile-time interface assertions.
var (
	_ ingest.Fetcher      = (*jikan.Provider)(nil)
	_ ingest.LookupLoader = (*lookup.Loader)(nil)
	_ ingest.Sink         = (*anime.Repo)(nil)
	_ lookup.Source       = (*refdata.Repo)(nil)
)

// Run wires the ingest pipeline from cfg and executes one run. A database
// pool is opened only when cfg needs one (apply or database lookups).
func Run(ctx context.Context, cfg *config.Config, logger *slog.Logger) (ingest.Result, error) {
	logger.InfoContext(ctx, "starting ingest",
		slog.String("version", BuildVersion()),
		slog.String("lookup_source", cfg.Lookup.Source),
		slog.Bool("apply", cfg.Output.Apply),
	)

	var pool *pgxpool.Pool
	if cfg.NeedsDatabase() {
		var err error
		pool, err = postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return ingest.Result{}, fmt.Errorf("connect to database: %w", err)
		}
		defer pool.Close()
	}

	loader := lookup.NewFileLoader(logger, cfg.Lookup)
	if cfg.Lookup.Source == config.LookupSourceDB {
		loader = lookup.NewSourceLoader(logger, refdata.New(pool))
	}

	bars := progressFactory(cfg.Output)
	fetcher := jikan.NewProvider(logger, cfg.Jikan).WithProgress(bars)

	var sink ingest.Sink
	if cfg.Output.Apply {
		sink = anime.New(pool, postgres.NewTxManager(pool), cfg.Database.ApplyChunkSize)
	}

	return ingest.NewPipeline(logger, loader, fetcher, sink, cfg.Output).
		WithProgress(bars).
		Run(ctx)
}

// Migrate applies pending schema migrations and returns how many ran and the
// resulting version.
func Migrate(ctx context.Context, cfg *config.Config, logger *slog.Logger) (applied int, version int64, err error) {
	m, err := postgres.NewMigrator(ctx, cfg.Database.DSN, logger)
	if err != nil {
		return 0, 0, err
	}
	defer func() {
		if cerr := m.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if applied, err = m.Up(ctx); err != nil {
		return 0, 0, err
	}
	if version, err = m.Version(ctx); err != nil {
		return applied, 0, err
	}
	return applied, version, nil
}

// SeedReference inserts the names of m into the studios or tags table,
// keeping rows that already exist. It returns the number of new rows.
func SeedReference(ctx context.Context, cfg *config.Config, m *lookup.Map) (int, error) {
	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return 0, fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	entries := m.Entries()
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return refdata.New(pool).Upsert(ctx, m.Kind(), names)
}

func progressFactory(cfg config.OutputConfig) progress.Factory {
	if !cfg.Progress {
		return progress.Noop
	}
	return progress.Bars()
}
