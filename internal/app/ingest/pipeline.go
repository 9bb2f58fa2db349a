// Package ingest runs one end-to-end catalog ingest: lookups, fetch,
// normalization and output.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/anime-ingest/internal/adapter/provider/jikan"
	"github.com/heartmarshall/anime-ingest/internal/config"
	"github.com/heartmarshall/anime-ingest/internal/domain"
	"github.com/heartmarshall/anime-ingest/internal/emit"
	"github.com/heartmarshall/anime-ingest/internal/lookup"
	"github.com/heartmarshall/anime-ingest/internal/normalize"
	"github.com/heartmarshall/anime-ingest/internal/progress"
	"github.com/heartmarshall/anime-ingest/pkg/ctxutil"
)

// Fetcher returns every raw record the catalog currently exposes.
type Fetcher interface {
	FetchAll(ctx context.Context) ([]domain.RawAnime, jikan.FetchStats, error)
}

// LookupLoader builds the studio and tag maps.
type LookupLoader interface {
	LoadAll(ctx context.Context) (studios, tags *lookup.Map, err error)
}

// Sink applies a batch to a live database.
type Sink interface {
	ApplyBatch(ctx context.Context, b *emit.Batch) (emit.ApplyResult, error)
}

// Result summarises a run.
type Result struct {
	RunID       uuid.UUID
	Fetched     int
	Accepted    int
	Rejected    int
	TagLinks    int
	Pages       int
	FailedPages int
	RateLimited int
	ByCause     map[normalize.Rule]int
	Applied     *emit.ApplyResult
	Duration    time.Duration
}

// Pipeline orchestrates a single ingest run.
type Pipeline struct {
	log      *slog.Logger
	loader   LookupLoader
	fetcher  Fetcher
	sink     Sink
	cfg      config.OutputConfig
	progress progress.Factory
	now      func() time.Time
	newID    func() uuid.UUID
}

// NewPipeline creates a new Pipeline. sink may be nil when cfg.Apply is false.
func NewPipeline(log *slog.Logger, loader LookupLoader, fetcher Fetcher, sink Sink, cfg config.OutputConfig) *Pipeline {
	return &Pipeline{
		log:      log.With("component", "ingest"),
		loader:   loader,
		fetcher:  fetcher,
		sink:     sink,
		cfg:      cfg,
		progress: progress.Noop,
		now:      time.Now,
		newID:    uuid.New,
	}
}

// WithProgress sets the factory used for the processing bar.
func (p *Pipeline) WithProgress(f progress.Factory) *Pipeline {
	if f != nil {
		p.progress = f
	}
	return p
}

// Run executes the pipeline. Lookup, fetch discovery, output and apply
// failures abort the run; per-record rejections and failed pages do not.
func (p *Pipeline) Run(ctx context.Context) (Result, error) {
	start := p.now()
	res := Result{RunID: p.newID()}
	ctx = ctxutil.WithRunID(ctx, res.RunID)

	if p.cfg.Apply && p.sink == nil {
		return res, fmt.Errorf("%w: apply requested without a database sink", domain.ErrPrecondition)
	}

	// Step 1: Lookups, before any network call.
	var studios, tags *lookup.Map
	if err := p.phase(ctx, "lookup", func(ctx context.Context) error {
		var err error
		studios, tags, err = p.loader.LoadAll(ctx)
		return err
	}); err != nil {
		return res, fmt.Errorf("load lookups: %w", err)
	}

	// Step 2: Fetch.
	var raws []domain.RawAnime
	if err := p.phase(ctx, "fetch", func(ctx context.Context) error {
		var (
			stats jikan.FetchStats
			err   error
		)
		raws, stats, err = p.fetcher.FetchAll(ctx)
		res.Pages = stats.Pages
		res.FailedPages = stats.Failed
		res.RateLimited = stats.RateLimited
		return err
	}); err != nil {
		return res, fmt.Errorf("fetch: %w", err)
	}
	res.Fetched = len(raws)

	// Step 3: Normalize, single-threaded, in arrival order.
	st := normalize.NewState()
	var rows []domain.AnimeRow
	if err := p.phase(ctx, "normalize", func(ctx context.Context) error {
		var err error
		rows, err = p.normalize(ctx, raws, normalize.New(studios, tags), st)
		return err
	}); err != nil {
		return res, fmt.Errorf("normalize: %w", err)
	}
	res.Accepted = st.Accepted()
	res.Rejected = st.Rejected()
	res.ByCause = st.ByRule()

	// Step 4: Outputs.
	batch := emit.Build(rows)
	res.TagLinks = len(batch.Links)

	if err := p.phase(ctx, "emit", func(ctx context.Context) error {
		return p.writeOutputs(batch, st.Skipped(), res.RunID)
	}); err != nil {
		return res, err
	}

	if p.cfg.Apply {
		if err := p.phase(ctx, "apply", func(ctx context.Context) error {
			applied, err := p.sink.ApplyBatch(ctx, batch)
			if err != nil {
				return err
			}
			res.Applied = &applied
			return nil
		}); err != nil {
			return res, fmt.Errorf("apply batch: %w", err)
		}
	}

	res.Duration = p.now().Sub(start)
	p.log.InfoContext(ctx, "pipeline completed",
		slog.Int("fetched", res.Fetched),
		slog.Int("accepted", res.Accepted),
		slog.Int("rejected", res.Rejected),
		slog.Int("tag_links", res.TagLinks),
		slog.Int("failed_pages", res.FailedPages),
		slog.Duration("duration", res.Duration),
	)
	return res, nil
}

// phase runs fn with the phase name attached to ctx and logs its outcome.
func (p *Pipeline) phase(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	ctx = ctxutil.WithPhase(ctx, name)
	start := p.now()
	p.log.DebugContext(ctx, "starting phase")

	if err := fn(ctx); err != nil {
		p.log.ErrorContext(ctx, "phase failed",
			slog.String("error", err.Error()),
			slog.Duration("duration", p.now().Sub(start)),
		)
		return err
	}

	p.log.InfoContext(ctx, "phase completed", slog.Duration("duration", p.now().Sub(start)))
	return nil
}

// normalize stops at the first record after ctx is cancelled.
func (p *Pipeline) normalize(ctx context.Context, raws []domain.RawAnime, n *normalize.Normalizer, st *normalize.State) ([]domain.AnimeRow, error) {
	bar := p.progress("processing", len(raws))
	defer bar.Finish()

	rows := make([]domain.AnimeRow, 0, len(raws))
	for _, raw := range raws {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if row, skip := n.Normalize(raw, st); skip == nil {
			rows = append(rows, row)
		}
		bar.Add(1)
	}
	return rows, nil
}

func (p *Pipeline) writeOutputs(b *emit.Batch, skipped []domain.SkipReason, runID uuid.UUID) error {
	w := emit.ScriptWriter{RunID: runID.String(), Now: p.now}
	if err := w.WriteFile(p.cfg.ScriptPath, b); err != nil {
		return err
	}
	return emit.WriteSkipLog(p.cfg.SkipLogPath, skipped)
}
