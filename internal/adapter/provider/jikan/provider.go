// Package jikan fetches the paginated top-anime listing from the Jikan API.
package jikan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/heartmarshall/anime-ingest/internal/config"
	"github.com/heartmarshall/anime-ingest/internal/domain"
	"github.com/heartmarshall/anime-ingest/internal/progress"
)

var (
	// ErrRateLimited is returned when a page still answers 429 after all retries.
	ErrRateLimited = errors.New("jikan: rate limited")
	// ErrUnexpectedStatus is returned for non-200, non-429 responses.
	ErrUnexpectedStatus = errors.New("jikan: unexpected status")
)

// FetchStats summarises a FetchAll call.
type FetchStats struct {
	Pages       int // pages requested, including the discovery page
	Failed      int // pages that yielded no records because of an error
	RateLimited int // 429 responses seen across all attempts
	Records     int
}

// Provider fetches anime records from the Jikan API.
type Provider struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
	cfg        config.JikanConfig
	progress   progress.Factory
}

// NewProvider creates a Provider using cfg.BaseURL.
func NewProvider(logger *slog.Logger, cfg config.JikanConfig) *Provider {
	return NewProviderWithURL(cfg.BaseURL, logger, cfg)
}

// NewProviderWithURL creates a Provider with a custom base URL (for testing).
func NewProviderWithURL(baseURL string, logger *slog.Logger, cfg config.JikanConfig) *Provider {
	return &Provider{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        logger.With("adapter", "jikan"),
		cfg:        cfg,
		progress:   progress.Noop,
	}
}

// WithProgress reports completed pages to trackers created by f.
func (p *Provider) WithProgress(f progress.Factory) *Provider {
	if f != nil {
		p.progress = f
	}
	return p
}

// FetchAll discovers the page count from page 1, then fetches pages 2..N
// concurrently with at most cfg.Concurrency pages in flight. A failing
// discovery request aborts the run; any other page failure only costs that
// page's records. The returned order is unspecified.
func (p *Provider) FetchAll(ctx context.Context) ([]domain.RawAnime, FetchStats, error) {
	var (
		stats       FetchStats
		rateLimited atomic.Int32
		failed      atomic.Int32
	)

	first, err := p.fetchPage(ctx, 1, &rateLimited)
	if err != nil {
		return nil, FetchStats{Pages: 1, Failed: 1, RateLimited: int(rateLimited.Load())},
			fmt.Errorf("jikan: discover page count: %w", err)
	}

	last := max(first.Pagination.LastVisiblePage, 1)
	if p.cfg.MaxPages > 0 && last > p.cfg.MaxPages {
		last = p.cfg.MaxPages
	}
	p.log.InfoContext(ctx, "discovered pages",
		slog.Int("last_visible_page", first.Pagination.LastVisiblePage),
		slog.Int("fetching", last),
	)

	tracker := p.progress("fetching pages", last)
	defer tracker.Finish()
	tracker.Add(1)

	// One slot per page; each goroutine writes only its own slot.
	pages := make([][]domain.RawAnime, last+1)
	pages[1] = first.Data

	gate := semaphore.NewWeighted(int64(max(p.cfg.Concurrency, 1)))
	g, gctx := errgroup.WithContext(ctx)

	for page := 2; page <= last; page++ {
		g.Go(func() error {
			if err := gate.Acquire(gctx, 1); err != nil {
				return err
			}
			defer gate.Release(1)
			defer tracker.Add(1)

			res, err := p.fetchPage(gctx, page, &rateLimited)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				failed.Add(1)
				p.log.WarnContext(gctx, "page failed",
					slog.Int("page", page),
					slog.String("error", err.Error()),
				)
				return nil
			}
			pages[page] = res.Data
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, stats, fmt.Errorf("jikan: fetch pages: %w", err)
	}

	var records []domain.RawAnime
	for _, data := range pages {
		records = append(records, data...)
	}

	stats = FetchStats{
		Pages:       last,
		Failed:      int(failed.Load()),
		RateLimited: int(rateLimited.Load()),
		Records:     len(records),
	}
	p.log.InfoContext(ctx, "fetch completed",
		slog.Int("pages", stats.Pages),
		slog.Int("failed_pages", stats.Failed),
		slog.Int("rate_limited", stats.RateLimited),
		slog.Int("records", stats.Records),
	)

	return records, stats, nil
}

// fetchPage requests one page, retrying 429 responses with capped
// exponential backoff. Any other failure is returned without retry.
// On success it waits the politeness delay before returning.
func (p *Provider) fetchPage(ctx context.Context, page int, rateLimited *atomic.Int32) (*apiPage, error) {
	var out *apiPage

	op := func() error {
		res, status, err := p.requestPage(ctx, page)
		if err != nil {
			return backoff.Permanent(err)
		}
		switch status {
		case http.StatusOK:
			out = res
			return nil
		case http.StatusTooManyRequests:
			rateLimited.Add(1)
			return ErrRateLimited
		default:
			return backoff.Permanent(fmt.Errorf("%w %d", ErrUnexpectedStatus, status))
		}
	}

	notify := func(err error, wait time.Duration) {
		p.log.DebugContext(ctx, "rate limited, backing off",
			slog.Int("page", page),
			slog.Duration("wait", wait),
		)
	}

	if err := backoff.RetryNotify(op, p.newBackOff(ctx), notify); err != nil {
		return nil, fmt.Errorf("page %d: %w", page, err)
	}

	if err := sleepCtx(ctx, p.cfg.PolitenessDelay); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *Provider) newBackOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.cfg.Cooldown
	b.MaxInterval = max(p.cfg.MaxCooldown, p.cfg.Cooldown)
	b.Multiplier = 2
	b.MaxElapsedTime = 0
	b.Reset()
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(max(p.cfg.MaxRateLimitRetries, 0))), ctx)
}

// requestPage performs a single GET. A non-nil error means transport or
// decode failure; otherwise status carries the HTTP status code.
func (p *Provider) requestPage(ctx context.Context, page int) (*apiPage, int, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	if p.cfg.SafeContent {
		q.Set("sfw", "true")
	}
	reqURL := p.baseURL + "/top/anime?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if p.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", p.cfg.UserAgent)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, resp.StatusCode, nil
	}

	var res apiPage
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return nil, 0, fmt.Errorf("decode page: %w", err)
	}

	p.log.DebugContext(ctx, "page fetched",
		slog.Int("page", page),
		slog.Int("records", len(res.Data)),
	)
	return &res, http.StatusOK, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
