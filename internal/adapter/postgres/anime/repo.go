// Package anime writes emitted batches into the anime and anime_tags tables.
package anime

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/heartmarshall/anime-ingest/internal/adapter/postgres"
	"github.com/heartmarshall/anime-ingest/internal/domain"
	"github.com/heartmarshall/anime-ingest/internal/emit"
)

const defaultChunkSize = 500

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// TxRunner runs fn inside a transaction. Implemented by *postgres.TxManager.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Repo applies batches to PostgreSQL.
type Repo struct {
	db        postgres.Querier
	txm       TxRunner
	chunkSize int
}

// New creates a Repo. chunkSize bounds the rows per anime_tags insert.
func New(db postgres.Querier, txm TxRunner, chunkSize int) *Repo {
	if chunkSize <= 0 {
		chunkSize = defaultChunkSize
	}
	return &Repo{db: db, txm: txm, chunkSize: chunkSize}
}

// ApplyBatch inserts every item in Seq order, keeping the returned ids in an
// arena indexed by Seq-1, then inserts the tag links resolved through it.
// Everything runs in one transaction: any failure leaves the tables unchanged.
func (r *Repo) ApplyBatch(ctx context.Context, b *emit.Batch) (emit.ApplyResult, error) {
	var res emit.ApplyResult
	if b.Empty() {
		return res, nil
	}

	err := r.txm.RunInTx(ctx, func(ctx context.Context) error {
		q := postgres.QuerierFromCtx(ctx, r.db)

		ids := make([]int64, len(b.Items))
		for _, item := range b.Items {
			id, err := insertAnime(ctx, q, item.Row)
			if err != nil {
				return postgres.MapError(err, "anime", fmt.Sprintf("#%d %q", item.Seq, item.Row.Title))
			}
			ids[item.Seq-1] = id
		}
		res.Anime = len(ids)

		for start := 0; start < len(b.Links); start += r.chunkSize {
			chunk := b.Links[start:min(start+r.chunkSize, len(b.Links))]
			n, err := insertLinks(ctx, q, ids, chunk)
			if err != nil {
				return postgres.MapError(err, "anime_tags", fmt.Sprintf("chunk at %d", start))
			}
			res.TagLinks += n
		}
		return nil
	})
	if err != nil {
		return emit.ApplyResult{}, fmt.Errorf("apply batch: %w", err)
	}
	return res, nil
}

func insertAnime(ctx context.Context, q postgres.Querier, row domain.AnimeRow) (int64, error) {
	query, args, err := psql.Insert("anime").
		Columns("title", "type", "episodes", "status", "airing_start", "airing_end",
			"rating", "synopsis", "studio_id", "image_url").
		Values(
			row.Title,
			row.Type.String(),
			row.Episodes.Ptr(),
			row.Status.String(),
			toPgDate(row.AiringStart),
			toPgDate(row.AiringEnd),
			row.Rating,
			row.Synopsis,
			row.StudioID,
			row.ImageURL,
		).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}

	var id int64
	if err := q.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func insertLinks(ctx context.Context, q postgres.Querier, ids []int64, links []emit.TagLink) (int, error) {
	builder := psql.Insert("anime_tags").Columns("anime_id", "tag_id")
	for _, l := range links {
		builder = builder.Values(ids[l.Seq-1], l.TagID)
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}

	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func toPgDate(d domain.Date) pgtype.Date {
	p := d.Ptr()
	if p == nil {
		return pgtype.Date{}
	}
	t, err := time.Parse(time.DateOnly, *p)
	if err != nil {
		return pgtype.Date{}
	}
	return pgtype.Date{Time: t, Valid: true}
}
