// Package refdata reads the studios and tags reference tables.
package refdata

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"github.com/heartmarshall/anime-ingest/internal/adapter/postgres"
	"github.com/heartmarshall/anime-ingest/internal/domain"
	"github.com/heartmarshall/anime-ingest/internal/lookup"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

var tables = map[domain.LookupKind]string{
	domain.LookupStudios: "studios",
	domain.LookupTags:    "tags",
}

// Repo lists reference entries. It satisfies lookup.Source.
type Repo struct {
	db postgres.Querier
}

// New creates a Repo.
func New(db postgres.Querier) *Repo {
	return &Repo{db: db}
}

// ListEntries returns every (name, id) pair of the table for kind, in id order.
func (r *Repo) ListEntries(ctx context.Context, kind domain.LookupKind) ([]lookup.Entry, error) {
	table, ok := tables[kind]
	if !ok {
		return nil, fmt.Errorf("refdata: %w", domain.NewValidationError("kind", fmt.Sprintf("unknown lookup kind %q", kind)))
	}

	query, args, err := psql.Select("name", "id").From(table).OrderBy("id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("refdata: build query: %w", err)
	}

	var entries []lookup.Entry
	if err := pgxscan.Select(ctx, postgres.QuerierFromCtx(ctx, r.db), &entries, query, args...); err != nil {
		return nil, postgres.MapError(err, table, "list")
	}
	return entries, nil
}

// Upsert inserts reference names that are missing and returns how many were
// added. Used to seed a fresh database from lookup files.
func (r *Repo) Upsert(ctx context.Context, kind domain.LookupKind, names []string) (int, error) {
	table, ok := tables[kind]
	if !ok {
		return 0, fmt.Errorf("refdata: %w", domain.NewValidationError("kind", fmt.Sprintf("unknown lookup kind %q", kind)))
	}
	if len(names) == 0 {
		return 0, nil
	}

	builder := psql.Insert(table).Columns("name")
	for _, n := range names {
		builder = builder.Values(n)
	}
	query, args, err := builder.Suffix("ON CONFLICT (name) DO NOTHING").ToSql()
	if err != nil {
		return 0, fmt.Errorf("refdata: build query: %w", err)
	}

	tag, err := postgres.QuerierFromCtx(ctx, r.db).Exec(ctx, query, args...)
	if err != nil {
		return 0, postgres.MapError(err, table, "upsert")
	}
	return int(tag.RowsAffected()), nil
}
