package emit

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/heartmarshall/anime-ingest/internal/domain"
	"github.com/heartmarshall/anime-ingest/pkg/lockedfile"
)

const (
	animeTable    = "Anime"
	animeTagTable = "Anime_Tags"
)

var animeColumns = []string{
	"title", "type", "episodes", "status", "airing_start", "airing_end",
	"rating", "synopsis", "StudioID", "image_url",
}

// Placeholder returns the session variable that captures the id of the
// item with the given Seq.
func Placeholder(seq int) string {
	return "@anime_id_" + strconv.Itoa(seq)
}

// ScriptWriter renders a Batch as a MySQL script that runs in a single
// transaction. Each Anime insert is followed by capturing its generated id
// into Placeholder(seq); the Anime_Tags insert refers to those variables.
type ScriptWriter struct {
	RunID string
	Now   func() time.Time
}

// WriteFile renders b to path, replacing any previous file atomically.
func (s ScriptWriter) WriteFile(path string, b *Batch) error {
	if err := lockedfile.Write(path, func(w io.Writer) error { return s.Render(w, b) }); err != nil {
		return fmt.Errorf("emit: write script %s: %w", path, err)
	}
	return nil
}

// Render writes the script for b to w.
func (s ScriptWriter) Render(w io.Writer, b *Batch) error {
	bw := bufio.NewWriter(w)

	if s.RunID != "" {
		now := time.Now
		if s.Now != nil {
			now = s.Now
		}
		fmt.Fprintf(bw, "-- anime-ingest run %s at %s: %d anime, %d tag links\n",
			s.RunID, now().UTC().Format(time.RFC3339), len(b.Items), len(b.Links))
	}

	bw.WriteString("START TRANSACTION;\n")

	for _, item := range b.Items {
		stmt, err := animeInsert(item.Row)
		if err != nil {
			return fmt.Errorf("render anime %d: %w", item.Seq, err)
		}
		fmt.Fprintf(bw, "%s;\n", stmt)
		fmt.Fprintf(bw, "SET %s = LAST_INSERT_ID();\n", Placeholder(item.Seq))
	}

	if len(b.Links) > 0 {
		stmt, err := tagInsert(b.Links)
		if err != nil {
			return fmt.Errorf("render tag links: %w", err)
		}
		fmt.Fprintf(bw, "\n%s;\n", stmt)
	}

	bw.WriteString("COMMIT;\n")
	return bw.Flush()
}

func animeInsert(row domain.AnimeRow) (string, error) {
	query, _, err := sq.Insert(animeTable).
		Columns(animeColumns...).
		Values(
			sq.Expr(quote(row.Title)),
			sq.Expr(quote(row.Type.String())),
			sq.Expr(intOrNull(row.Episodes.Ptr())),
			sq.Expr(quote(row.Status.String())),
			sq.Expr(quoteOrNull(row.AiringStart.Ptr())),
			sq.Expr(quoteOrNull(row.AiringEnd.Ptr())),
			sq.Expr(strconv.Itoa(row.Rating)),
			sq.Expr(quote(row.Synopsis)),
			sq.Expr(strconv.Itoa(row.StudioID)),
			sq.Expr(quote(row.ImageURL)),
		).
		ToSql()
	return query, err
}

func tagInsert(links []TagLink) (string, error) {
	q := sq.Insert(animeTagTable).Columns("AnimeID", "TagID")
	for _, l := range links {
		q = q.Values(sq.Expr(Placeholder(l.Seq)), sq.Expr(strconv.Itoa(l.TagID)))
	}
	query, _, err := q.ToSql()
	if err != nil {
		return "", err
	}
	// One tuple per line; tuples hold only variables and integers.
	query = strings.Replace(query, " VALUES (", " VALUES\n(", 1)
	return strings.ReplaceAll(query, "),(", "),\n("), nil
}

var mysqlEscaper = strings.NewReplacer(`\`, `\\`, `'`, `''`)

// quote renders s as a MySQL string literal.
func quote(s string) string {
	return "'" + mysqlEscaper.Replace(s) + "'"
}

func quoteOrNull(s *string) string {
	if s == nil {
		return "NULL"
	}
	return quote(*s)
}

func intOrNull(n *int) string {
	if n == nil {
		return "NULL"
	}
	return strconv.Itoa(*n)
}
