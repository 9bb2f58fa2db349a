// Package emit turns normalized rows into an ordered insert batch and
// writes it out as a transactional SQL script.
package emit

import "github.com/heartmarshall/anime-ingest/internal/domain"

// Item is an accepted row with its 1-based position in the batch.
// Seq stands in for the row's database id until the row is inserted.
type Item struct {
	Seq int
	Row domain.AnimeRow
}

// TagLink is a dependent Anime_Tags row referring to an Item by Seq.
type TagLink struct {
	Seq   int
	TagID int
}

// Batch is the dependency-ordered output of one run: every Item is inserted
// before any TagLink, and every TagLink.Seq names an Item of the same batch.
type Batch struct {
	Items []Item
	Links []TagLink
}

// ApplyResult reports what a sink wrote for a Batch.
type ApplyResult struct {
	Anime    int
	TagLinks int
}

// Build assigns Seq 1..N in arrival order and emits one link per
// (row, tag) pair, rows first, tags in row order.
func Build(rows []domain.AnimeRow) *Batch {
	b := &Batch{Items: make([]Item, 0, len(rows))}
	for i, row := range rows {
		seq := i + 1
		b.Items = append(b.Items, Item{Seq: seq, Row: row})
		for _, tagID := range row.TagIDs {
			b.Links = append(b.Links, TagLink{Seq: seq, TagID: tagID})
		}
	}
	return b
}

// Len returns the number of items.
func (b *Batch) Len() int { return len(b.Items) }

// Empty reports whether the batch has no items.
func (b *Batch) Empty() bool { return len(b.Items) == 0 }
