// Package lookup builds the immutable name → id maps used to resolve
// studio and tag references.
package lookup

import (
	"sort"
	"strings"

	"github.com/heartmarshall/anime-ingest/internal/domain"
)

// NoTagsName is the tag map entry used when a record resolves no tags.
const NoTagsName = "NO TAGS"

// Entry is a single name → id pair.
type Entry struct {
	Name string `db:"name" json:"name"`
	ID   int    `db:"id"   json:"id"`
}

// Map is an immutable name → positive id map. Safe for concurrent reads.
type Map struct {
	kind domain.LookupKind
	ids  map[string]int
}

// NewMap builds a Map from entries. The first occurrence of a name wins;
// entries with an empty name or a non-positive id are ignored.
func NewMap(kind domain.LookupKind, entries []Entry) *Map {
	ids := make(map[string]int, len(entries))
	for _, e := range entries {
		if e.Name == "" || e.ID <= 0 {
			continue
		}
		if _, exists := ids[e.Name]; exists {
			continue
		}
		ids[e.Name] = e.ID
	}
	return &Map{kind: kind, ids: ids}
}

// Kind returns which reference table the map describes.
func (m *Map) Kind() domain.LookupKind { return m.kind }

// Len returns the number of names in the map.
func (m *Map) Len() int { return len(m.ids) }

// Get performs an exact lookup.
func (m *Map) Get(name string) (int, bool) {
	id, ok := m.ids[name]
	return id, ok
}

// Entries returns all pairs ordered by id, then name.
func (m *Map) Entries() []Entry {
	out := make([]Entry, 0, len(m.ids))
	for name, id := range m.ids {
		out = append(out, Entry{Name: name, ID: id})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].ID != out[j].ID {
			return out[i].ID < out[j].ID
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// ResolveStudio looks a studio name up as-is, then with apostrophes doubled,
// since some maps were built from SQL-escaped names.
func (m *Map) ResolveStudio(name string) (int, bool) {
	if id, ok := m.ids[name]; ok {
		return id, true
	}
	if strings.Contains(name, "'") {
		id, ok := m.ids[strings.ReplaceAll(name, "'", "''")]
		return id, ok
	}
	return 0, false
}

// ResolveTags maps names to ids in input order. Unknown names are dropped
// and repeated ids collapse into one.
func (m *Map) ResolveTags(names []string) []int {
	out := make([]int, 0, len(names))
	seen := make(map[int]struct{}, len(names))
	for _, name := range names {
		id, ok := m.ids[name]
		if !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// NoTagsID returns the id of the NO TAGS sentinel, if the map has one.
func (m *Map) NoTagsID() (int, bool) {
	return m.Get(NoTagsName)
}
