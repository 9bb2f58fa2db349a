package lookup

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/heartmarshall/anime-ingest/internal/domain"
)

func TestNewMap_FirstWinsAndSkipsInvalid(t *testing.T) {
	t.Parallel()

	m := NewMap(domain.LookupStudios, []Entry{
		{Name: "Sunrise", ID: 1},
		{Name: "Madhouse", ID: 2},
		{Name: "Sunrise", ID: 3},
		{Name: "", ID: 4},
		{Name: "Zero", ID: 0},
	})

	assert.Equal(t, 2, m.Len())
	id, ok := m.Get("Sunrise")
	assert.True(t, ok)
	assert.Equal(t, 1, id)
	_, ok = m.Get("Zero")
	assert.False(t, ok)
	assert.Equal(t, domain.LookupStudios, m.Kind())
}

func TestMap_Entries_SortedByID(t *testing.T) {
	t.Parallel()

	m := NewMap(domain.LookupTags, []Entry{
		{Name: "Drama", ID: 3},
		{Name: "Action", ID: 1},
		{Name: "Comedy", ID: 2},
	})

	assert.Equal(t, []Entry{
		{Name: "Action", ID: 1},
		{Name: "Comedy", ID: 2},
		{Name: "Drama", ID: 3},
	}, m.Entries())
}

func TestMap_ResolveStudio(t *testing.T) {
	t.Parallel()

	m := NewMap(domain.LookupStudios, []Entry{
		{Name: "Sunrise", ID: 1},
		{Name: "Brain''s Base", ID: 2},
		{Name: "Studio 4°C", ID: 3},
	})

	tests := []struct {
		name   string
		input  string
		wantID int
		wantOK bool
	}{
		{"exact", "Sunrise", 1, true},
		{"apostrophe fallback", "Brain's Base", 2, true},
		{"unicode exact", "Studio 4°C", 3, true},
		{"unknown", "Unknown Studio", 0, false},
		{"unknown with apostrophe", "Nobody's", 0, false},
		{"case sensitive", "sunrise", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			id, ok := m.ResolveStudio(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestMap_ResolveStudio_ExactBeatsFallback(t *testing.T) {
	t.Parallel()

	m := NewMap(domain.LookupStudios, []Entry{
		{Name: "Brain's Base", ID: 7},
		{Name: "Brain''s Base", ID: 8},
	})

	id, ok := m.ResolveStudio("Brain's Base")
	assert.True(t, ok)
	assert.Equal(t, 7, id)
}

func TestMap_ResolveTags(t *testing.T) {
	t.Parallel()

	m := NewMap(domain.LookupTags, []Entry{
		{Name: "Action", ID: 1},
		{Name: "Drama", ID: 2},
		{Name: "Gore", ID: 5},
	})

	tests := []struct {
		name  string
		input []string
		want  []int
	}{
		{"in order", []string{"Drama", "Action"}, []int{2, 1}},
		{"unknown dropped", []string{"Action", "Mystery", "Gore"}, []int{1, 5}},
		{"duplicates collapse", []string{"Action", "Drama", "Action"}, []int{1, 2}},
		{"none known", []string{"Mystery"}, []int{}},
		{"empty", nil, []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, m.ResolveTags(tt.input))
		})
	}
}

func TestMap_NoTagsID(t *testing.T) {
	t.Parallel()

	withSentinel := NewMap(domain.LookupTags, []Entry{{Name: "Action", ID: 1}, {Name: NoTagsName, ID: 42}})
	id, ok := withSentinel.NoTagsID()
	assert.True(t, ok)
	assert.Equal(t, 42, id)

	_, ok = NewMap(domain.LookupTags, []Entry{{Name: "Action", ID: 1}}).NoTagsID()
	assert.False(t, ok)
}
