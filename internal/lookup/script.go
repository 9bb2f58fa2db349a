package lookup

import (
	"fmt"
	"os"
	"strings"

	"github.com/heartmarshall/anime-ingest/internal/domain"
)

// ParseInsertScript extracts names from a raw reference-table insert script
// such as:
//
//	INSERT INTO Studios (name, rating) VALUES
//	('Sunrise', 8),
//	('Brain''s Base', 7);
//
// The first single-quoted field of each row is the name; ids are assigned
// 1..N in row order. A repeated name keeps its first id but still consumes
// one, so ids stay aligned with the target table's auto-increment keys.
// Rows without a quoted field are skipped and consume no id.
func ParseInsertScript(content string) []Entry {
	idx := strings.Index(strings.ToUpper(content), "VALUES")
	if idx < 0 {
		return nil
	}

	var (
		entries []Entry
		nextID  = 1
	)
	for _, name := range rowNames(content[idx+len("VALUES"):]) {
		entries = append(entries, Entry{Name: name, ID: nextID})
		nextID++
	}
	return entries
}

// rowNames scans parenthesised tuples and returns the first quoted field of
// each. Quotes are tracked so that parentheses and commas inside names do
// not split rows.
func rowNames(s string) []string {
	var (
		names    []string
		depth    int
		inQuote  bool
		haveName bool
		cur      strings.Builder
		fieldNo  int
	)

	for i := 0; i < len(s); i++ {
		c := s[i]

		if inQuote {
			if c == '\'' {
				if i+1 < len(s) && s[i+1] == '\'' {
					if fieldNo == 0 {
						cur.WriteByte('\'')
					}
					i++
					continue
				}
				inQuote = false
				if fieldNo == 0 && !haveName {
					haveName = true
					names = append(names, cur.String())
				}
				fieldNo++
				continue
			}
			if fieldNo == 0 {
				cur.WriteByte(c)
			}
			continue
		}

		switch c {
		case '\'':
			if depth > 0 {
				inQuote = true
				cur.Reset()
			}
		case '(':
			if depth == 0 {
				haveName = false
				fieldNo = 0
			}
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case ';':
			if depth == 0 {
				return names
			}
		}
	}
	return names
}

// FromScriptFile parses the insert script at path into a Map.
func FromScriptFile(kind domain.LookupKind, path string) (*Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("lookup: read %s: %w", path, err)
	}
	m := NewMap(kind, ParseInsertScript(string(data)))
	if m.Len() == 0 {
		return nil, fmt.Errorf("lookup: %s from %s: %w", kind, path, ErrEmptyMap)
	}
	return m, nil
}
