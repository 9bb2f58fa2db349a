package lookup

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/pelletier/go-toml/v2"

	"github.com/heartmarshall/anime-ingest/internal/domain"
	"github.com/heartmarshall/anime-ingest/pkg/lockedfile"
)

// Map file formats, selected by file extension.
const (
	formatJSON   = "json"
	formatTOML   = "toml"
	formatLegacy = "legacy"
)

func formatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return formatJSON
	case ".toml":
		return formatTOML
	default:
		return formatLegacy
	}
}

// ParseMapFile decodes a precomputed map in the format implied by path.
func ParseMapFile(path string, data []byte) ([]Entry, error) {
	switch formatOf(path) {
	case formatJSON:
		var m map[string]int
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("decode json map: %w", err)
		}
		return entriesFromMap(m), nil
	case formatTOML:
		var m map[string]int
		if err := toml.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("decode toml map: %w", err)
		}
		return entriesFromMap(m), nil
	default:
		return parseLegacyMap(data)
	}
}

func entriesFromMap(m map[string]int) []Entry {
	out := make([]Entry, 0, len(m))
	for name, id := range m {
		out = append(out, Entry{Name: name, ID: id})
	}
	return out
}

// parseLegacyMap reads the assignment-style text form:
//
//	studio_map = {
//	    'Brain\'s Base': 1,
//	}
func parseLegacyMap(data []byte) ([]Entry, error) {
	var out []Entry
	sc := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" || line == "}" || strings.HasSuffix(line, "{") {
			continue
		}

		colon := strings.LastIndex(line, ":")
		if colon < 0 {
			return nil, fmt.Errorf("line %d: missing ':'", lineNo)
		}
		key := strings.TrimSpace(line[:colon])
		val := strings.TrimSuffix(strings.TrimSpace(line[colon+1:]), ",")

		if len(key) < 2 || key[0] != '\'' || key[len(key)-1] != '\'' {
			return nil, fmt.Errorf("line %d: key must be single-quoted", lineNo)
		}
		id, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return nil, fmt.Errorf("line %d: id: %w", lineNo, err)
		}
		out = append(out, Entry{Name: unescapeLegacy(key[1 : len(key)-1]), ID: id})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan legacy map: %w", err)
	}
	return out, nil
}

func unescapeLegacy(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func escapeLegacy(s string) string {
	return strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s)
}

// WriteMap serializes m to path in id order, using the format implied by
// the extension. The file is replaced atomically under an exclusive lock.
func WriteMap(path string, m *Map) error {
	format := formatOf(path)
	err := lockedfile.Write(path, func(w io.Writer) error {
		return encodeMap(w, format, m)
	})
	if err != nil {
		return fmt.Errorf("lookup: write %s map: %w", m.Kind(), err)
	}
	return nil
}

func encodeMap(w io.Writer, format string, m *Map) error {
	bw := bufio.NewWriter(w)
	entries := m.Entries()

	switch format {
	case formatJSON:
		bw.WriteString("{\n")
		for i, e := range entries {
			key, err := json.Marshal(e.Name)
			if err != nil {
				return fmt.Errorf("encode %q: %w", e.Name, err)
			}
			sep := ","
			if i == len(entries)-1 {
				sep = ""
			}
			fmt.Fprintf(bw, "  %s: %d%s\n", key, e.ID, sep)
		}
		bw.WriteString("}\n")
	case formatTOML:
		for _, e := range entries {
			line, err := toml.Marshal(map[string]int{e.Name: e.ID})
			if err != nil {
				return fmt.Errorf("encode %q: %w", e.Name, err)
			}
			bw.Write(line)
		}
	default:
		fmt.Fprintf(bw, "%s = {\n", legacyVarName(m.Kind()))
		for _, e := range entries {
			fmt.Fprintf(bw, "    '%s': %d,\n", escapeLegacy(e.Name), e.ID)
		}
		bw.WriteString("}\n")
	}

	return bw.Flush()
}

func legacyVarName(kind domain.LookupKind) string {
	if kind == domain.LookupTags {
		return "tag_map"
	}
	return "studio_map"
}
