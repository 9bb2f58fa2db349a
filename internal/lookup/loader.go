package lookup

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/heartmarshall/anime-ingest/internal/config"
	"github.com/heartmarshall/anime-ingest/internal/domain"
)

// ErrEmptyMap is returned when no source yields a usable map.
var ErrEmptyMap = fmt.Errorf("%w: lookup map is empty", domain.ErrPrecondition)

// Source provides reference entries from a store other than files.
// Implemented by refdata.Repo.
type Source interface {
	ListEntries(ctx context.Context, kind domain.LookupKind) ([]Entry, error)
}

// Paths locates the files for one lookup kind.
type Paths struct {
	MapPath    string
	ScriptPath string
}

// Loader builds lookup maps from precomputed map files, raw insert scripts
// or a Source.
type Loader struct {
	log    *slog.Logger
	paths  map[domain.LookupKind]Paths
	source Source
}

// NewFileLoader creates a Loader that reads the files named in cfg.
func NewFileLoader(logger *slog.Logger, cfg config.LookupConfig) *Loader {
	return &Loader{
		log: logger.With("component", "lookup"),
		paths: map[domain.LookupKind]Paths{
			domain.LookupStudios: {MapPath: cfg.StudioMapPath, ScriptPath: cfg.StudioScriptPath},
			domain.LookupTags:    {MapPath: cfg.TagMapPath, ScriptPath: cfg.TagScriptPath},
		},
	}
}

// NewSourceLoader creates a Loader backed by src.
func NewSourceLoader(logger *slog.Logger, src Source) *Loader {
	return &Loader{
		log:    logger.With("component", "lookup"),
		source: src,
	}
}

// Load returns the map for kind. A precomputed map file wins when it exists
// and decodes into a non-empty map; otherwise the insert script is parsed.
// ErrEmptyMap is returned when nothing yields entries.
func (l *Loader) Load(ctx context.Context, kind domain.LookupKind) (*Map, error) {
	if l.source != nil {
		entries, err := l.source.ListEntries(ctx, kind)
		if err != nil {
			return nil, fmt.Errorf("lookup: load %s: %w", kind, err)
		}
		return l.build(kind, entries, "database")
	}

	p := l.paths[kind]

	if p.MapPath != "" {
		entries, err := readMapFile(p.MapPath)
		switch {
		case err == nil && len(entries) > 0:
			return l.build(kind, entries, p.MapPath)
		case err == nil:
			l.log.WarnContext(ctx, "map file is empty, falling back to script",
				slog.String("kind", string(kind)), slog.String("path", p.MapPath))
		case errors.Is(err, fs.ErrNotExist):
			l.log.DebugContext(ctx, "map file not found",
				slog.String("kind", string(kind)), slog.String("path", p.MapPath))
		default:
			l.log.WarnContext(ctx, "map file unreadable, falling back to script",
				slog.String("kind", string(kind)), slog.String("path", p.MapPath), slog.String("error", err.Error()))
		}
	}

	if p.ScriptPath == "" {
		return nil, fmt.Errorf("lookup: %s: no script configured: %w", kind, ErrEmptyMap)
	}
	data, err := os.ReadFile(p.ScriptPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("lookup: %s: script %s not found: %w", kind, p.ScriptPath, ErrEmptyMap)
		}
		return nil, fmt.Errorf("lookup: read %s: %w", p.ScriptPath, err)
	}
	return l.build(kind, ParseInsertScript(string(data)), p.ScriptPath)
}

// LoadAll loads the studio and tag maps. Either being empty is an error.
func (l *Loader) LoadAll(ctx context.Context) (studios, tags *Map, err error) {
	studios, err = l.Load(ctx, domain.LookupStudios)
	if err != nil {
		return nil, nil, err
	}
	tags, err = l.Load(ctx, domain.LookupTags)
	if err != nil {
		return nil, nil, err
	}
	return studios, tags, nil
}

func (l *Loader) build(kind domain.LookupKind, entries []Entry, from string) (*Map, error) {
	m := NewMap(kind, entries)
	if m.Len() == 0 {
		return nil, fmt.Errorf("lookup: %s from %s: %w", kind, from, ErrEmptyMap)
	}
	l.log.Info("lookup map loaded",
		slog.String("kind", string(kind)),
		slog.String("from", from),
		slog.Int("entries", m.Len()),
	)
	return m, nil
}

func readMapFile(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseMapFile(path, data)
}
