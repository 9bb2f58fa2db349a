package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/anime-ingest/internal/app/ingest"
	"github.com/heartmarshall/anime-ingest/internal/config"
	"github.com/heartmarshall/anime-ingest/internal/domain"
	"github.com/heartmarshall/anime-ingest/internal/emit"
	"github.com/heartmarshall/anime-ingest/internal/normalize"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestVersionCommand_SkipsConfig(t *testing.T) {
	t.Setenv("CONFIG_PATH", "/nonexistent/config.yaml")

	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "anime-ingest "), out)
}

func TestLookupCommand_WritesMapFile(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "insert_studios.sql")
	require.NoError(t, os.WriteFile(script, []byte(
		"INSERT INTO Studios (name, rating) VALUES\n('Sunrise', 8),\n('Brain''s Base', 7);\n"), 0o644))
	out := filepath.Join(dir, "studio_map.json")
	cfgPath := writeConfig(t, dir, "log:\n  level: error\n")

	stdout, err := execute(t, "--config", cfgPath, "lookup", "--kind", "studios", "--script", script, "--out", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Wrote 2 studios to "+out)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"Sunrise\": 1,\n  \"Brain's Base\": 2\n}\n", string(data))
}

func TestLookupCommand_InvalidKind(t *testing.T) {
	cfgPath := writeConfig(t, t.TempDir(), "log:\n  level: error\n")

	_, err := execute(t, "--config", cfgPath, "lookup", "--kind", "genres")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestLookupCommand_EmptyScript(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "insert_tags.sql")
	require.NoError(t, os.WriteFile(script, []byte("-- nothing here\n"), 0o644))
	cfgPath := writeConfig(t, dir, "log:\n  level: error\n")

	_, err := execute(t, "--config", cfgPath, "lookup", "--kind", "tags",
		"--script", script, "--out", filepath.Join(dir, "tag_map.txt"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrPrecondition)
}

func TestMigrateCommand_RequiresDSN(t *testing.T) {
	t.Setenv("DATABASE_DSN", "")
	cfgPath := writeConfig(t, t.TempDir(), "log:\n  level: error\n")

	_, err := execute(t, "--config", cfgPath, "migrate")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRootCommand_MissingConfigFile(t *testing.T) {
	_, err := execute(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.yaml")
}

func TestRootCommand_ConfigPathEnvWithoutFlag(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "from-env.yaml")
	t.Setenv("CONFIG_PATH", missing)

	_, err := execute(t, "lookup", "--kind", "studios")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "from-env.yaml")
}

func TestRootCommand_ConfigFlagBeatsEnv(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "from-env.yaml"))
	cfgPath := writeConfig(t, t.TempDir(), "log:\n  level: error\n")

	_, err := execute(t, "--config", cfgPath, "lookup", "--kind", "genres")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRunCommand_FlagsOverrideConfig(t *testing.T) {
	cmd := newRunCommand(newCommandContext(new(string)))
	require.NoError(t, cmd.ParseFlags([]string{
		"--apply", "--max-pages", "3", "--safe-content", "--no-progress",
		"-o", "out.sql", "--skip-log", "skip.txt",
	}))

	cfg := &config.Config{}
	cfg.Output.Progress = true
	require.NoError(t, applyRunFlags(cmd.Flags(), cfg))

	assert.True(t, cfg.Output.Apply)
	assert.Equal(t, 3, cfg.Jikan.MaxPages)
	assert.True(t, cfg.Jikan.SafeContent)
	assert.False(t, cfg.Output.Progress)
	assert.Equal(t, "out.sql", cfg.Output.ScriptPath)
	assert.Equal(t, "skip.txt", cfg.Output.SkipLogPath)
}

func TestRunCommand_UnsetFlagsKeepConfig(t *testing.T) {
	cmd := newRunCommand(newCommandContext(new(string)))
	require.NoError(t, cmd.ParseFlags(nil))

	cfg := &config.Config{}
	cfg.Jikan.MaxPages = 9
	cfg.Output.Progress = true
	cfg.Output.ScriptPath = "configured.sql"
	require.NoError(t, applyRunFlags(cmd.Flags(), cfg))

	assert.Equal(t, 9, cfg.Jikan.MaxPages)
	assert.True(t, cfg.Output.Progress)
	assert.Equal(t, "configured.sql", cfg.Output.ScriptPath)
}

func TestRenderSummary(t *testing.T) {
	res := ingest.Result{
		Fetched:     10,
		Accepted:    6,
		Rejected:    4,
		TagLinks:    13,
		Pages:       2,
		FailedPages: 1,
		ByCause: map[normalize.Rule]int{
			normalize.RuleMusic:     1,
			normalize.RuleDuplicate: 3,
		},
		Applied: &emit.ApplyResult{Anime: 6, TagLinks: 13},
	}

	out := renderSummary(res)

	for _, want := range []string{"Fetched", "Accepted", "Rejected", "Tag links", "Failed pages", "Applied anime", "duplicate_title", "music"} {
		assert.Contains(t, out, want)
	}
	assert.Less(t, strings.Index(out, "duplicate_title"), strings.Index(out, "music"),
		"causes should be ordered by count")
}

func TestRenderSummary_NoRejections(t *testing.T) {
	out := renderSummary(ingest.Result{Fetched: 1, Accepted: 1})

	assert.NotContains(t, out, "Applied anime")
	assert.NotContains(t, strings.ToLower(out), "rejection cause")
}
