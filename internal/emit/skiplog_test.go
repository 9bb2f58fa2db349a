package emit

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/anime-ingest/internal/domain"
)

func TestRenderSkipLog(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	err := RenderSkipLog(&buf, []domain.SkipReason{
		{Title: "X", Cause: "Type: Music"},
		{Title: "Cowboy Bebop", Cause: "Duplicate title"},
	})
	require.NoError(t, err)

	assert.Equal(t, "Skipped Anime Log:\nX - Type: Music\nCowboy Bebop - Duplicate title\n", buf.String())
}

func TestWriteSkipLog_EmptyHasHeader(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "skipped_log.txt")
	require.NoError(t, WriteSkipLog(path, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Skipped Anime Log:\n", string(data))
}
