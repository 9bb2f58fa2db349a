package emit

import (
	"bufio"
	"fmt"
	"io"

	"github.com/heartmarshall/anime-ingest/internal/domain"
	"github.com/heartmarshall/anime-ingest/pkg/lockedfile"
)

const skipLogHeader = "Skipped Anime Log:"

// RenderSkipLog writes the header line followed by one
// "<title> - <cause>" line per rejection.
func RenderSkipLog(w io.Writer, reasons []domain.SkipReason) error {
	bw := bufio.NewWriter(w)
	bw.WriteString(skipLogHeader + "\n")
	for _, r := range reasons {
		bw.WriteString(r.String() + "\n")
	}
	return bw.Flush()
}

// WriteSkipLog renders reasons to path, replacing any previous file atomically.
func WriteSkipLog(path string, reasons []domain.SkipReason) error {
	if err := lockedfile.Write(path, func(w io.Writer) error { return RenderSkipLog(w, reasons) }); err != nil {
		return fmt.Errorf("emit: write skip log %s: %w", path, err)
	}
	return nil
}
