package progress

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBarsTo_RendersDescription(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	tr := BarsTo(&buf)("fetching pages", 4)
	for range 4 {
		tr.Add(1)
	}
	tr.Finish()

	out := buf.String()
	assert.True(t, strings.Contains(out, "fetching pages"), "output: %q", out)
}

func TestNoop(t *testing.T) {
	t.Parallel()

	tr := Noop("anything", 10)
	tr.Add(3)
	tr.Finish()
}
