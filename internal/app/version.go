package app

import "fmt"

// Build metadata stamped by the release build, e.g.
//
//	go build -ldflags "-X github.com/heartmarshall/anime-ingest/internal/app.Version=v0.3.0 \
//	  -X github.com/heartmarshall/anime-ingest/internal/app.Commit=$(git rev-parse --short HEAD)" ./cmd/ingest
//
// Local builds keep the placeholders.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// BuildVersion formats the metadata for `ingest version` and the
// "starting ingest" log line.
func BuildVersion() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildTime)
}
