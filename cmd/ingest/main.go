// Command ingest fetches the anime catalog from the Jikan API, resolves
// studios and tags against the lookup maps and writes a transactional
// insert script plus a log of skipped records.
//
// Subcommands:
//
//	run      fetch, normalize and emit (optionally --apply to PostgreSQL)
//	lookup   derive a lookup map file from an insert script
//	migrate  apply the PostgreSQL schema used by --apply
//	version  print build information
//
// Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := newRootCommand()
	if err := cmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		stop()
		os.Exit(1)
	}
}
