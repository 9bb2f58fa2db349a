// Package migrations embeds the goose migrations for the direct-apply schema.
package migrations

import "embed"

// FS holds the *.sql migration files.
//
//go:embed *.sql
var FS embed.FS
