// Package migrations embeds the SQL schema migrations for the metadata
// store.
package migrations

import "embed"

// FS holds the ordered *.sql migration files, applied at store open.
//
//go:embed *.sql
var FS embed.FS
