package migrations

import "embed"

// FS contains embedded SQLite migrations for estimate storage.
//
//go:embed *.sql
var FS embed.FS
