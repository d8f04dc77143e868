// Package migrations embeds the PostgreSQL schema migrations.
package migrations

import "embed"

// FS holds the versioned up/down SQL files at its root.
//
//go:embed *.sql
var FS embed.FS

// Dir is the directory within FS that holds the migrations.
const Dir = "."
