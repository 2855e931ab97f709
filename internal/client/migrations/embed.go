package migrations

import "embed"

// Migrations embeds the goose SQL migrations for the local credential store.
//
//go:embed *.sql
var Migrations embed.FS
