// Package migrations embeds the goose SQL migrations for the application
// schema.
package migrations

import "embed"

// Migrations holds the embedded SQL migration files, applied with goose.
//
//go:embed *.sql
var Migrations embed.FS
