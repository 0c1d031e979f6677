// Package migrations embeds SQL migration files.
package migrations

import "embed"

// FS contiene las migraciones del store Postgres.
//
//go:embed *.sql
var FS embed.FS
